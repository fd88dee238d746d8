package decode

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/bucoapprove/mondash/internal/models"
)

// StatusLabelMap maps column id -> label index (decimal string) -> label
// text, built once per run from board column settings and read-only
// afterward.
type StatusLabelMap map[string]map[string]string

// Lookup resolves a label index for a column.
func (m StatusLabelMap) Lookup(columnID, index string) (string, bool) {
	col, ok := m[columnID]
	if !ok {
		return "", false
	}
	label, ok := col[index]
	return label, ok
}

// statusSettings is the subset of a status column's settings payload we
// care about. Labels entries are either {"name": "..."} objects or plain
// strings depending on the board's configuration age.
type statusSettings struct {
	Labels []json.RawMessage `json:"labels"`
}

// BuildStatusLabels scans every status column across the given boards
// and builds the index -> label map from its settings payload. Columns
// whose settings fail to parse are skipped; each skip is reported as a
// non-fatal warning string.
func BuildStatusLabels(boards []models.Board) (StatusLabelMap, []string) {
	labels := make(StatusLabelMap)
	var warnings []string

	for _, board := range boards {
		for _, col := range board.Columns {
			if col.Type != "status" || col.Settings == "" {
				continue
			}
			colMap, err := parseLabelSettings(col.Settings)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"board %s: status column %s: unparsable settings: %v", board.ID, col.ID, err))
				continue
			}
			if len(colMap) > 0 {
				labels[col.ID] = colMap
			}
		}
	}
	return labels, warnings
}

func parseLabelSettings(settings string) (map[string]string, error) {
	var s statusSettings
	if err := json.Unmarshal([]byte(settings), &s); err != nil {
		return nil, err
	}

	colMap := make(map[string]string, len(s.Labels))
	for i, raw := range s.Labels {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
			colMap[strconv.Itoa(i)] = obj.Name
			continue
		}
		var plain string
		if err := json.Unmarshal(raw, &plain); err == nil {
			colMap[strconv.Itoa(i)] = plain
		}
	}
	return colMap, nil
}

// defaultStatusValues is the baseline vocabulary offered to filters even
// when no board declares the label.
var defaultStatusValues = []string{
	"Em Andamento", "Feito", "Parado", "Pendente", "Aguardando", "Concluído", "Em Progresso",
}

// AllStatusValues returns the sorted, deduplicated union of every label
// known to the map plus the default vocabulary. Used to populate filter
// choices; not part of the decoding path.
func AllStatusValues(m StatusLabelMap) []string {
	seen := make(map[string]bool)
	for _, col := range m {
		for _, label := range col {
			seen[label] = true
		}
	}
	for _, label := range defaultStatusValues {
		seen[label] = true
	}

	values := make([]string, 0, len(seen))
	for label := range seen {
		values = append(values, label)
	}
	sort.Strings(values)
	return values
}
