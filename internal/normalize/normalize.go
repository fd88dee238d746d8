package normalize

import (
	"strconv"
	"strings"

	"github.com/bucoapprove/mondash/internal/decode"
	"github.com/bucoapprove/mondash/internal/models"
)

// NormalizeItem flattens one raw item into a Record using the board's
// group map, the resolved column roles and the run's label and user
// registries. It is pure: the same inputs always produce the same
// record.
func NormalizeItem(item models.Item, board models.Board, users map[string]string, roles ColumnRoles, labels decode.StatusLabelMap) models.Record {
	cells := item.ValuesByColumn()
	groups := board.GroupTitles()

	group := "No group"
	if item.GroupID != "" {
		if title, ok := groups[item.GroupID]; ok {
			group = title
		}
	}

	name := item.Name
	if name == "" {
		name = "No name"
	}
	boardName := board.Name
	if boardName == "" {
		boardName = "No board"
	}
	id := item.ID
	if id == "" {
		id = "No ID"
	}

	return models.Record{
		ID:      id,
		Name:    name,
		Group:   group,
		Board:   boardName,
		Persons: resolvePersons(decodeRole("person", roles.PersonID, cells, labels), users),
		Date:    decodeRole("date", roles.DateID, cells, labels),
		Status:  decodeRole("status", roles.StatusID, cells, labels),
	}
}

// decodeRole decodes the cell that plays the given role, degrading to
// the role's sentinel when the role is unresolved or the item has no
// cell for it.
func decodeRole(role, columnID string, cells map[string]models.ColumnValue, labels decode.StatusLabelMap) string {
	if columnID == "" {
		return "No " + role
	}
	cell, ok := cells[columnID]
	if !ok {
		return "No " + role
	}
	return decode.Decode(role, cell.Value, cell.Text, columnID, labels)
}

// resolvePersons turns the decoder's comma-joined person ids into
// display names. Non-numeric tokens are display-text fallbacks from the
// decoder and pass through untouched; numeric ids missing from the user
// registry render as "Unknown User <id>".
func resolvePersons(decoded string, users map[string]string) string {
	if decoded == "" || decoded == "No person" {
		return "No person"
	}

	var names []string
	for _, token := range strings.Split(decoded, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if name, ok := users[token]; ok {
			names = append(names, name)
			continue
		}
		if _, err := strconv.ParseInt(token, 10, 64); err == nil {
			names = append(names, "Unknown User "+token)
			continue
		}
		names = append(names, token)
	}
	if len(names) == 0 {
		return "No person"
	}
	return strings.Join(names, ", ")
}
