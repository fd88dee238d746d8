package normalize

import (
	"strings"

	"github.com/bucoapprove/mondash/internal/models"
)

// ColumnRoles holds the column ids that play the status, date and
// person roles on a board. An empty id means the role is unresolved and
// every item on the board decodes that field to its sentinel.
type ColumnRoles struct {
	StatusID string
	DateID   string
	PersonID string
}

// Title synonyms used to pick the right column when a board has several
// of the same type. Matching is case-insensitive substring.
var (
	personTitles = []string{"Pessoas", "Responsável", "Assignee", "Owner", "Responsible", "Pessoa"}
	dateTitles   = []string{"Data", "Deadline", "Due Date", "Prazo"}
	statusTitles = []string{"Status", "Estado", "State"}
)

// ResolveRoles assigns logical roles to the board's columns. For each
// role it prefers a column of the matching type whose title contains a
// known synonym, then falls back to the first column of that type. A
// board with no column of the type leaves the role unresolved, which is
// graceful degradation rather than an error.
func ResolveRoles(columns []models.Column) ColumnRoles {
	return ColumnRoles{
		StatusID: identifyColumn(columns, "status", statusTitles),
		DateID:   identifyColumn(columns, "date", dateTitles),
		PersonID: identifyColumn(columns, "people", personTitles),
	}
}

func identifyColumn(columns []models.Column, columnType string, titles []string) string {
	for _, col := range columns {
		if col.Type != columnType {
			continue
		}
		title := strings.ToLower(col.Title)
		for _, want := range titles {
			if strings.Contains(title, strings.ToLower(want)) {
				return col.ID
			}
		}
	}
	for _, col := range columns {
		if col.Type == columnType {
			return col.ID
		}
	}
	return ""
}
