package models

// ColumnValue is one cell of an item: the opaque encoded value plus the
// best-effort display text the source computed for it. Either may be
// empty.
type ColumnValue struct {
	ColumnID string `json:"id"`
	Value    string `json:"value"`
	Text     string `json:"text"`
}

// Item is one row of a board as fetched from the source.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	GroupID      string        `json:"group_id"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// ValuesByColumn returns the item's cells keyed by column id.
func (i *Item) ValuesByColumn() map[string]ColumnValue {
	m := make(map[string]ColumnValue, len(i.ColumnValues))
	for _, cv := range i.ColumnValues {
		m[cv.ColumnID] = cv
	}
	return m
}
