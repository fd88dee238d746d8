package models

// Column describes one column of a board, including its raw settings
// payload (JSON for status columns, carrying the label list).
type Column struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Settings string `json:"settings_str"`
}

// Group is a named section of a board that items belong to.
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Workspace identifies the workspace a board lives in.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Owner is the user that owns a board.
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Board is an immutable snapshot of one board's metadata, fetched once
// per run.
type Board struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Owner      Owner     `json:"owner"`
	Columns    []Column  `json:"columns"`
	Groups     []Group   `json:"groups"`
	ItemsCount int       `json:"items_count"`
	Workspace  Workspace `json:"workspace"`
}

// GroupTitles returns the board's group id -> title map.
func (b *Board) GroupTitles() map[string]string {
	m := make(map[string]string, len(b.Groups))
	for _, g := range b.Groups {
		m[g.ID] = g.Title
	}
	return m
}

// User is a member of the account, used to resolve person-column ids
// to display names.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
