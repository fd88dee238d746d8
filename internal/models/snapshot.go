package models

import "time"

// Snapshot is one persisted pipeline run: its metadata plus the
// warnings accumulated while building it. The records themselves are
// stored alongside and listed separately.
type Snapshot struct {
	ID         string    `json:"id"`
	FetchedAt  time.Time `json:"fetched_at"`
	BoardCount int       `json:"board_count"`
	ItemCount  int       `json:"item_count"`
	Warnings   []string  `json:"warnings,omitempty"`
}
