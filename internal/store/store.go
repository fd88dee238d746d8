package store

import (
	"context"

	"github.com/bucoapprove/mondash/internal/models"
)

// RecordFilter specifies filters for listing a snapshot's records.
// String fields match exactly except Person, which is a
// case-insensitive substring match.
type RecordFilter struct {
	Urgency        *models.Urgency
	Person         string
	Board          string
	ExcludedStatus []string
}

// Store defines the persistence interface for dataset snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot, records []models.Record) error
	GetSnapshot(ctx context.Context, id string) (*models.Snapshot, error)
	LatestSnapshot(ctx context.Context) (*models.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]*models.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error

	// ListRecords returns a snapshot's records in their stored order
	// (person, then date), optionally filtered.
	ListRecords(ctx context.Context, snapshotID string, filter RecordFilter) ([]models.Record, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
