package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bucoapprove/mondash/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes all DB access through Go's connection pool, preventing
	// "database is locked" errors from concurrent HTTP requests.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout so concurrent writes wait instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	// Create migrations tracking table
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// Sort by filename
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Check if already applied
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Snapshots ---

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot, records []models.Record) error {
	if snap.ID == "" {
		snap.ID = newULID()
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}

	warnings, err := json.Marshal(snap.Warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, fetched_at, board_count, item_count, warnings)
		VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.FetchedAt, snap.BoardCount, snap.ItemCount, string(warnings),
	)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	for i, r := range records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (snapshot_id, position, item_id, name, group_name, board_name, persons, date, status, urgency)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.ID, i, r.ID, r.Name, r.Group, r.Board, r.Persons, r.Date, r.Status, string(r.Urgency),
		)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func scanSnapshot(row interface{ Scan(...any) error }) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	var warnings string
	if err := row.Scan(&snap.ID, &snap.FetchedAt, &snap.BoardCount, &snap.ItemCount, &warnings); err != nil {
		return nil, err
	}
	if warnings != "" && warnings != "null" {
		if err := json.Unmarshal([]byte(warnings), &snap.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
	}
	return snap, nil
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, id string) (*models.Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT id, fetched_at, board_count, item_count, warnings
		FROM snapshots WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*models.Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx,
		`SELECT id, fetched_at, board_count, item_count, warnings
		FROM snapshots ORDER BY fetched_at DESC, id DESC LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no snapshots stored; run fetch first")
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]*models.Snapshot, error) {
	query := `SELECT id, fetched_at, board_count, item_count, warnings
		FROM snapshots ORDER BY fetched_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []*models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("snapshot not found: %s", id)
	}
	return nil
}

// --- Records ---

func (s *SQLiteStore) ListRecords(ctx context.Context, snapshotID string, filter RecordFilter) ([]models.Record, error) {
	query := `SELECT item_id, name, group_name, board_name, persons, date, status, urgency
		FROM records WHERE snapshot_id = ?`
	args := []any{snapshotID}

	if filter.Urgency != nil {
		query += " AND urgency = ?"
		args = append(args, string(*filter.Urgency))
	}
	if filter.Person != "" {
		query += " AND LOWER(persons) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Person)+"%")
	}
	if filter.Board != "" {
		query += " AND board_name = ?"
		args = append(args, filter.Board)
	}
	for _, status := range filter.ExcludedStatus {
		query += " AND status != ?"
		args = append(args, status)
	}
	query += " ORDER BY position"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		var urgencyStr string
		if err := rows.Scan(&r.ID, &r.Name, &r.Group, &r.Board, &r.Persons, &r.Date, &r.Status, &urgencyStr); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Urgency = models.Urgency(urgencyStr)
		records = append(records, r)
	}
	return records, rows.Err()
}
