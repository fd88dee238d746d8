package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/bucoapprove/mondash/internal/decode"
	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/monday"
	"github.com/bucoapprove/mondash/internal/normalize"
	"github.com/bucoapprove/mondash/internal/output"
	"github.com/bucoapprove/mondash/internal/urgency"
)

// Options controls one pipeline run.
type Options struct {
	From           time.Time // zero = no lower date bound
	To             time.Time // zero = no upper date bound
	ExcludedStatus []string
	ReferenceDate  time.Time // zero = today
}

// Dataset is the final product of one run: the classified, sorted
// records plus everything non-fatal that went wrong along the way.
type Dataset struct {
	Records      []models.Record `json:"records"`
	Warnings     []string        `json:"warnings,omitempty"`
	BoardCount   int             `json:"board_count"`
	ItemCount    int             `json:"item_count"`
	StatusValues []string        `json:"status_values"`
	FetchedAt    time.Time       `json:"fetched_at"`
}

// Builder runs the full ingest pipeline against a data source.
type Builder struct {
	source monday.Source
	ui     *output.UI
}

// NewBuilder creates a Builder. ui may be nil for silent operation.
func NewBuilder(source monday.Source, ui *output.UI) *Builder {
	if ui == nil {
		ui = output.New()
		ui.Out = nopWriter{}
		ui.ErrOut = nopWriter{}
	}
	return &Builder{source: source, ui: ui}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Build fetches boards, users and items, normalizes every item and
// applies filtering, urgency classification and sorting over the whole
// collection.
//
// Failures to list boards or users are fatal: nothing useful was
// fetched, so no dataset is returned. A board whose items cannot be
// listed, or an item that cannot be normalized, only produces a
// warning; boards processed before such a failure stay in the result.
func (b *Builder) Build(ctx context.Context, opts Options) (*Dataset, error) {
	b.ui.Info("Fetching boards...")
	boards, err := b.source.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch boards: %w", err)
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("no boards returned; check the API token")
	}

	b.ui.Info("Fetching users...")
	users, err := b.source.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	userNames := make(map[string]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	labels, warnings := decode.BuildStatusLabels(boards)
	for _, w := range warnings {
		b.ui.Warning("%s", w)
	}

	ds := &Dataset{
		Warnings:     warnings,
		BoardCount:   len(boards),
		StatusValues: decode.AllStatusValues(labels),
		FetchedAt:    time.Now(),
	}

	var records []models.Record
	for i, board := range boards {
		b.ui.Info("Processing board %d/%d: %s (ID: %s)", i+1, len(boards), board.Name, board.ID)
		roles := normalize.ResolveRoles(board.Columns)

		items, err := b.source.ListItems(ctx, board.ID)
		if err != nil {
			ds.warnf(b.ui, "board %s (%s): listing items failed: %v", board.Name, board.ID, err)
			continue
		}
		b.ui.VerboseLog("board %s: %d items", board.Name, len(items))

		for _, item := range items {
			rec, err := normalizeItem(item, board, userNames, roles, labels)
			if err != nil {
				ds.warnf(b.ui, "item %s on board %s: %v", item.ID, board.Name, err)
				continue
			}
			records = append(records, rec)
			ds.ItemCount++
		}
	}

	ref := opts.ReferenceDate
	if ref.IsZero() {
		ref = time.Now()
	}
	ds.Records = urgency.Apply(records, ref, urgency.FilterOptions{
		From:           opts.From,
		To:             opts.To,
		ExcludedStatus: opts.ExcludedStatus,
	})

	b.ui.Success("Processed %d items across %d boards", ds.ItemCount, ds.BoardCount)
	return ds, nil
}

func (d *Dataset) warnf(ui *output.UI, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	d.Warnings = append(d.Warnings, msg)
	ui.Warning("%s", msg)
}

// normalizeItem shields the pipeline from a malformed item: a panic in
// normalization becomes a per-item error instead of aborting the run.
func normalizeItem(item models.Item, board models.Board, users map[string]string, roles normalize.ColumnRoles, labels decode.StatusLabelMap) (rec models.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalize: %v", r)
		}
	}()
	return normalize.NormalizeItem(item, board, users, roles, labels), nil
}

// Stats summarizes a record collection for dashboards and exports.
type Stats struct {
	TotalItems     int            `json:"total_items"`
	UniquePersons  int            `json:"unique_persons"`
	OverdueCount   int            `json:"overdue_count"`
	AttentionCount int            `json:"attention_count"`
	ByStatus       map[string]int `json:"by_status"`
}

// ComputeStats derives the summary block: totals, unique assignees,
// urgency counts and status distribution.
func ComputeStats(records []models.Record) Stats {
	s := Stats{
		TotalItems: len(records),
		ByStatus:   make(map[string]int),
	}
	persons := make(map[string]bool)
	for _, r := range records {
		persons[r.Persons] = true
		s.ByStatus[r.Status]++
		switch r.Urgency {
		case models.UrgencyOverdue:
			s.OverdueCount++
		case models.UrgencyAttention:
			s.AttentionCount++
		}
	}
	s.UniquePersons = len(persons)
	return s
}
