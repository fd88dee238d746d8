package urgency

import (
	"sort"
	"strings"
	"time"

	"github.com/bucoapprove/mondash/internal/models"
)

const (
	// Items dated up to this many days in the past are flagged overdue.
	overdueWindowDays = 30
	// Items dated up to this many days ahead are flagged for attention.
	attentionWindowDays = 15
)

// doneStatus is the status text that exempts a record from urgency
// classification regardless of its date.
const doneStatus = "Feito"

// dateLayouts are tried in order when parsing record dates. The source
// normally emits ISO dates; the rest cover textual fallbacks seen in
// the wild.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"01-02-2006",
}

// ParseDate converts a record's date field into a calendar date. Sentinel
// values ("No date", "No ...") and unparsable strings return ok=false.
func ParseDate(s string) (time.Time, bool) {
	if s == "" || strings.HasPrefix(s, "No ") {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// ISO dates sometimes arrive with a time component attached.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Classify computes the urgency of one (status, date) pair relative to
// the reference date. Pure function of its inputs: done items and items
// without a parsable date are never flagged; otherwise the calendar-day
// difference decides, with today counting as overdue.
func Classify(status, date string, ref time.Time) models.Urgency {
	if status == doneStatus {
		return models.UrgencyNone
	}
	d, ok := ParseDate(date)
	if !ok {
		return models.UrgencyNone
	}

	diff := daysBetween(ref, d)
	switch {
	case diff <= 0 && diff >= -overdueWindowDays:
		return models.UrgencyOverdue
	case diff > 0 && diff <= attentionWindowDays:
		return models.UrgencyAttention
	default:
		return models.UrgencyNone
	}
}

// daysBetween returns the whole calendar days from ref to d, ignoring
// time of day.
func daysBetween(ref, d time.Time) int {
	ref = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(ref).Hours() / 24)
}

// FilterOptions narrows a record collection before classification.
type FilterOptions struct {
	From             time.Time // zero = no lower bound
	To               time.Time // zero = no upper bound
	ExcludedStatus   []string
	UrgencyOnly      []models.Urgency // report-side filter; empty = all
	IncludeNoUrgency bool
}

// Apply runs the full classify step over records: filter, tag each
// survivor with its urgency, then sort. The input slice is not
// modified.
func Apply(records []models.Record, ref time.Time, opts FilterOptions) []models.Record {
	excluded := make(map[string]bool, len(opts.ExcludedStatus))
	for _, s := range opts.ExcludedStatus {
		excluded[s] = true
	}
	rangeActive := !opts.From.IsZero() || !opts.To.IsZero()

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if excluded[r.Status] {
			continue
		}
		if rangeActive {
			d, ok := ParseDate(r.Date)
			// Records without a parsable date are dropped when a
			// range filter is active. A zero bound is open-ended.
			if !ok {
				continue
			}
			if !opts.From.IsZero() && d.Before(opts.From) {
				continue
			}
			if !opts.To.IsZero() && d.After(opts.To) {
				continue
			}
		}
		r.Urgency = Classify(r.Status, r.Date, ref)
		out = append(out, r)
	}

	if len(opts.UrgencyOnly) > 0 || opts.IncludeNoUrgency {
		out = filterUrgency(out, opts)
	}

	Sort(out)
	return out
}

func filterUrgency(records []models.Record, opts FilterOptions) []models.Record {
	wanted := make(map[models.Urgency]bool, len(opts.UrgencyOnly))
	for _, u := range opts.UrgencyOnly {
		wanted[u] = true
	}

	out := records[:0]
	for _, r := range records {
		if wanted[r.Urgency] || (opts.IncludeNoUrgency && r.Urgency == models.UrgencyNone) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records by person name case-insensitively, then by parsed
// date ascending with unparsable dates last. Stable for ties.
func Sort(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := strings.ToLower(records[i].Persons), strings.ToLower(records[j].Persons)
		if pi != pj {
			return pi < pj
		}
		di, oki := ParseDate(records[i].Date)
		dj, okj := ParseDate(records[j].Date)
		if oki != okj {
			return oki // parsable dates sort before unparsable ones
		}
		if !oki {
			return false
		}
		return di.Before(dj)
	})
}
