package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bucoapprove/mondash/internal/models"
)

func TestBuildSummaryPrompt(t *testing.T) {
	records := []models.Record{
		{ID: "1", Name: "Entregar relatório", Persons: "Alice", Date: "2024-06-01", Status: "Parado", Urgency: models.UrgencyOverdue},
		{ID: "2", Name: "Revisar contrato", Persons: "Bob", Date: "2024-06-20", Status: "Em Andamento", Urgency: models.UrgencyAttention},
	}

	system, user, err := buildSummaryPrompt(records)
	require.NoError(t, err)

	assert.Contains(t, system, "overdue")
	assert.Contains(t, system, "plain-text")
	assert.Contains(t, user, "Entregar relatório")
	assert.Contains(t, user, "2024-06-20")
	assert.Contains(t, user, `"urgency":"overdue"`)
}

func TestSummarizeUrgent_EmptyShortCircuits(t *testing.T) {
	// No API call is made for an empty record set.
	c := NewClient("", "claude-haiku-4-5-20251001")
	text, err := c.SummarizeUrgent(context.Background(), nil)

	require.NoError(t, err)
	assert.Contains(t, text, "Nothing")
}
