package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bucoapprove/mondash/internal/models"
)

// Client wraps the Anthropic API for dataset summarization.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// buildSummaryPrompt constructs the system and user prompts for
// summarizing the urgent portion of a dataset.
func buildSummaryPrompt(records []models.Record) (system string, user string, err error) {
	system = `You summarize a project-management dataset for a team lead. You receive a JSON array of work items, each with name, group, board, persons, date, status and urgency ("overdue" or "attention").

Write a short plain-text briefing:
- Start with one sentence giving the overall picture (how many overdue, how many need attention soon).
- Then group the overdue items by responsible person, most items first, naming the oldest item and its date for each person.
- Close with the items coming due in the next two weeks, one line each.

Rules:
- Plain text only, no markdown headings or code fences
- Keep it under 250 words
- Use the item names and dates exactly as given`

	data, err := json.Marshal(records)
	if err != nil {
		return "", "", fmt.Errorf("encode records: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Summarize these items:\n\n")
	sb.Write(data)
	user = sb.String()
	return system, user, nil
}

// SummarizeUrgent sends the urgent records to the LLM and returns a
// plain-text briefing.
func (c *Client) SummarizeUrgent(ctx context.Context, records []models.Record) (string, error) {
	if len(records) == 0 {
		return "Nothing is overdue or coming due soon.", nil
	}

	systemPrompt, userPrompt, err := buildSummaryPrompt(records)
	if err != nil {
		return "", err
	}

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	// Extract text from response
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}
	return strings.TrimSpace(text), nil
}
