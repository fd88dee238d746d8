package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bucoapprove/mondash/internal/models"
)

// DefaultAPIURL is the Monday.com GraphQL endpoint.
const DefaultAPIURL = "https://api.monday.com/v2"

const (
	boardsPageSize = 100
	itemsPageSize  = 500 // API maximum per call
)

// Source is the read-only view of the remote service the pipeline
// needs. Pagination is handled inside each call; results are fully
// materialized before return.
type Source interface {
	ListBoards(ctx context.Context) ([]models.Board, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListItems(ctx context.Context, boardID string) ([]models.Item, error)
}

// Client talks to the Monday.com GraphQL API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// NewClient creates a Client for the given API token. An empty apiURL
// uses the production endpoint.
func NewClient(token, apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiURL:     apiURL,
		token:      token,
	}
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// query POSTs a GraphQL query and unmarshals the "data" payload into out.
func (c *Client) query(ctx context.Context, query string, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("monday API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("monday API returned %s: %s", resp.Status, string(b))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("monday API error: %s", envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("monday API returned no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

type boardPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"owner"`
	Columns []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Type     string `json:"type"`
		Settings string `json:"settings_str"`
	} `json:"columns"`
	Groups []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"groups"`
	ItemsCount int `json:"items_count"`
	Workspace  *struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"workspace"`
}

// ListBoards fetches every board in the account, following page-based
// pagination until an empty page is returned.
func (c *Client) ListBoards(ctx context.Context) ([]models.Board, error) {
	var all []models.Board
	for page := 1; ; page++ {
		q := fmt.Sprintf(`query {
  boards (state: all, limit: %d, page: %d) {
    id
    name
    owner { id name }
    columns { id title type settings_str }
    groups { id title }
    items_count
    workspace { id name }
  }
}`, boardsPageSize, page)

		var data struct {
			Boards []boardPayload `json:"boards"`
		}
		if err := c.query(ctx, q, &data); err != nil {
			return nil, fmt.Errorf("list boards page %d: %w", page, err)
		}
		if len(data.Boards) == 0 {
			break
		}
		for _, b := range data.Boards {
			all = append(all, toBoard(b))
		}
	}
	return all, nil
}

func toBoard(p boardPayload) models.Board {
	b := models.Board{
		ID:         p.ID,
		Name:       p.Name,
		Owner:      models.Owner{ID: p.Owner.ID.String(), Name: p.Owner.Name},
		ItemsCount: p.ItemsCount,
	}
	for _, c := range p.Columns {
		b.Columns = append(b.Columns, models.Column(c))
	}
	for _, g := range p.Groups {
		b.Groups = append(b.Groups, models.Group(g))
	}
	if p.Workspace != nil {
		b.Workspace = models.Workspace{ID: p.Workspace.ID.String(), Name: p.Workspace.Name}
	}
	return b
}

// ListUsers fetches the account's users for person-id resolution.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var data struct {
		Users []struct {
			ID   json.Number `json:"id"`
			Name string      `json:"name"`
		} `json:"users"`
	}
	if err := c.query(ctx, `query { users { id name } }`, &data); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]models.User, 0, len(data.Users))
	for _, u := range data.Users {
		users = append(users, models.User{ID: u.ID.String(), Name: u.Name})
	}
	return users, nil
}

type itemPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"group"`
	ColumnValues []struct {
		ID    string  `json:"id"`
		Value *string `json:"value"`
		Text  *string `json:"text"`
	} `json:"column_values"`
}

// ListItems fetches every item of one board through cursor-based
// items_page pagination, materializing the full list before returning.
func (c *Client) ListItems(ctx context.Context, boardID string) ([]models.Item, error) {
	var all []models.Item
	cursor := ""
	for {
		cursorField := ""
		if cursor != "" {
			cursorField = fmt.Sprintf(", cursor: %s", strconv.Quote(cursor))
		}
		q := fmt.Sprintf(`query {
  boards(ids: [%s]) {
    items_page(limit: %d%s) {
      cursor
      items {
        id
        name
        group { id title }
        column_values { id value text }
      }
    }
  }
}`, boardID, itemsPageSize, cursorField)

		var data struct {
			Boards []struct {
				ItemsPage struct {
					Cursor *string       `json:"cursor"`
					Items  []itemPayload `json:"items"`
				} `json:"items_page"`
			} `json:"boards"`
		}
		if err := c.query(ctx, q, &data); err != nil {
			return nil, fmt.Errorf("list items for board %s: %w", boardID, err)
		}
		if len(data.Boards) == 0 {
			break
		}

		page := data.Boards[0].ItemsPage
		for _, it := range page.Items {
			all = append(all, toItem(it))
		}
		if page.Cursor == nil || *page.Cursor == "" {
			break
		}
		cursor = *page.Cursor
	}
	return all, nil
}

func toItem(p itemPayload) models.Item {
	item := models.Item{ID: p.ID, Name: p.Name}
	if p.Group != nil {
		item.GroupID = p.Group.ID
	}
	for _, cv := range p.ColumnValues {
		value, text := "", ""
		if cv.Value != nil {
			value = *cv.Value
		}
		if cv.Text != nil {
			text = *cv.Text
		}
		item.ColumnValues = append(item.ColumnValues, models.ColumnValue{
			ColumnID: cv.ID,
			Value:    value,
			Text:     text,
		})
	}
	return item
}
