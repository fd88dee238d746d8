package monday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphqlQuery(t *testing.T, r *http.Request) string {
	t.Helper()
	var req struct {
		Query string `json:"query"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req.Query
}

func TestListBoards_Pagination(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))
		q := graphqlQuery(t, r)
		assert.Contains(t, q, "boards")

		page++
		if page == 1 {
			fmt.Fprint(w, `{"data": {"boards": [
				{"id": "1", "name": "Board One",
				 "owner": {"id": 9, "name": "Owner"},
				 "columns": [{"id": "c1", "title": "Status", "type": "status", "settings_str": "{}"}],
				 "groups": [{"id": "g1", "title": "G"}],
				 "items_count": 3,
				 "workspace": {"id": 5, "name": "WS"}}
			]}}`)
			return
		}
		fmt.Fprint(w, `{"data": {"boards": []}}`)
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL)
	boards, err := c.ListBoards(context.Background())

	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, 2, page, "stops after the first empty page")
	assert.Equal(t, "Board One", boards[0].Name)
	assert.Equal(t, "9", boards[0].Owner.ID)
	assert.Equal(t, "WS", boards[0].Workspace.Name)
	require.Len(t, boards[0].Columns, 1)
	assert.Equal(t, "status", boards[0].Columns[0].Type)
}

func TestListBoards_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", srv.URL)
	_, err := c.ListBoards(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestListBoards_GraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"message": "invalid token"}]}`)
	}))
	defer srv.Close()

	c := NewClient("bad", srv.URL)
	_, err := c.ListBoards(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"users": [{"id": 101, "name": "Alice"}, {"id": 202, "name": "Bob"}]}}`)
	}))
	defer srv.Close()

	c := NewClient("t", srv.URL)
	users, err := c.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "101", users[0].ID, "numeric ids are kept as strings")
	assert.Equal(t, "Alice", users[0].Name)
}

func TestListItems_CursorPagination(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := graphqlQuery(t, r)
		queries = append(queries, q)

		if !strings.Contains(q, "cursor: ") {
			fmt.Fprint(w, `{"data": {"boards": [{"items_page": {
				"cursor": "cur-2",
				"items": [{"id": "i1", "name": "First",
					"group": {"id": "g1", "title": "G"},
					"column_values": [{"id": "c1", "value": "{\"index\": 1}", "text": "Feito"},
					                  {"id": "c2", "value": null, "text": null}]}]
			}}]}}`)
			return
		}
		assert.Contains(t, q, `cursor: "cur-2"`)
		fmt.Fprint(w, `{"data": {"boards": [{"items_page": {
			"cursor": null,
			"items": [{"id": "i2", "name": "Second", "group": null, "column_values": []}]
		}}]}}`)
	}))
	defer srv.Close()

	c := NewClient("t", srv.URL)
	items, err := c.ListItems(context.Background(), "77")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Len(t, queries, 2)
	assert.Contains(t, queries[0], "boards(ids: [77])")

	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, "g1", items[0].GroupID)
	require.Len(t, items[0].ColumnValues, 2)
	assert.Equal(t, `{"index": 1}`, items[0].ColumnValues[0].Value)
	assert.Equal(t, "Feito", items[0].ColumnValues[0].Text)
	assert.Equal(t, "", items[0].ColumnValues[1].Value, "null value becomes empty string")

	assert.Equal(t, "", items[1].GroupID, "null group tolerated")
}

func TestNewClient_DefaultURL(t *testing.T) {
	c := NewClient("t", "")
	assert.Equal(t, DefaultAPIURL, c.apiURL)
}
