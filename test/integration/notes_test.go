package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteBody struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	IsArchived bool     `json:"isArchived"`
	IsFavorite bool     `json:"isFavorite"`
}

type listBody struct {
	Notes      []noteBody `json:"notes"`
	Pagination struct {
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

func createNote(t *testing.T, app *TestApp, body map[string]any) noteBody {
	t.Helper()
	resp, env := app.call(t, http.MethodPost, "/api/notes", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	var n noteBody
	require.NoError(t, json.Unmarshal(env.Data, &n))
	return n
}

func TestNotesFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, 100)
	defer app.Teardown(t)

	first := createNote(t, app, map[string]any{
		"title": "Romans (part 1)", "content": "Justified by faith", "category": "Sermons", "type": "sermon", "tags": []string{"Faith"},
	})
	createNote(t, app, map[string]any{
		"title": "Prayer list", "content": "family", "category": "Prayer", "type": "request",
	})

	// regex metacharacters in search are literal
	resp, env := app.call(t, http.MethodGet, "/api/notes?search=(part", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list listBody
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Notes, 1)
	assert.Equal(t, first.ID, list.Notes[0].ID)

	resp, env = app.call(t, http.MethodPatch, "/api/notes/"+first.ID+"/favorite", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled noteBody
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.IsFavorite)

	resp, env = app.call(t, http.MethodPost, "/api/notes/"+first.ID+"/duplicate", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dup noteBody
	require.NoError(t, json.Unmarshal(env.Data, &dup))
	assert.Equal(t, "Romans (part 1) (Copy)", dup.Title)
	assert.Equal(t, []string{"faith"}, dup.Tags)

	resp, env = app.call(t, http.MethodGet, "/api/notes/stats/overview", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		Total      int64            `json:"total"`
		Favorite   int64            `json:"favorite"`
		ByCategory map[string]int64 `json:"byCategory"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Favorite)
	assert.Equal(t, map[string]int64{"Sermons": 2, "Prayer": 1}, stats.ByCategory)

	resp, _ = app.call(t, http.MethodGet, "/api/notes/000000000000000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotesBulk(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t, 100)
	defer app.Teardown(t)

	full := make([]string, 10)
	for i := range full {
		full[i] = fmt.Sprintf("t%d", i)
	}
	a := createNote(t, app, map[string]any{"title": "a", "content": "x", "category": "General", "type": "idea"})
	b := createNote(t, app, map[string]any{"title": "b", "content": "x", "category": "General", "type": "idea", "tags": full})
	c := createNote(t, app, map[string]any{"title": "c", "content": "x", "category": "General", "type": "idea", "isArchived": true})
	ids := []string{a.ID, b.ID, c.ID}

	resp, env := app.call(t, http.MethodPost, "/api/notes/bulk/add-tag", map[string]any{"ids": ids, "tag": "new"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var res struct {
		MatchedOrModifiedCount int64 `json:"matchedOrModifiedCount"`
		RequestedCount         int   `json:"requestedCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.EqualValues(t, 2, res.MatchedOrModifiedCount)
	assert.Equal(t, 3, res.RequestedCount)

	resp, env = app.call(t, http.MethodPost, "/api/notes/bulk/archive", map[string]any{"ids": ids}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.EqualValues(t, 2, res.MatchedOrModifiedCount)

	resp, env = app.call(t, http.MethodPost, "/api/notes/search/advanced", map[string]any{"isArchived": true, "tags": []string{"new"}}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var list listBody
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 2, list.Pagination.Total)

	resp, env = app.call(t, http.MethodDelete, "/api/notes/bulk/delete", map[string]any{"ids": ids}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.EqualValues(t, 3, res.MatchedOrModifiedCount)
}
