package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/i18nlens/api"
	"github.com/viant/i18nlens/config"
	"github.com/viant/i18nlens/inspector/repository"
	"github.com/viant/i18nlens/session"
	"github.com/viant/i18nlens/tree"
)

const page = `<html><body>
<h1 data-rect="0 0 200 30">Welcome</h1>
<button data-rect="0 40 60 20">Open</button>
<div class="i18n-editor" id="panel"><span data-rect="300 0 100 20">Panel</span></div>
</body></html>`

func newServer(t *testing.T, repo *repository.Repository) (*api.Server, *session.Session) {
	sess, err := session.New(map[string]any{
		"en": tree.NewRecord("menu", tree.NewRecord("open", "Open"), "title", "Welcome"),
		"de": tree.NewRecord("menu", tree.NewRecord("open", "Öffnen"), "title", "Willkommen"),
	}, session.WithLanguage("en"))
	require.NoError(t, err)
	return api.NewServer(sess, repo, config.Default(), zerolog.Nop()), sess
}

func do(t *testing.T, server http.Handler, method, path, body string) (int, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	result := map[string]any{}
	if strings.Contains(rec.Header().Get("Content-Type"), "json") && rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &result)
	}
	return rec.Code, result
}

func TestServer_Routes(t *testing.T) {
	server, _ := newServer(t, nil)
	tests := []struct {
		description string
		method      string
		path        string
		body        string
		status      int
		check       func(t *testing.T, body map[string]any)
	}{
		{description: "health", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{
			description: "languages", method: http.MethodGet, path: "/api/languages", status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, []any{"de", "en"}, body["languages"])
				assert.Equal(t, "en", body["language"])
			},
		},
		{
			description: "symbol by key chain", method: http.MethodGet, path: "/api/symbols/menu.open", status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "menu.open", body["keyChain"])
				assert.Equal(t, "Open", body["value"])
			},
		},
		{description: "unknown symbol", method: http.MethodGet, path: "/api/symbols/menu.close", status: http.StatusNotFound},
		{
			description: "search", method: http.MethodGet, path: "/api/search?text=Open", status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				symbols := body["symbols"].([]any)
				require.Len(t, symbols, 1)
				assert.Equal(t, "menu.open", symbols[0].(map[string]any)["keyChain"])
			},
		},
		{description: "search requires text", method: http.MethodGet, path: "/api/search", status: http.StatusBadRequest},
		{
			description: "compare by key chain", method: http.MethodGet, path: "/api/compare?keyChain=menu", status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				rows := body["rows"].([]any)
				require.Len(t, rows, 1)
				assert.Equal(t, []any{"Öffnen", "Open"}, rows[0].(map[string]any)["values"])
			},
		},
		{
			description: "compare by position", method: http.MethodGet, path: "/api/compare?line=3&column=7&languages=de", status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "menu.open", body["keyChain"])
				assert.Equal(t, []any{"de"}, body["languages"])
			},
		},
		{description: "compare requires position", method: http.MethodGet, path: "/api/compare", status: http.StatusBadRequest},
		{description: "select before attach", method: http.MethodPost, path: "/api/selection", body: `{"startX":0,"startY":0,"endX":1,"endY":1}`, status: http.StatusConflict},
		{description: "unknown language", method: http.MethodPut, path: "/api/language", body: `{"language":"fr"}`, status: http.StatusNotFound},
		{description: "save without repository", method: http.MethodPost, path: "/api/save", status: http.StatusNotImplemented},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			status, body := do(t, server, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, status)
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
}

func TestServer_Symbols(t *testing.T) {
	server, _ := newServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/symbols?format=yaml", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "keyChain: menu.open")

	status, body := do(t, server, http.MethodGet, "/api/symbols", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["symbols"], 3)
}

func TestServer_Edits(t *testing.T) {
	server, sess := newServer(t, nil)

	status, _ := do(t, server, http.MethodPut, "/api/resources/en/menu.open", `{"value":"Open file"}`)
	require.Equal(t, http.StatusOK, status)
	_, body := do(t, server, http.MethodGet, "/api/symbols/menu.open", "")
	assert.Equal(t, "Open file", body["value"])

	status, _ = do(t, server, http.MethodPut, "/api/resources/en/menu.count", `{"value":3}`)
	require.Equal(t, http.StatusOK, status)
	value, ok := sess.Resource("en")
	require.True(t, ok)
	count, _ := tree.Get(value, []string{"menu", "count"})
	assert.Equal(t, json.Number("3"), count)

	status, _ = do(t, server, http.MethodPut, "/api/resources/fr/title", `{"value":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, server, http.MethodPut, "/api/resources/en/title", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, server, http.MethodPut, "/api/resource", `{"link": "https:\/\/example.com"}`)
	require.Equal(t, http.StatusOK, status)
	_, body = do(t, server, http.MethodGet, "/api/symbols/link", "")
	assert.Equal(t, "https://example.com", body["value"])

	status, _ = do(t, server, http.MethodPut, "/api/resource", `{"title": "Edited"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, server, http.MethodGet, "/api/symbols/menu", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, server, http.MethodPut, "/api/resource", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, server, http.MethodPut, "/api/language", `{"language":"de"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "de", body["language"])
}

func TestServer_Selection(t *testing.T) {
	server, _ := newServer(t, nil)
	status, body := do(t, server, http.MethodPost, "/api/document", page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["fragments"])

	status, body = do(t, server, http.MethodPost, "/api/selection/pointer", `{"type":"down","x":10,"y":45,"keys":["alt"]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["handled"], "trigger key is ctrl")

	status, body = do(t, server, http.MethodPost, "/api/selection/pointer", `{"type":"down","x":310,"y":10,"keys":["ctrl"]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["handled"], "editor panel is hit at the point")
	status, body = do(t, server, http.MethodPost, "/api/selection/pointer", `{"type":"down","x":10,"y":10,"target":"panel","keys":["ctrl"]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["handled"], "explicit target inside editor panel")
	status, _ = do(t, server, http.MethodPost, "/api/selection/pointer", `{"type":"down","x":10,"y":10,"target":"missing","keys":["ctrl"]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	for _, event := range []string{
		`{"type":"down","x":10,"y":10,"keys":["ctrl"]}`,
		`{"type":"move","x":20,"y":45,"pressure":0.5,"keys":["ctrl"]}`,
		`{"type":"up","x":20,"y":45}`,
	} {
		status, body = do(t, server, http.MethodPost, "/api/selection/pointer", event)
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, "idle", body["state"])
	resolutions := body["resolutions"].([]any)
	require.Len(t, resolutions, 2)
	first := resolutions[0].(map[string]any)
	assert.Equal(t, "Welcome", first["text"])
	assert.Equal(t, "title", first["symbols"].([]any)[0].(map[string]any)["keyChain"])

	status, body = do(t, server, http.MethodPost, "/api/selection", `{"startX":5,"startY":45,"endX":6,"endY":46}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["resolutions"], 1)

	status, body = do(t, server, http.MethodPost, "/api/selection/pointer", `{"type":"drag"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, server, http.MethodDelete, "/api/document", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, server, http.MethodPost, "/api/selection/pointer", `{"type":"up"}`)
	assert.Equal(t, http.StatusConflict, status)
}

func TestServer_Save(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	repo := repository.New("mem://localhost/api/save", repository.WithFS(fs), repository.WithLayout(repository.LayoutFlat))
	server, _ := newServer(t, repo)

	status, body := do(t, server, http.MethodPost, "/api/save", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"mem://localhost/api/save/de.json", "mem://localhost/api/save/en.json"}, body["saved"])

	resources, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, []string{"menu", "title"}, tree.Keys(resources[1].Value))
}
