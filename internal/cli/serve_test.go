package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vizbind/pkg/cache"
	"github.com/matzehuels/vizbind/pkg/pipeline"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	return (&server{runner: pipeline.NewRunner(fc, nil, logger), logger: logger}).routes()
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = strings.NewReader(string(data))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, r))
	return rec
}

func scatterRequest() map[string]any {
	return map[string]any{
		"spec": testSpec,
		"dataset": []any{
			[]any{map[string]any{"id": "a", "x": 1, "y": 1}},
			[]any{map[string]any{"id": "a", "x": 2, "y": 2}, map[string]any{"id": "b", "x": 3, "y": 3}},
		},
		"duration": "50ms",
	}
}

func TestServeHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServeRender(t *testing.T) {
	h := testServer(t)

	rec := post(t, h, "/render", scatterRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "<circle"))

	again := post(t, h, "/render", scatterRequest())
	assert.Equal(t, "hit", again.Header().Get("X-Cache"))
	assert.Equal(t, rec.Body.String(), again.Body.String())
	assert.Equal(t, rec.Header().Get("ETag"), again.Header().Get("ETag"))

	js := post(t, h, "/render/json", scatterRequest())
	require.Equal(t, http.StatusOK, js.Code, js.Body.String())
	assert.Equal(t, "application/json", js.Header().Get("Content-Type"))
	assert.True(t, json.Valid(js.Body.Bytes()))
}

func TestServeErrors(t *testing.T) {
	h := testServer(t)

	badDuration := scatterRequest()
	badDuration["duration"] = "soon"
	noComponents := scatterRequest()
	noComponents["spec"] = `title = "empty"`

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"malformed body", "/render", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "/render", `{"spec": "x", "colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "/render/png", scatterRequest(), http.StatusUnprocessableEntity, "CONFIGURATION"},
		{"bad duration", "/render", badDuration, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing dataset", "/render", map[string]any{"spec": testSpec}, http.StatusBadRequest, "INVALID_INPUT"},
		{"no components", "/render", noComponents, http.StatusUnprocessableEntity, "CONFIGURATION"},
		{"no chord", "/layout", scatterRequest(), http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServeLayout(t *testing.T) {
	h := testServer(t)
	rec := post(t, h, "/layout/teams", map[string]any{
		"spec": testChordSpec,
		"dataset": []any{
			map[string]any{"id": "a", "team": "g", "size": 1},
			map[string]any{"id": "c", "team": "h", "size": 2},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dump pipeline.LayoutDump
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dump))
	assert.Equal(t, "teams", dump.Component)
	assert.Len(t, dump.Layout.Nodes, 4)
	assert.Len(t, dump.Layout.Ribbons, 1)
}
