package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/imagery-cli/internal/imagery"
)

const filtered = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"id": "County", "name": "County Orthos", "url": "https://county/{z}/{x}/{y}"}},
    {"type": "Feature", "properties": {"id": "USGS-Imagery", "name": "USGS Imagery", "url": "https://usgs/{z}/{y}/{x}", "countrywide": true, "max_zoom": 16}}
  ]
}`

func newTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filtered.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	srv := httptest.NewServer(NewRouter(path))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "")

	var body map[string]string
	resp := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestImagery(t *testing.T) {
	srv := newTestServer(t, filtered)

	var fc imagery.FeatureCollection
	resp := getJSON(t, srv.URL+"/imagery", &fc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Len(t, fc.Features, 2)
}

func TestImagery_NotFound(t *testing.T) {
	srv := newTestServer(t, "")

	var body map[string]string
	resp := getJSON(t, srv.URL+"/imagery", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "not found")
}

func TestImagery_Corrupt(t *testing.T) {
	srv := newTestServer(t, "{not json")

	var body map[string]string
	resp := getJSON(t, srv.URL+"/imagery", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "filtered imagery unreadable", body["error"])
}

func TestSources_Groups(t *testing.T) {
	srv := newTestServer(t, filtered)

	tests := []struct {
		query string
		ids   []string
	}{
		{"", []string{"County", "USGS-Imagery"}},
		{"?group=all", []string{"County", "USGS-Imagery"}},
		{"?group=countrywide", []string{"USGS-Imagery"}},
		{"?group=other", []string{"County"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got map[string]imagery.TileSource
			resp := getJSON(t, srv.URL+"/sources"+tt.query, &got)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			ids := make([]string, 0, len(got))
			for id := range got {
				ids = append(ids, id)
			}
			assert.ElementsMatch(t, tt.ids, ids)
		})
	}
}

func TestSources_Defaults(t *testing.T) {
	srv := newTestServer(t, filtered)

	var got map[string]imagery.TileSource
	getJSON(t, srv.URL+"/sources", &got)
	assert.Equal(t, 16, got["USGS-Imagery"].MaxZoom)
	assert.Equal(t, 20, got["County"].MaxZoom)
	assert.Equal(t, "OpenStreetMap contributors", got["County"].Attribution.Text)
}

func TestSources_UnknownGroup(t *testing.T) {
	srv := newTestServer(t, filtered)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/sources?group=regional", &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown catalog group")
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, filtered)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/imagery", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://editor.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, filtered)

	resp, err := http.Get(srv.URL + "/tiles/1/2/3")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
