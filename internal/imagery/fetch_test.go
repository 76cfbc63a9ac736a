package imagery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/imagery-cli/internal/fetcher"
)

const sampleIndex = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": null, "properties": {"id": "USGS-Imagery", "name": "USGS Imagery", "type": "tms", "category": "photo", "url": "https://basemap.nationalmap.gov/tiles/{zoom}/{y}/{x}", "max_zoom": 20}},
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[-80, 25], [-79, 25], [-79, 26], [-80, 26], [-80, 25]]]}, "properties": {"id": "Miami", "name": "Miami Orthos", "type": "wms", "category": "photo", "country_code": "US", "url": "https://gis.example.com/wms?BBOX={bbox}&SRS={proj}&WIDTH={width}&HEIGHT={height}"}},
    {"type": "Feature", "geometry": null, "properties": {"id": "Bing", "name": "Bing aerial", "type": "bing", "category": "photo", "url": "https://www.bing.com/maps"}},
    {"type": "Feature", "geometry": null, "properties": {"id": "Paris", "name": "Paris", "type": "tms", "category": "photo", "country_code": "FR", "url": "https://paris.example.com/{zoom}"}}
  ]
}`

func newTestFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{UserAgent: "test-agent"})
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_URL(t *testing.T) {
	srv := serveBody(t, http.StatusOK, sampleIndex)

	doc, err := Fetch(context.Background(), newTestFetcher(), srv.URL+"/imagery.geojson", "ignored.geojson")
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", doc["type"])

	fs, ok := doc.features()
	require.True(t, ok)
	assert.Len(t, fs, 4)

	props := fs[0].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, json.Number("20"), props["max_zoom"])
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := serveBody(t, http.StatusNotFound, "not found")

	_, err := Fetch(context.Background(), newTestFetcher(), srv.URL, "")
	require.Error(t, err)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, srv.URL, fe.Source)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFetch_InvalidJSONBody(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "<html>maintenance</html>")

	_, err := Fetch(context.Background(), newTestFetcher(), srv.URL, "")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}

func TestFetch_NullBody(t *testing.T) {
	srv := serveBody(t, http.StatusOK, "null")

	doc, err := Fetch(context.Background(), newTestFetcher(), srv.URL, "")
	require.NoError(t, err)
	assert.Nil(t, doc)

	_, err = Filter(doc, Options{})
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestFetch_NonObjectBody(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `[1, 2, 3]`)

	_, err := Fetch(context.Background(), newTestFetcher(), srv.URL, "")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "document is not a JSON object", fe.Reason)
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imagery.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleIndex), 0o644))

	// The fetcher must not be consulted when url is empty.
	doc, err := Fetch(context.Background(), nil, "", path)
	require.NoError(t, err)
	fs, _ := doc.features()
	assert.Len(t, fs, 4)
}

func TestFetch_LocalFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.geojson")

	_, err := Fetch(context.Background(), nil, "", path)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, path, fe.Source)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetch_LocalFileUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "FeatureCollection", "features": [`), 0o644))

	_, err := Fetch(context.Background(), nil, "", path)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "fetch "+path)
}
