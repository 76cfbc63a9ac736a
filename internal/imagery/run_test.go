package imagery

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FromURL(t *testing.T) {
	srv := serveBody(t, http.StatusOK, sampleIndex)
	out := filepath.Join(t.TempDir(), "filtered.json")

	stats, err := Run(context.Background(), newTestFetcher(), RunConfig{URL: srv.URL, Output: out})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Original)
	assert.Equal(t, 2, stats.Filtered)
	assert.Equal(t, 2, stats.Removed)
	assert.Equal(t, 1, stats.Countrywide)
	assert.Equal(t, 1, stats.Worldwide)

	fc, err := Read(out)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "https://gis.example.com/wms?BBOX={bbox-epsg-3857}&SRS=EPSG:3857&WIDTH=256&HEIGHT=256", fc.Features[0].Properties["url"])
	assert.Equal(t, "https://basemap.nationalmap.gov/tiles/{z}/{y}/{x}", fc.Features[1].Properties["url"])
	assert.Equal(t, true, fc.Features[1].Properties["countrywide"])
}

func TestRun_FromLocalInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "imagery.geojson")
	out := filepath.Join(dir, "filtered.json")
	require.NoError(t, os.WriteFile(in, []byte(sampleIndex), 0o644))

	stats, err := Run(context.Background(), nil, RunConfig{Input: in, Output: out})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Filtered)
	assert.FileExists(t, out)
}

func TestRun_FetchErrorWritesNothing(t *testing.T) {
	srv := serveBody(t, http.StatusInternalServerError, "boom")
	out := filepath.Join(t.TempDir(), "filtered.json")

	_, err := Run(context.Background(), newTestFetcher(), RunConfig{URL: srv.URL, Output: out})
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.NoFileExists(t, out)
}

func TestRun_FormatErrorWritesNothing(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"features": []}`)
	out := filepath.Join(t.TempDir(), "filtered.json")

	_, err := Run(context.Background(), newTestFetcher(), RunConfig{URL: srv.URL, Output: out})
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.NoFileExists(t, out)
}

func TestRun_StrictFieldErrorWritesNothing(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"type": "tms", "category": "photo", "name": "No url"}}
	]}`)
	out := filepath.Join(t.TempDir(), "filtered.json")

	_, err := Run(context.Background(), newTestFetcher(), RunConfig{
		URL: srv.URL, Output: out, Options: Options{Strict: true},
	})
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.NoFileExists(t, out)
}

func TestRun_WriteErrorKeepsStats(t *testing.T) {
	srv := serveBody(t, http.StatusOK, sampleIndex)
	out := filepath.Join(t.TempDir(), "missing", "filtered.json")

	stats, err := Run(context.Background(), newTestFetcher(), RunConfig{URL: srv.URL, Output: out})
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, 2, stats.Filtered)
}
