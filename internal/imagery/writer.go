package imagery

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/imagery-cli/internal/fetcher"
)

// Write serializes fc as 2-space indented JSON to path, replacing any
// existing file.
func Write(path string, fc *FeatureCollection) error {
	if err := writeJSON(path, fc); err != nil {
		zap.L().Error("error saving filtered imagery", zap.String("path", path), zap.Error(err))
		return &WriteError{Path: path, Err: err}
	}
	zap.L().Info("filtered imagery saved", zap.String("path", path))
	return nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "close file")
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}

// Read loads a previously written filtered document.
func Read(path string) (*FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: open filtered file")
	}
	defer f.Close() //nolint:errcheck

	fc, err := fetcher.DecodeJSONObject[FeatureCollection](f)
	if err != nil {
		return nil, eris.Wrap(err, "imagery: decode filtered file")
	}
	return fc, nil
}
