package imagery

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sells-group/imagery-cli/internal/fetcher"
)

// Fetch loads the imagery index from url, or from the local file at input
// when url is empty. A JSON null body yields a nil Document.
func Fetch(ctx context.Context, dl fetcher.Fetcher, url, input string) (Document, error) {
	if url != "" {
		zap.L().Info("fetching imagery index", zap.String("url", url))
		body, err := dl.Download(ctx, url)
		if err != nil {
			return nil, &FetchError{Source: url, Err: err}
		}
		defer body.Close() //nolint:errcheck
		return decodeDocument(url, body)
	}

	zap.L().Info("reading local imagery index", zap.String("path", input))
	f, err := os.Open(input)
	if err != nil {
		return nil, &FetchError{Source: input, Err: err}
	}
	defer f.Close() //nolint:errcheck
	return decodeDocument(input, f)
}

func decodeDocument(source string, r io.Reader) (Document, error) {
	v, err := fetcher.DecodeJSONValue(r)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	switch doc := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return Document(doc), nil
	default:
		return nil, &FormatError{Reason: "document is not a JSON object"}
	}
}
