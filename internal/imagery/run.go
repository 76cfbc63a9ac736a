package imagery

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/imagery-cli/internal/fetcher"
)

// RunConfig selects the pipeline input and output.
type RunConfig struct {
	URL    string
	Input  string
	Output string
	Options
}

// Run fetches, filters and writes the imagery index. Nothing is written when
// fetching or filtering fails.
func Run(ctx context.Context, dl fetcher.Fetcher, cfg RunConfig) (Stats, error) {
	doc, err := Fetch(ctx, dl, cfg.URL, cfg.Input)
	if err != nil {
		return Stats{}, err
	}

	fc, err := Filter(doc, cfg.Options)
	if err != nil {
		return Stats{}, err
	}

	stats := Summarize(doc, fc)
	zap.L().Debug("imagery filtered",
		zap.Int("original", stats.Original),
		zap.Int("filtered", stats.Filtered),
	)

	if err := Write(cfg.Output, fc); err != nil {
		return stats, err
	}
	return stats, nil
}
