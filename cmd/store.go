package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/imagery-cli/internal/imagery"
	"github.com/sells-group/imagery-cli/internal/store"
)

func ledgerEnabled() bool {
	return cfg.Store.Driver != "" && cfg.Store.Driver != "none"
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "imagery.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// recordRun appends the run to the ledger. Ledger failures never change the
// outcome of the run.
func recordRun(ctx context.Context, rc imagery.RunConfig, stats imagery.Stats, runErr error) {
	if !ledgerEnabled() {
		return
	}

	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run ledger unavailable", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("run ledger migrate failed", zap.Error(err))
		return
	}

	run := newRunRecord(rc, stats, runErr)
	if err := st.RecordRun(ctx, run); err != nil {
		zap.L().Warn("run ledger write failed", zap.Error(err))
		return
	}
	zap.L().Debug("run recorded", zap.String("run_id", run.ID), zap.String("status", string(run.Status)))
}
