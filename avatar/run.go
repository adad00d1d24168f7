package avatar

import (
	"context"
	"image"
	"log/slog"
)

// Loader fetches and decodes an image.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Run drives the resolver to a terminal state, loading one candidate at a
// time in list order. It returns the source that loaded, or false when every
// candidate failed. If the candidate list is replaced while a load is in
// flight, that load's result is dropped and Run continues with the new list.
func (r *Resolver) Run(ctx context.Context, loader Loader, logger *slog.Logger) (string, bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		a, ok := r.Current()
		if !ok {
			break
		}

		attemptLog := logger.With("source", a.Source, "index", a.Index)
		_, err := loader.Load(ctx, a.Source)
		if (err != nil) && (ctx.Err() != nil) {
			return "", false, ctx.Err()
		}

		var applied bool
		if err != nil {
			attemptLog.Debug("candidate failed", "error", err)
			applied = r.Failed(a)
		} else {
			attemptLog.Debug("candidate loaded")
			applied = r.Loaded(a)
		}
		if !applied {
			attemptLog.Debug("discarded stale result")
		}
	}

	src, ok := r.Resolved()
	if !ok {
		logger.Info("no avatar candidate loaded", "candidates", len(r.Candidates()))
	}
	return src, ok, nil
}
