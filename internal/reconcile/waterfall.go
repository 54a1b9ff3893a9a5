package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/nbportfolio/site/internal/apiclient"
	"github.com/nbportfolio/site/internal/repository"
	"github.com/nbportfolio/site/pkg/logger"
	"github.com/nbportfolio/site/pkg/metrics"
)

const (
	sourceRemote   = "remote"
	sourceAPI      = "api"
	sourceSnapshot = "snapshot"
	sourceCache    = "cache"
)

// readStep is one provider in a read waterfall.
type readStep[T any] struct {
	name string
	run  func(ctx context.Context) (T, error)
	// acceptEmpty makes an empty successful result final.
	acceptEmpty bool
}

// readFirst returns the first non-error, non-empty result. Failures are
// logged and the next provider is tried.
func readFirst[T any](ctx context.Context, r *Reconciler, op string, steps []readStep[T], isEmpty func(T) bool) (T, string, bool) {
	var zero T
	for _, s := range steps {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.sourceTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.sourceTimeout)
		}
		v, err := s.run(attemptCtx)
		cancel()
		if err != nil {
			metrics.SourceResults.WithLabelValues(op, s.name, "error").Inc()
			logger.Warnf("%s: source %s failed: %v", op, s.name, err)
			continue
		}
		if isEmpty(v) && !s.acceptEmpty {
			metrics.SourceResults.WithLabelValues(op, s.name, "empty").Inc()
			logger.Debugf("%s: source %s returned nothing", op, s.name)
			continue
		}
		metrics.SourceResults.WithLabelValues(op, s.name, "hit").Inc()
		return v, s.name, true
	}
	return zero, "", false
}

// writeStep is one target in a write waterfall.
type writeStep[T any] struct {
	name string
	run  func(ctx context.Context) (T, error)
}

// writeFirst persists to the first target that accepts the write. A rejected
// admin secret stops the waterfall, and so does a missing row when byID
// addresses an existing record.
func writeFirst[T any](ctx context.Context, op string, byID bool, steps []writeStep[T]) (T, string, error) {
	var zero T
	var errs []error
	for _, s := range steps {
		v, err := s.run(ctx)
		if err == nil {
			metrics.SourceResults.WithLabelValues(op, s.name, "hit").Inc()
			return v, s.name, nil
		}
		metrics.SourceResults.WithLabelValues(op, s.name, "error").Inc()
		logger.Warnf("%s: target %s failed: %v", op, s.name, err)
		if stopsWrite(err, byID) {
			return zero, s.name, err
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no target configured"))
	}
	return zero, "", fmt.Errorf("%s: %w: %w", op, ErrAllTargetsFailed, errors.Join(errs...))
}

func stopsWrite(err error, byID bool) bool {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return true
	}
	return byID && errors.Is(err, repository.ErrNotFound)
}
