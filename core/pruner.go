package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

type PruneResult struct {
	Batches int
	Deleted int64
}

type PruneReport struct {
	Tokens         PruneResult
	Authorizations PruneResult
}

// Pruner deletes prunable tokens and authorizations in bounded batches.
// Each batch delete is its own unit of work, so a failure part way leaves
// earlier batches committed. Scheduling is left to the caller.
type Pruner struct {
	tokens         TokenStore
	authorizations AuthorizationStore
	config         PruningConfig
	observer       observer
	now            func() time.Time
}

func NewPruner(
	tokens TokenStore,
	authorizations AuthorizationStore,
	cfg PruningConfig,
	logger Logger,
	metrics MetricsRecorder,
) *Pruner {
	return &Pruner{
		tokens:         tokens,
		authorizations: authorizations,
		config:         cfg,
		observer:       newObserver(logger, metrics),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Cutoff returns the creation date before which entities are prune
// candidates under the configured threshold.
func (p *Pruner) Cutoff() time.Time {
	return p.now().Add(-p.config.Threshold)
}

func (p *Pruner) PruneTokens(ctx context.Context, olderThan time.Time) (result PruneResult, err error) {
	if p == nil || p.tokens == nil {
		return PruneResult{}, Internal("core: token store is not configured")
	}
	startedAt := time.Now().UTC()
	defer func() {
		p.observer.observeOperation(ctx, startedAt, "prune_tokens", err, map[string]any{
			"entity":     "token",
			"older_than": olderThan.UTC(),
			"batches":    result.Batches,
			"deleted":    result.Deleted,
		})
	}()
	return p.run(ctx, func(ctx context.Context, size int) ([]string, error) {
		tokens, err := p.tokens.GetPruneList(ctx, olderThan, size)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(tokens))
		for _, token := range tokens {
			ids = append(ids, token.ID())
		}
		return ids, nil
	}, p.tokens.DeleteBatch)
}

func (p *Pruner) PruneAuthorizations(ctx context.Context, olderThan time.Time) (result PruneResult, err error) {
	if p == nil || p.authorizations == nil {
		return PruneResult{}, Internal("core: authorization store is not configured")
	}
	startedAt := time.Now().UTC()
	defer func() {
		p.observer.observeOperation(ctx, startedAt, "prune_authorizations", err, map[string]any{
			"entity":     "authorization",
			"older_than": olderThan.UTC(),
			"batches":    result.Batches,
			"deleted":    result.Deleted,
		})
	}()
	return p.run(ctx, func(ctx context.Context, size int) ([]string, error) {
		authorizations, err := p.authorizations.GetPruneList(ctx, olderThan, size)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(authorizations))
		for _, authorization := range authorizations {
			ids = append(ids, authorization.ID())
		}
		return ids, nil
	}, p.authorizations.DeleteBatch)
}

// Prune runs token and authorization pruning concurrently.
func (p *Pruner) Prune(ctx context.Context, olderThan time.Time) (PruneReport, error) {
	var report PruneReport
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result, err := p.PruneTokens(groupCtx, olderThan)
		report.Tokens = result
		return err
	})
	group.Go(func() error {
		result, err := p.PruneAuthorizations(groupCtx, olderThan)
		report.Authorizations = result
		return err
	})
	if err := group.Wait(); err != nil {
		return report, fmt.Errorf("core: prune: %w", err)
	}
	return report, nil
}

func (p *Pruner) run(
	ctx context.Context,
	selectBatch func(context.Context, int) ([]string, error),
	deleteBatch func(context.Context, []string) (int64, error),
) (PruneResult, error) {
	size := p.config.BatchSize
	if size <= 0 {
		size = DefaultPruneBatchSize
	}
	var result PruneResult
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		ids, err := selectBatch(ctx, size)
		if err != nil {
			return result, err
		}
		if len(ids) == 0 {
			return result, nil
		}
		deleted, err := deleteBatch(ctx, ids)
		if err != nil {
			return result, err
		}
		result.Batches++
		result.Deleted += deleted
		if deleted == 0 || len(ids) < size {
			return result, nil
		}
		if p.config.MaxBatches > 0 && result.Batches >= p.config.MaxBatches {
			return result, nil
		}
	}
}
