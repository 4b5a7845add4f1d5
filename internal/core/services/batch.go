package services

import (
	"context"
	"errors"
	"sync"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchWorkers = 4
	defaultBatchSize    = 100
)

// BatchOption is a functional option shared by the batch coordinators.
type BatchOption func(*batchSettings)

type batchSettings struct {
	workers   int
	batchSize int
}

// WithBatchDefaults sets the worker count and page size used when a run does
// not specify its own.
func WithBatchDefaults(workers, batchSize int) BatchOption {
	return func(s *batchSettings) {
		if workers > 0 {
			s.workers = workers
		}
		if batchSize > 0 {
			s.batchSize = batchSize
		}
	}
}

func newBatchSettings(options []BatchOption) batchSettings {
	s := batchSettings{workers: defaultBatchWorkers, batchSize: defaultBatchSize}
	for _, option := range options {
		option(&s)
	}
	return s
}

func (s batchSettings) resolve(workers, batchSize int) (int, int) {
	if workers <= 0 {
		workers = s.workers
	}
	if batchSize <= 0 {
		batchSize = s.batchSize
	}
	return workers, batchSize
}

// pageFetcher fetches up to limit rows whose IDs sort after afterID.
type pageFetcher[T any] func(ctx context.Context, afterID string, limit int) ([]T, error)

// scanPages walks a keyset-paginated source and hands each page to handle.
func scanPages[T any](ctx context.Context, batchSize int, fetch pageFetcher[T], idOf func(T) string, handle func(context.Context, []T) error) error {
	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := fetch(ctx, afterID, batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		if err := handle(ctx, page); err != nil {
			return err
		}
		if len(page) < batchSize {
			return nil
		}
		afterID = idOf(page[len(page)-1])
	}
}

func eventSourceID(e domain.PostingEvent) string { return e.Source().ID }

// forEachBounded runs fn for every item with at most workers calls in flight.
// It stops dispatching once ctx is done, waits for in-flight calls and
// returns ctx.Err().
func forEachBounded[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			fn(gctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// batchProgress serializes result updates and progress callbacks.
type batchProgress struct {
	mu    sync.Mutex
	fn    dto.ProgressFunc
	kind  domain.SourceType
	done  int
	total int
}

func (p *batchProgress) reset(kind domain.SourceType, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kind, p.done, p.total = kind, 0, total
}

// step applies update under the lock and reports progress.
func (p *batchProgress) step(update func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update()
	p.done++
	if p.fn != nil {
		p.fn(p.kind, p.done, p.total)
	}
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
