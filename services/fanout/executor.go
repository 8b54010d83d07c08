package fanout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kerrizor/buffet/services"
	"github.com/kerrizor/buffet/services/providers"
)

const (
	// DefaultMaxConcurrent bounds the number of in-flight requests per batch.
	DefaultMaxConcurrent = 8

	// DefaultRequestTimeout is the per-descriptor deadline.
	DefaultRequestTimeout = 10 * time.Second
)

// Result is the outcome of one descriptor: either its transformed items or a
// capture of whatever failed. Exactly one of Items/Err is meaningful. Callers
// correlate outcome to descriptor by position.
type Result[T any] struct {
	Items []T
	Err   error
}

// Options tunes one executor instance.
type Options struct {
	// MaxConcurrent is the worker ceiling shared across one batch.
	MaxConcurrent int

	// RequestTimeout is the per-descriptor deadline. A call that never
	// returns within it fails with the timeout flavor of a transport error
	// and does not block batch completion.
	RequestTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	return o
}

// Executor runs a batch of independently-constructed request descriptors
// concurrently and delivers per-descriptor outcomes in input order. It is
// generic over the transform's element type and performs no semantic
// interpretation of the values it carries.
type Executor[T any] struct {
	client providers.HTTPClient
	opts   Options
	logger *zap.Logger
}

// NewExecutor creates an executor over the injected transport.
func NewExecutor[T any](client providers.HTTPClient, opts Options, logger *zap.Logger) *Executor[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor[T]{
		client: client,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Execute runs every descriptor in the batch in parallel, bounded by the
// concurrency ceiling, and returns a same-length result list in input order
// once all descriptors have completed. One descriptor's failure never aborts
// its siblings. If the caller's context is cancelled mid-flight the whole
// batch is discarded and an error is returned; partial results are delivered
// only at batch completion, never before.
func (e *Executor[T]) Execute(ctx context.Context, batch []providers.Descriptor[T]) ([]Result[T], error) {
	if len(batch) == 0 {
		return []Result[T]{}, nil
	}

	batchID := uuid.New()
	start := time.Now()
	e.logger.Debug("starting fan-out batch",
		zap.String("batch_id", batchID.String()),
		zap.Int("descriptors", len(batch)))

	results := make([]Result[T], len(batch))
	sem := semaphore.NewWeighted(int64(e.opts.MaxConcurrent))
	var wg sync.WaitGroup

	for i, desc := range batch {
		wg.Add(1)
		go func(i int, desc providers.Descriptor[T]) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = Result[T]{Err: services.NewTransportError("batch cancelled before dispatch", err)}
				return
			}
			defer sem.Release(1)

			results[i] = e.run(ctx, desc)
		}(i, desc)
	}

	// Workers exit promptly on cancellation because every request context is
	// a child of ctx, so this wait is bounded by the per-descriptor timeout.
	wg.Wait()

	if err := ctx.Err(); err != nil {
		e.logger.Warn("fan-out batch cancelled, discarding results",
			zap.String("batch_id", batchID.String()),
			zap.Error(err))
		return nil, services.NewTransportError("fan-out batch cancelled", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.logger.Info("fan-out batch completed",
		zap.String("batch_id", batchID.String()),
		zap.Int("descriptors", len(batch)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))

	return results, nil
}

// run executes a single descriptor: network call, status check, transform.
func (e *Executor[T]) run(ctx context.Context, desc providers.Descriptor[T]) Result[T] {
	if desc.Empty {
		return Result[T]{Items: []T{}}
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.opts.RequestTimeout)
	defer cancel()

	var body io.Reader
	if len(desc.Request.Body) > 0 {
		body = bytes.NewReader(desc.Request.Body)
	}

	req, err := http.NewRequestWithContext(reqCtx, desc.Request.Method, desc.Request.URL, body)
	if err != nil {
		return Result[T]{Err: services.NewTransportError("failed to build request", err).
			WithDetail("service", string(desc.Service))}
	}
	for k, vs := range desc.Request.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() == context.DeadlineExceeded {
			e.logger.Warn("request timed out",
				zap.String("service", string(desc.Service)),
				zap.Duration("timeout", e.opts.RequestTimeout))
			return Result[T]{Err: services.NewTimeoutError("request timed out", err).
				WithDetail("service", string(desc.Service))}
		}
		return Result[T]{Err: services.NewTransportError("request failed", err).
			WithDetail("service", string(desc.Service))}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result[T]{Err: services.NewTransportError("failed to read response", err).
			WithDetail("service", string(desc.Service))}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result[T]{Err: services.NewTransportError(
			fmt.Sprintf("service returned status %d", resp.StatusCode), nil).
			WithDetail("service", string(desc.Service)).
			WithDetail("status_code", resp.StatusCode)}
	}

	items, err := desc.Transform(raw)
	if err != nil {
		var domainErr *services.DomainError
		if !errors.As(err, &domainErr) {
			err = services.NewMalformedResponseError("transform failed", err).
				WithDetail("service", string(desc.Service))
		}
		return Result[T]{Err: err}
	}

	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items}
}
