package content

import (
	"context"
	"time"

	"github.com/hejvi/hejvi/internal/logging"
	"github.com/hejvi/hejvi/internal/store"
)

// FetchRecorder persists one record per API call.
type FetchRecorder interface {
	AppendFetchEvent(ctx context.Context, data store.FetchEventData) error
}

// LoggingClient is a decorator that logs every API call and records it as
// a fetch event.
type LoggingClient struct {
	inner  Client
	repo   FetchRecorder
	logger *logging.Logger
}

// WithLogging wraps a Client with logging. repo may be nil.
func WithLogging(c Client, repo FetchRecorder, logger *logging.Logger) Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LoggingClient{inner: c, repo: repo, logger: logger}
}

func (l *LoggingClient) ElementByHash(ctx context.Context, hash string) (*Element, error) {
	start := time.Now()
	e, err := l.inner.ElementByHash(ctx, hash)
	l.record(ctx, OpElementByHash, hash, start, err)
	return e, err
}

func (l *LoggingClient) ElementByID(ctx context.Context, id int64) (*Element, error) {
	start := time.Now()
	e, err := l.inner.ElementByID(ctx, id)
	l.record(ctx, OpElementByID, idKey(id), start, err)
	return e, err
}

func (l *LoggingClient) CollectionByHash(ctx context.Context, hash string) (*Collection, error) {
	start := time.Now()
	c, err := l.inner.CollectionByHash(ctx, hash)
	l.record(ctx, OpCollectionByHash, hash, start, err)
	return c, err
}

func (l *LoggingClient) record(ctx context.Context, op, key string, start time.Time, err error) {
	latency := time.Since(start)
	data := store.FetchEventData{
		Operation: op,
		Key:       key,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("content fetch failed", "op", op, "key", key, "latency", latency, "err", err)
	} else {
		l.logger.Debug("content fetch", "op", op, "key", key, "latency", latency)
	}

	if l.repo == nil {
		return
	}
	// Recording must never fail the call itself.
	if logErr := l.repo.AppendFetchEvent(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Error("record fetch event", "op", op, "err", logErr)
	}
}
