package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/logx"
)

const recordTimeout = 5 * time.Second

var ErrQueueFull = errors.New("resolution queue full")

// QueueRecorder hands resolutions to a ChanWorker without waiting on the
// underlying store.
type QueueRecorder struct {
	jobs chan<- domain.Resolution
}

var _ application.ResolutionRecorder = (*QueueRecorder)(nil)

// Record never blocks; it fails with ErrQueueFull when the buffer is full.
func (q *QueueRecorder) Record(_ context.Context, r domain.Resolution) error {
	select {
	case q.jobs <- r:
		return nil
	default:
		return ErrQueueFull
	}
}

// ChanWorker drains queued resolutions into a recorder.
type ChanWorker struct {
	sink application.ResolutionRecorder
	jobs <-chan domain.Resolution
}

var _ application.Worker = (*ChanWorker)(nil)

// NewQueue wires a buffered queue of the given size in front of sink.
func NewQueue(sink application.ResolutionRecorder, size int) (*QueueRecorder, *ChanWorker) {
	ch := make(chan domain.Resolution, size)
	return &QueueRecorder{jobs: ch}, &ChanWorker{sink: sink, jobs: ch}
}

// Start runs until ctx is canceled, then flushes what is already buffered.
func (w *ChanWorker) Start(ctx context.Context) {
	log := logx.L().With(zap.String("worker", "chan"))
	log.Info("chan_worker.start")
	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx), log)
			log.Info("chan_worker.stop")
			return
		case r := <-w.jobs:
			w.processOne(ctx, log, r)
		}
	}
}

func (w *ChanWorker) flush(ctx context.Context, log *zap.Logger) {
	for {
		select {
		case r := <-w.jobs:
			w.processOne(ctx, log, r)
		default:
			return
		}
	}
}

func (w *ChanWorker) processOne(ctx context.Context, log *zap.Logger, r domain.Resolution) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("chan_worker.panic", zap.String("symbol", r.Symbol), zap.String("panic", fmt.Sprint(rec)))
		}
	}()
	c, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	if err := w.sink.Record(c, r); err != nil {
		log.Warn("chan_worker.record_failed", zap.String("symbol", r.Symbol), zap.Error(err))
	}
}
