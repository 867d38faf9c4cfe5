package benchmark

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"artifactbench/progress"
	"artifactbench/repository"
)

// BatchUploadsLabel labels the batched upload measurement.
const BatchUploadsLabel = "Batch uploads"

// Accumulator collects items into batches of at most capacity items and
// hands each full batch to flush. Every flushed batch except possibly the
// last one holds exactly capacity items.
type Accumulator[T any] struct {
	capacity int
	flush    func(ctx context.Context, batch []T) error
	batch    []T
	flushed  int
}

// NewAccumulator returns an Accumulator. capacity must be positive.
func NewAccumulator[T any](capacity int, flush func(ctx context.Context, batch []T) error) (*Accumulator[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("batch capacity must be > 0, got %d", capacity)
	}
	return &Accumulator[T]{
		capacity: capacity,
		flush:    flush,
		batch:    make([]T, 0, capacity),
	}, nil
}

// Add appends item to the open batch and flushes it once it is full.
func (a *Accumulator[T]) Add(ctx context.Context, item T) error {
	a.batch = append(a.batch, item)
	if len(a.batch) == a.capacity {
		return a.send(ctx)
	}
	return nil
}

// Close flushes the trailing partial batch, if any.
func (a *Accumulator[T]) Close(ctx context.Context) error {
	if a.Pending() == 0 {
		return nil
	}
	return a.send(ctx)
}

// Pending returns the number of items in the open batch.
func (a *Accumulator[T]) Pending() int {
	return len(a.batch)
}

// Flushed returns the number of batches sent so far.
func (a *Accumulator[T]) Flushed() int {
	return a.flushed
}

func (a *Accumulator[T]) send(ctx context.Context) error {
	batch := a.batch
	// flush may keep the slice, so the next batch gets fresh storage
	a.batch = make([]T, 0, a.capacity)
	if err := a.flush(ctx, batch); err != nil {
		return err
	}
	a.flushed++
	return nil
}

// BatchUploader uploads ItemCount work items in archives of BatchSize.
type BatchUploader struct {
	svc      repository.Service
	timer    *Timer
	params   BenchmarkParams
	payload  []byte
	progress progress.Factory
}

// NewBatchUploader returns a batch uploader using the given session.
func NewBatchUploader(svc repository.Service, timer *Timer, params BenchmarkParams, payload []byte, pf progress.Factory) *BatchUploader {
	return &BatchUploader{svc: svc, timer: timer, params: params, payload: payload, progress: pf}
}

// Run sends ceil(ItemCount/BatchSize) batched calls inside one measurement.
func (u *BatchUploader) Run(ctx context.Context) error {
	n := u.params.ItemCount
	total := n * u.params.Repeat

	return u.timer.MeasureItems(BatchUploadsLabel, total, func() error {
		pb := u.progress(int64(total), "Batch uploading")
		defer pb.Finish()

		for r := 0; r < u.params.Repeat; r++ {
			acc, err := NewAccumulator(u.params.BatchSize, u.sendBatch)
			if err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				pb.Step(r*n + i)

				item := NewWorkItem(u.params, u.payload, i)
				if err := acc.Add(ctx, item.Entry()); err != nil {
					return err
				}
			}
			if err := acc.Close(ctx); err != nil {
				return err
			}
			u.timer.logger.Debug("batches sent",
				zap.Int("round", r),
				zap.Int("batches", acc.Flushed()))
		}
		return nil
	})
}

func (u *BatchUploader) sendBatch(ctx context.Context, batch []repository.Entry) error {
	if err := u.svc.BatchUpload(ctx, batch); err != nil {
		return fmt.Errorf("batch upload %s..%s: %w", batch[0].Name, batch[len(batch)-1].Name, err)
	}
	return nil
}
