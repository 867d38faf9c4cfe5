package benchmark

import (
	"context"
	"fmt"

	"artifactbench/progress"
	"artifactbench/repository"
)

// UploadsLabel labels the sequential upload measurement.
const UploadsLabel = "Uploads"

// SequentialUploader uploads ItemCount work items one call at a time.
type SequentialUploader struct {
	svc      repository.Service
	timer    *Timer
	params   BenchmarkParams
	payload  []byte
	progress progress.Factory
}

// NewSequentialUploader returns an uploader using the given session.
func NewSequentialUploader(svc repository.Service, timer *Timer, params BenchmarkParams, payload []byte, pf progress.Factory) *SequentialUploader {
	return &SequentialUploader{svc: svc, timer: timer, params: params, payload: payload, progress: pf}
}

// Run uploads items 0..n-1 in order, one call at a time, inside one
// measurement.
func (u *SequentialUploader) Run(ctx context.Context) error {
	n := u.params.ItemCount
	total := n * u.params.Repeat

	return u.timer.MeasureItems(UploadsLabel, total, func() error {
		pb := u.progress(int64(total), "Uploading")
		defer pb.Finish()

		for r := 0; r < u.params.Repeat; r++ {
			for i := 0; i < n; i++ {
				pb.Step(r*n + i)

				item := NewWorkItem(u.params, u.payload, i)
				if err := u.svc.Upload(ctx, item.FileName, item.Payload); err != nil {
					return fmt.Errorf("upload %s: %w", item.FileName, err)
				}
			}
		}
		return nil
	})
}
