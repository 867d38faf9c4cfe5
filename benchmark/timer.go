package benchmark

import (
	"time"

	"go.uber.org/zap"

	"artifactbench/report"
)

// Recorder receives timing records.
type Recorder interface {
	Record(rec report.TimingRecord)
}

// Timer measures named operations and hands one TimingRecord per successful
// operation to its Recorder.
type Timer struct {
	sink   Recorder
	logger *zap.Logger

	now func() time.Time
	cpu func() time.Duration
}

// NewTimer returns a Timer using the wall clock and the process CPU clock.
func NewTimer(sink Recorder, logger *zap.Logger) *Timer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timer{
		sink:   sink,
		logger: logger,
		now:    time.Now,
		cpu:    processCPUTime,
	}
}

// Measure runs op and records its duration under label. A failing op
// records nothing and its error is returned unchanged.
func (t *Timer) Measure(label string, op func() error) error {
	return t.MeasureItems(label, 0, op)
}

// MeasureItems is Measure for an operation covering items logical
// operations, which the report uses for throughput.
func (t *Timer) MeasureItems(label string, items int, op func() error) error {
	t.logger.Debug("measure start", zap.String("label", label))

	cpuStart := t.cpu()
	start := t.now()
	err := op()
	end := t.now()
	cpuEnd := t.cpu()

	if err != nil {
		t.logger.Debug("measure failed", zap.String("label", label), zap.Error(err))
		return err
	}

	rec := report.TimingRecord{
		Label:          label,
		DurationMillis: nonNegative(end.Sub(start)).Milliseconds(),
		Items:          items,
		CPUMillis:      nonNegative(cpuEnd - cpuStart).Milliseconds(),
	}
	t.logger.Debug("measure done",
		zap.String("label", label),
		zap.Int64("duration_ms", rec.DurationMillis))
	t.sink.Record(rec)
	return nil
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
