package benchmark

import (
	"context"
	"time"

	"github.com/google/uuid"

	"artifactbench/progress"
	"artifactbench/report"
	"artifactbench/repository"
)

type call struct {
	Op      string
	Name    string
	Entries []repository.Entry
	Query   string
	Type    repository.ArtifactType
	UUID    string
}

// fakeService records every call in order. Query answers from results,
// falling back to a single XsdDocument summary.
type fakeService struct {
	calls   []call
	results map[string][]repository.Summary
	errs    map[string]error // keyed by op
	anchor  repository.Summary
}

func newFakeService() *fakeService {
	return &fakeService{
		results: make(map[string][]repository.Summary),
		errs:    make(map[string]error),
		anchor: repository.Summary{
			UUID:         uuid.NewString(),
			Name:         "PO0",
			ArtifactType: repository.XsdDocument,
		},
	}
}

func (f *fakeService) Upload(_ context.Context, name string, _ []byte) error {
	f.calls = append(f.calls, call{Op: "upload", Name: name})
	return f.errs["upload"]
}

func (f *fakeService) BatchUpload(_ context.Context, entries []repository.Entry) error {
	f.calls = append(f.calls, call{Op: "batch", Entries: entries})
	return f.errs["batch"]
}

func (f *fakeService) Query(_ context.Context, q string) ([]repository.Summary, error) {
	f.calls = append(f.calls, call{Op: "query", Query: q})
	if err := f.errs["query"]; err != nil {
		return nil, err
	}
	if res, ok := f.results[q]; ok {
		return res, nil
	}
	return []repository.Summary{f.anchor}, nil
}

func (f *fakeService) GetMetadata(_ context.Context, t repository.ArtifactType, id string) (*repository.Record, error) {
	f.calls = append(f.calls, call{Op: "metadata", Type: t, UUID: id})
	if err := f.errs["metadata"]; err != nil {
		return nil, err
	}
	return &repository.Record{UUID: id, ArtifactType: t}, nil
}

func (f *fakeService) ops(op string) []call {
	var out []call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// recorder is a Reporter keeping everything in memory.
type recorder struct {
	records  []report.TimingRecord
	headings []string
}

func (r *recorder) Record(rec report.TimingRecord) { r.records = append(r.records, rec) }
func (r *recorder) Heading(text string)           { r.headings = append(r.headings, text) }

func (r *recorder) labels() []string {
	var out []string
	for _, rec := range r.records {
		out = append(out, rec.Label)
	}
	return out
}

// countingNotifier counts Step calls across every notifier it creates.
type countingNotifier struct {
	steps    int
	finished int
}

func (c *countingNotifier) factory() progress.Factory {
	return func(int64, string) progress.Notifier { return c }
}

func (c *countingNotifier) Step(int) { c.steps++ }
func (c *countingNotifier) Finish()  { c.finished++ }

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestTimer(rec Recorder, step time.Duration) *Timer {
	clock := &fakeClock{t: time.Unix(1700000000, 0), step: step}
	t := NewTimer(rec, nil)
	t.now = clock.now
	t.cpu = func() time.Duration { return 0 }
	return t
}

func testParams() BenchmarkParams {
	p := DefaultParams()
	p.ItemCount = 10
	p.BatchSize = 4
	return p
}

func noProgress() progress.Factory {
	return progress.NewFactory(progress.ModeNone, nil, 0)
}
