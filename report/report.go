// Package report prints timing records as phases finish and a summary once
// the run is over.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/minio/pkg/console"
)

// TimingRecord is the measurement of one phase or query step.
type TimingRecord struct {
	Label          string `json:"label"`
	DurationMillis int64  `json:"duration_ms"`
	Items          int    `json:"items,omitempty"`  // logical operations in the phase
	CPUMillis      int64  `json:"cpu_ms,omitempty"` // harness CPU time spent in the phase
}

// Duration returns the measured time as a time.Duration.
func (r TimingRecord) Duration() time.Duration {
	return time.Duration(r.DurationMillis) * time.Millisecond
}

// Throughput returns items per second, or 0 when it is not meaningful.
func (r TimingRecord) Throughput() float64 {
	if r.Items == 0 || r.DurationMillis == 0 {
		return 0
	}
	return float64(r.Items) / r.Duration().Seconds()
}

// Format selects how the summary is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

func init() {
	console.SetColor("Heading", color.New(color.FgCyan, color.Bold))
	console.SetColor("Timing", color.New(color.FgGreen, color.Bold))
	console.SetColor("Summary", color.New(color.FgYellow))
}

// Reporter writes timing lines and keeps every record for the summary. It is
// used from a single goroutine.
//
// In FormatJSON every line written to out is one JSON document: a
// TimingRecord per phase, then the summary. Headings never go to out in that
// format.
type Reporter struct {
	out       io.Writer
	headings  io.Writer
	format    Format
	runID     string
	startedAt time.Time
	records   []TimingRecord
}

// New returns a Reporter writing to out.
func New(out io.Writer, format Format, runID string) *Reporter {
	headings := out
	if format == FormatJSON {
		headings = io.Discard
	}
	return &Reporter{
		out:       out,
		headings:  headings,
		format:    format,
		runID:     runID,
		startedAt: time.Now(),
	}
}

// SetHeadingWriter sends phase headings to w. In FormatJSON it is the only
// way to see them.
func (r *Reporter) SetHeadingWriter(w io.Writer) *Reporter {
	r.headings = w
	return r
}

// Heading announces a phase.
func (r *Reporter) Heading(text string) {
	fmt.Fprintln(r.headings, console.Colorize("Heading", text))
}

// Record prints one timing line and keeps rec for the summary.
func (r *Reporter) Record(rec TimingRecord) {
	r.records = append(r.records, rec)
	if r.format == FormatJSON {
		if err := json.NewEncoder(r.out).Encode(rec); err != nil {
			fmt.Fprintf(r.headings, "failed to encode %s record: %v\n", rec.Label, err)
		}
		return
	}
	line := fmt.Sprintf("%s completed in %dms", rec.Label, rec.DurationMillis)
	fmt.Fprintln(r.out, console.Colorize("Timing", line))
}

// Records returns a copy of the records so far.
func (r *Reporter) Records() []TimingRecord {
	out := make([]TimingRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Total returns the sum of all recorded durations.
func (r *Reporter) Total() time.Duration {
	var total time.Duration
	for _, rec := range r.records {
		total += rec.Duration()
	}
	return total
}

type summaryJSON struct {
	RunID     string         `json:"run_id,omitempty"`
	StartedAt string         `json:"started_at"`
	Records   []TimingRecord `json:"records"`
	TotalMs   int64          `json:"total_ms"`
}

// Summary writes the results of the run in the reporter's format.
func (r *Reporter) Summary() error {
	if r.format == FormatJSON {
		return json.NewEncoder(r.out).Encode(summaryJSON{
			RunID:     r.runID,
			StartedAt: r.startedAt.Format(time.RFC3339),
			Records:   r.Records(),
			TotalMs:   r.Total().Milliseconds(),
		})
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, console.Colorize("Summary", "Results:"))
	for _, rec := range r.records {
		fmt.Fprintf(r.out, "%-32s %10v", rec.Label, rec.Duration())
		if tp := rec.Throughput(); tp > 0 {
			fmt.Fprintf(r.out, "  %10.2f ops/s", tp)
		}
		if rec.CPUMillis > 0 {
			fmt.Fprintf(r.out, "  (cpu %v)", time.Duration(rec.CPUMillis)*time.Millisecond)
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintf(r.out, "%-32s %10v\n", "Total", r.Total())
	return nil
}
