package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/minio/pkg/console"
	"golang.org/x/time/rate"
)

// DefaultInterval is how many iterations pass between two line notifications.
const DefaultInterval = 100

// Mode selects how loop progress is shown.
type Mode string

const (
	ModeLines Mode = "lines"
	ModeBar   Mode = "bar"
	ModeNone  Mode = "none"
)

// ParseMode validates a progress mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLines, ModeBar, ModeNone:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown progress mode %q (want lines, bar or none)", s)
}

// Notifier is told about every iteration of a loop.
type Notifier interface {
	Step(i int)
	Finish()
}

// Factory creates a Notifier for a loop of total iterations.
type Factory func(total int64, caption string) Notifier

// NewFactory returns a Factory for mode writing to out.
func NewFactory(mode Mode, out io.Writer, interval int) Factory {
	return func(total int64, caption string) Notifier {
		switch mode {
		case ModeBar:
			return NewProgressBar(out, total).SetCaption(caption)
		case ModeNone:
			return nop{}
		default:
			return NewLines(out, interval)
		}
	}
}

// Lines prints "i: <n>" on the first iteration and every interval
// iterations after that.
type Lines struct {
	out       io.Writer
	sometimes *rate.Sometimes
}

// NewLines returns a line notifier; interval <= 0 means DefaultInterval.
func NewLines(out io.Writer, interval int) *Lines {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Lines{out: out, sometimes: &rate.Sometimes{Every: interval}}
}

func (l *Lines) Step(i int) {
	l.sometimes.Do(func() {
		fmt.Fprintf(l.out, "i: %d\n", i)
	})
}

func (l *Lines) Finish() {}

type nop struct{}

func (nop) Step(int) {}
func (nop) Finish()  {}

// ProgressBar wrapper structure
type ProgressBar struct {
	*pb.ProgressBar
}

// NewProgressBar - instantiate a progress bar.
func NewProgressBar(out io.Writer, total int64) *ProgressBar {
	// Progress bar specific theme customization.
	console.SetColor("Bar", color.New(color.FgGreen, color.Bold))

	bar := pb.New64(total)
	bar.SetWriter(out)
	bar.SetRefreshRate(time.Millisecond * 125)
	bar.SetTemplateString(`{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{speed . }}`)
	bar.Start()

	return &ProgressBar{ProgressBar: bar}
}

// SetCaption sets the caption of the progress bar, colored with the "Bar"
// console tag.
func (p *ProgressBar) SetCaption(caption string) *ProgressBar {
	p.ProgressBar.Set("prefix", console.Colorize("Bar", caption))
	return p
}

// Step advances the bar by one iteration.
func (p *ProgressBar) Step(int) {
	p.Increment()
}

// Finish stops the bar.
func (p *ProgressBar) Finish() {
	p.ProgressBar.Finish()
}
