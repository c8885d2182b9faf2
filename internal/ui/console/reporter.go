package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gopak/framepak/internal/frameworks"
	"github.com/gopak/framepak/internal/manager"
)

type consoleReporter struct {
	mu  sync.Mutex
	out io.Writer

	built, skipped int
}

func NewConsoleReporter() manager.BuildReporter {
	return newReporter(os.Stdout)
}

func newReporter(w io.Writer) *consoleReporter { return &consoleReporter{out: w} }

func (r *consoleReporter) OnPlan(order []string, platforms []frameworks.Platform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps := make([]string, len(platforms))
	for i, p := range platforms {
		ps[i] = string(p)
	}
	fmt.Fprintf(r.out, "Building %d dependencies for %s\n", len(order), strings.Join(ps, ", "))
	fmt.Fprintln(r.out, colorGray(strings.Join(order, " -> ")))
}

func (r *consoleReporter) OnBuildStart(k manager.BuildKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "*** Building %s (%s)\n", k.Name, k.Platform)
}

func (r *consoleReporter) OnBuilt(res manager.BuildResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case res.Err != nil:
		fmt.Fprintln(r.out, colorRed(fmt.Sprintf("failed:  %s (%s)", res.Key.Name, res.Key.Platform)))
		fmt.Fprintln(r.out, res.Err.Error())
	case res.Skipped:
		r.skipped++
		line := fmt.Sprintf("up-to-date: %s (%s)", res.Key.Name, res.Key.Platform)
		if !res.BuiltAt.IsZero() {
			line += ", built " + humanize.Time(res.BuiltAt)
		}
		fmt.Fprintln(r.out, colorGray(line))
	default:
		r.built++
		fmt.Fprintln(r.out, colorGreen(fmt.Sprintf("built: %s (%s)", res.Key.Name, res.Key.Platform)))
		for _, f := range res.Frameworks {
			fmt.Fprintln(r.out, colorGray("  "+f))
		}
	}
}

func (r *consoleReporter) OnDone(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		return
	}
	fmt.Fprintf(r.out, "Done: %d built, %d up-to-date\n", r.built, r.skipped)
}
