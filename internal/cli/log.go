// Package cli implements the notegraph command-line interface.
//
// Commands read a group of notes from the configured source, run them
// through the pipeline and write the result:
//   - groups: list the groups of the source
//   - graph: print the built graph with its diagnostics
//   - layout: compute node positions with force, tree or radial layout
//   - render: write SVG, PNG, DOT or JSON scene files
//   - explore: browse the graph interactively in the terminal
//   - serve: expose groups, renders and viewport sessions over HTTP
//   - cache: clear or locate the layout and render cache
//
// All commands support --verbose (-v) for debug-level logging and --config to
// point at a TOML file.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled logs with a short wall-clock stamp, e.g.
// "14:32:01.45 INFO laid out notes=42".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// progress measures one command step.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info with the elapsed time appended as "took".
func (p *progress) done(msg string, keyvals ...any) {
	took := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "took", took)...)
}
