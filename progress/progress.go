// Package progress reports pipeline progress to stderr with elapsed time,
// the way the teacher's cpg-gen reports phase completion while it builds a
// graph.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Reporter reports progress messages prefixed with elapsed time and,
// once tagged, a build-session ID so concurrent analyses interleaving their
// output in the same terminal or log aggregator stay distinguishable.
type Reporter struct {
	start   time.Time
	verbose bool
	session uuid.UUID
	color   bool
	out     *os.File
}

// NewReporter creates a progress reporter writing to stderr.
func NewReporter(verbose bool, session uuid.UUID) *Reporter {
	out := os.Stderr
	return &Reporter{
		start:   time.Now(),
		verbose: verbose,
		session: session,
		color:   isatty.IsTerminal(out.Fd()),
		out:     out,
	}
}

// Log prints a progress message with an elapsed-time and session-ID prefix.
func (p *Reporter) Log(format string, args ...any) {
	elapsed := time.Since(p.start)
	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60
	msg := fmt.Sprintf(format, args...)
	prefix := fmt.Sprintf("[%02d:%02d %s]", mins, secs, p.session.String()[:8])
	if p.color {
		fmt.Fprintf(p.out, "\x1b[2m%s\x1b[0m %s\n", prefix, msg)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", prefix, msg)
}

// Verbose prints only when verbose mode is enabled.
func (p *Reporter) Verbose(format string, args ...any) {
	if p.verbose {
		p.Log(format, args...)
	}
}

// Counts logs a human-readable summary of node/edge counts, the way the
// teacher's pipeline logs "Inserted %d nodes" at the end of each phase —
// large counts are comma-grouped instead of printed as bare digit runs.
func (p *Reporter) Counts(label string, n int) {
	p.Log("%s: %s", label, humanize.Comma(int64(n)))
}
