package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/gridmend/gridmend/internal/chunk"
)

// Action is one user decision over a recommendation.
type Action struct {
	Title  string
	Type   string
	Sheet  string
	Column string
	Error  string // non-empty when the apply attempt failed
}

// Report summarizes a cleaning session: what was applied, what was skipped,
// and the chunk-level audit trail.
type Report struct {
	Filename string
	Applied  []Action
	Skipped  []Action
	Failed   []Action
	Log      []chunk.LogEntry
}

func (a Action) target() string {
	if a.Column != "" {
		return fmt.Sprintf("%s / %s", a.Sheet, a.Column)
	}
	return a.Sheet
}

// Text renders the plain-text summary.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cleaning report for %s\n", r.Filename)
	fmt.Fprintf(&b, "Applied: %d  Skipped: %d  Failed: %d\n\n", len(r.Applied), len(r.Skipped), len(r.Failed))
	section := func(name string, actions []Action) {
		if len(actions) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", name)
		for _, a := range actions {
			fmt.Fprintf(&b, "  - %s [%s] (%s)", a.Title, a.Type, a.target())
			if a.Error != "" {
				fmt.Fprintf(&b, " error: %s", a.Error)
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	section("Applied", r.Applied)
	section("Skipped", r.Skipped)
	section("Failed", r.Failed)
	if len(r.Log) > 0 {
		b.WriteString("Transformation log:\n")
		for _, e := range r.Log {
			fmt.Fprintf(&b, "  %s  %-24s %-10s chunk=%s", e.Time.Format("15:04:05"), e.Type, e.Status, e.ChunkID)
			if e.Detail != "" {
				fmt.Fprintf(&b, " (%s)", e.Detail)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// HTML renders the same summary as a minimal standalone page.
func (r *Report) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Cleaning report</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>Cleaning report for %s</h1>\n", html.EscapeString(r.Filename))
	fmt.Fprintf(&b, "<p>Applied: %d &middot; Skipped: %d &middot; Failed: %d</p>\n",
		len(r.Applied), len(r.Skipped), len(r.Failed))
	section := func(name string, actions []Action) {
		if len(actions) == 0 {
			return
		}
		fmt.Fprintf(&b, "<h2>%s</h2>\n<ul>\n", name)
		for _, a := range actions {
			fmt.Fprintf(&b, "<li>%s <code>%s</code> (%s)",
				html.EscapeString(a.Title), html.EscapeString(a.Type), html.EscapeString(a.target()))
			if a.Error != "" {
				fmt.Fprintf(&b, " &mdash; <em>%s</em>", html.EscapeString(a.Error))
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	}
	section("Applied", r.Applied)
	section("Skipped", r.Skipped)
	section("Failed", r.Failed)
	if len(r.Log) > 0 {
		b.WriteString("<h2>Transformation log</h2>\n<table border=\"1\"><tr><th>Time</th><th>Type</th><th>Status</th><th>Chunk</th><th>Detail</th></tr>\n")
		for _, e := range r.Log {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				e.Time.Format("15:04:05"),
				html.EscapeString(e.Type), e.Status,
				html.EscapeString(e.ChunkID), html.EscapeString(e.Detail))
		}
		b.WriteString("</table>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
