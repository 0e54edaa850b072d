package pipeline

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/trapstat-cli/internal/plot"
	"github.com/KaramelBytes/trapstat-cli/internal/stats"
	"github.com/dustin/go-humanize"
)

// Markdown renders a compact run report: input accounting, per-odor counts,
// group means and the odor-versus-solvent tests.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[TRAP ASSAY SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	if r.Source != "" {
		if r.SourceBytes > 0 {
			b.WriteString(fmt.Sprintf("Source: %s (%s)\n", r.Source, humanize.Bytes(uint64(r.SourceBytes))))
		} else {
			b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
		}
	}
	c := r.Clean
	b.WriteString(fmt.Sprintf("Rows: %d (excluded %d, missing values %d, kept %d)\n", c.Rows, c.Excluded, c.Missing, c.Kept))
	b.WriteString(fmt.Sprintf("Long rows: %d\n", len(r.Long)))
	if r.Figure != "" {
		b.WriteString(fmt.Sprintf("Figure: %s\n", r.Figure))
	}
	b.WriteString("\n")

	b.WriteString("[SAMPLE COUNTS]\n")
	for _, cc := range r.Counts {
		b.WriteString(fmt.Sprintf("- %s: n=%d\n", cc.Category, cc.Count))
	}
	b.WriteString("\n")

	b.WriteString("[GROUP MEANS]\n")
	for _, t := range r.Tests {
		b.WriteString(fmt.Sprintf("- %s: odor %s; solvent %s\n", t.Category, describe(t.Odor), describe(t.Solvent)))
	}
	b.WriteString("\n")

	b.WriteString("[KRUSKAL-WALLIS: ODOR VS SOLVENT]\n")
	for _, t := range r.Tests {
		if !t.OK() {
			b.WriteString(fmt.Sprintf("- %s: n/a (%v)\n", t.Category, t.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: H=%.3f, df=%d, %s\n", t.Category, t.Result.Statistic, t.Result.DF, plot.FormatP(t.Result.PValue, r.Alpha)))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

func describe(s stats.Summary) string {
	switch {
	case s.N == 0:
		return "no data"
	case s.HasCI():
		return fmt.Sprintf("mean %.1f%% [%.1f, %.1f] (n=%d)", s.Mean, s.CILow, s.CIHigh, s.N)
	default:
		return fmt.Sprintf("mean %.1f%% (n=%d)", s.Mean, s.N)
	}
}
