// Package report renders comparison results for people (Text) and for
// tooling (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/diff"
)

// GridRemediation is printed when a two-by-two design renders as a single
// column. Utility classes such as grid-cols-2 only exist if the CSS build
// generated them, so the hint spells the grid out.
const GridRemediation = `.dashboard-grid {
  display: grid;
  grid-template-columns: repeat(2, 1fr);
  gap: 10px;
}`

// Options controls Text output.
type Options struct {
	// Debug adds both rectangle arrays and their diff.
	Debug bool
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	code    lipgloss.Style
}

// newStyles binds the palette to w so colour is only emitted to terminals.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("244")),
		code:    r.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(2),
	}
}

// Text writes the human-readable report for res.
func Text(w io.Writer, res *compare.Result, opts Options) error {
	st := newStyles(w)
	var b strings.Builder

	b.WriteString(st.title.Render("Layout comparison"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", st.muted.Render(fmt.Sprintf("run %s", res.RunID)))
	fmt.Fprintf(&b, "  design: %s\n", res.Figma.SourceID)
	fmt.Fprintf(&b, "  live:   %s\n\n", res.Live.SourceID)

	if res.Match {
		writeMatch(&b, st, res)
	} else {
		writeMismatch(&b, st, res)
	}

	if res.ExpectedPattern != "" && res.ExpectedPattern != res.Figma.Pattern {
		fmt.Fprintf(&b, "\n%s\n", st.warning.Render(fmt.Sprintf(
			"Note: design resolves to %s but expectedPattern is %s",
			res.Figma.Pattern, res.ExpectedPattern)))
	}

	writeDrift(&b, st, res)

	if opts.Debug {
		if err := writeDebug(&b, st, res); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMatch(b *strings.Builder, st styles, res *compare.Result) {
	b.WriteString(st.success.Render("✅ Layout matches design"))
	b.WriteString("\n")
	fmt.Fprintf(b, "  Pattern:    %s (%s)\n", res.Live.Pattern, res.Live.Pattern.Description())
	fmt.Fprintf(b, "  Elements:   %d\n", res.Details.ElementCount.Actual)
	fmt.Fprintf(b, "  Confidence: %s\n", percent(res.Confidence))
}

func writeMismatch(b *strings.Builder, st styles, res *compare.Result) {
	b.WriteString(st.failure.Render("❌ Layout does not match design"))
	b.WriteString("\n")

	count := res.Details.ElementCount
	if !count.Match {
		fmt.Fprintf(b, "  ✖ Element count: expected %d, got %d\n", count.Expected, count.Actual)
	}

	pattern := res.Details.Pattern
	if !pattern.Match {
		fmt.Fprintf(b, "  ✖ Pattern: expected %s, got %s\n", pattern.Expected, pattern.Actual)
		fmt.Fprintf(b, "      expected: %s\n", pattern.Expected.Description())
		fmt.Fprintf(b, "      actual:   %s\n", pattern.Actual.Description())
	}
	fmt.Fprintf(b, "  Confidence: %s\n", percent(res.Confidence))

	if pattern.Expected == layout.PatternGrid2x2 && pattern.Actual == layout.PatternVertical {
		fmt.Fprintf(b, "\n%s\n", st.section.Render("Suggested fix"))
		b.WriteString("The panels stack in one column. Give the container an explicit\n")
		b.WriteString("two-column grid instead of relying on framework utility classes,\n")
		b.WriteString("which may not be generated by the CSS build:\n\n")
		b.WriteString(st.code.Render(GridRemediation))
		b.WriteString("\n")
	}
}

func writeDrift(b *strings.Builder, st styles, res *compare.Result) {
	if len(res.Details.SizeDrift) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s\n", st.section.Render(fmt.Sprintf("Size drift (tolerance %s)", percent(res.Tolerance))))
	for _, d := range res.Details.SizeDrift {
		line := fmt.Sprintf("  ⚠ #%d %s vs %s: width %s, height %s",
			d.Index, d.DesignID, d.LiveID, percent(d.WidthDelta), percent(d.HeightDelta))
		b.WriteString(st.warning.Render(line))
		b.WriteString("\n")
	}
}

func writeDebug(b *strings.Builder, st styles, res *compare.Result) error {
	figmaJSON, err := json.MarshalIndent(res.Figma.Elements, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal design elements: %w", err)
	}
	liveJSON, err := json.MarshalIndent(res.Live.Elements, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal live elements: %w", err)
	}

	fmt.Fprintf(b, "\n%s\n%s\n", st.section.Render("Design elements"), figmaJSON)
	fmt.Fprintf(b, "\n%s\n%s\n", st.section.Render("Live elements"), liveJSON)

	if d := diff.Unified(append(figmaJSON, '\n'), append(liveJSON, '\n'), "design", "live"); d != "" {
		fmt.Fprintf(b, "\n%s\n%s", st.section.Render("Element diff"), d)
	}
	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// JSON writes res as indented JSON.
func JSON(w io.Writer, res *compare.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
