package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const labelWidth = 14

// WriteTable renders a report as a boxed, aligned text block. Widths are
// display widths, so wide run names and status marks keep the right border
// straight.
func WriteTable(w io.Writer, r *Report) error {
	title := "CONFIDENCE INTERVAL"
	if r.Name != "" {
		title += ": " + r.Name
	}

	res := r.Result
	rows := [][2]string{
		{"Metric", r.Metric},
		{"Method", r.Method},
		{"Samples", fmt.Sprintf("%d", r.Samples)},
	}
	if r.Method == "seeds" {
		rows = append(rows, [2]string{"Runs", fmt.Sprintf("%d", r.Runs)})
	}
	if res.NIter != nil {
		rows = append(rows, [2]string{"Iterations", fmt.Sprintf("%d", *res.NIter)})
	}
	rows = append(rows,
		[2]string{"CI level", fmt.Sprintf("%d%%", res.CILevel)},
		[2]string{"Mean", fmt.Sprintf("%.4f", res.Mean)},
		[2]string{"CI lower", fmt.Sprintf("%.4f", res.CILower)},
		[2]string{"CI upper", fmt.Sprintf("%.4f", res.CIUpper)},
		[2]string{"Width", fmt.Sprintf("%.4f", res.Width())},
	)
	if r.MinLower != nil {
		status := "✓ pass"
		if !r.Passed() {
			status = "✗ fail"
		}
		rows = append(rows, [2]string{"Min lower", fmt.Sprintf("%.4f  %s", *r.MinLower, status)})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, padRight(row[0], labelWidth)+row[1])
	}

	inner := runewidth.StringWidth(title)
	for _, l := range lines {
		inner = max(inner, runewidth.StringWidth(l))
	}

	var b strings.Builder
	rule := strings.Repeat("─", inner+2)
	b.WriteString("┌" + rule + "┐\n")
	b.WriteString("│ " + fill(title, inner) + " │\n")
	b.WriteString("├" + rule + "┤\n")
	for _, l := range lines {
		b.WriteString("│ " + fill(l, inner) + " │\n")
	}
	b.WriteString("└" + rule + "┘\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads s with spaces to the given display width, always leaving
// at least one space after it.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-sw)
}

// fill pads s with spaces to exactly width display columns.
func fill(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}
