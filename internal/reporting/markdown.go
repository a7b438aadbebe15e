package reporting

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders a report as a GitHub-flavored markdown section.
func Markdown(r *Report) string {
	var b strings.Builder

	title := r.Metric
	if r.Name != "" {
		title = r.Name
	}
	res := r.Result

	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("| Metric | Method | Mean | CI level | Lower | Upper | Width |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %.4f | %d%% | %.4f | %.4f | %.4f |\n\n",
		r.Metric, r.Method, res.Mean, res.CILevel, res.CILower, res.CIUpper, res.Width())

	switch r.Method {
	case "bootstrap":
		fmt.Fprintf(&b, "%d samples, %d bootstrap iterations.\n", r.Samples, deref(res.NIter))
	case "seeds":
		fmt.Fprintf(&b, "%d samples, %d runs.\n", r.Samples, r.Runs)
	}

	if r.MinLower != nil {
		mark := "✅"
		if !r.Passed() {
			mark = "❌"
		}
		fmt.Fprintf(&b, "\n%s %s\n", mark, InterpretThreshold(r))
	}
	return b.String()
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the markdown report into a standalone HTML page.
func HTML(r *Report) (string, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(r)), &body); err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}

	title := r.Metric
	if r.Name != "" {
		title = r.Name
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>body{font-family:sans-serif;margin:2em}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
