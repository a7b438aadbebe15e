package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/g8a9/confint/internal/statistics"
)

// Output formats understood by Write.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJUnit    = "junit"
)

// Formats lists every supported output format.
var Formats = []string{FormatTable, FormatJSON, FormatMarkdown, FormatHTML, FormatJUnit}

// Report describes one estimator run and its result.
type Report struct {
	Name      string                       `json:"name,omitempty"`
	Method    string                       `json:"method"`
	Metric    string                       `json:"metric"`
	Samples   int                          `json:"samples"`
	Runs      int                          `json:"runs"`
	Timestamp time.Time                    `json:"timestamp"`
	MinLower  *float64                     `json:"min_lower,omitempty"`
	Result    *statistics.ConfidenceResult `json:"result"`
}

// Passed reports whether the lower bound clears MinLower. Always true when
// no threshold is set.
func (r *Report) Passed() bool {
	return r.MinLower == nil || r.Result.CILower >= *r.MinLower
}

// Write renders r in the given format.
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatTable:
		return WriteTable(w, r)
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		html, err := HTML(r)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case FormatJUnit:
		return WriteJUnit(w, ConvertToJUnit(r))
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
