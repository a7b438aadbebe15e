package reporting

import (
	"fmt"
	"math"
	"strings"

	"github.com/g8a9/confint/internal/metrics"
)

// InterpretWidth returns a plain-language label for an interval width on a
// metric bounded in [0, 1]. Callers skip it for unbounded metrics.
func InterpretWidth(width float64) string {
	pct := width * 100
	switch {
	case math.IsInf(width, 0) || math.IsNaN(width):
		return "Unbounded"
	case pct == 0:
		return "Degenerate (no spread)"
	case pct < 2:
		return "Tight (<2 points)"
	case pct < 5:
		return "Moderate (2-5 points)"
	case pct < 10:
		return "Wide (5-10 points)"
	default:
		return "Very wide (>10 points)"
	}
}

// InterpretThreshold explains a --min-lower check.
func InterpretThreshold(r *Report) string {
	if r.MinLower == nil {
		return ""
	}
	if r.Passed() {
		return fmt.Sprintf("Lower bound %.4f clears the %.4f threshold.", r.Result.CILower, *r.MinLower)
	}
	return fmt.Sprintf("Lower bound %.4f is below the %.4f threshold; the metric cannot be claimed at this level.", r.Result.CILower, *r.MinLower)
}

// FormatSummary produces a short plain-language reading of a report.
func FormatSummary(r *Report) string {
	var b strings.Builder

	res := r.Result
	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(fmt.Sprintf("%s is %.4f with %d%% confidence it lies in [%.4f, %.4f].\n",
		r.Metric, res.Mean, res.CILevel, res.CILower, res.CIUpper))
	if metrics.Bounded(r.Metric) {
		b.WriteString(fmt.Sprintf("Interval width: %.4f (%s)\n", res.Width(), InterpretWidth(res.Width())))
	} else {
		b.WriteString(fmt.Sprintf("Interval width: %.4f (in %s units)\n", res.Width(), r.Metric))
	}

	switch r.Method {
	case "bootstrap":
		b.WriteString(fmt.Sprintf("Estimated from %d bootstrap resamples of %d test samples.\n", deref(res.NIter), r.Samples))
	case "seeds":
		b.WriteString(fmt.Sprintf("Estimated from %d independent runs with a t interval (df=%d).\n", r.Runs, r.Runs-1))
		if r.Runs < 5 {
			b.WriteString("Few runs: the t critical value is large, so the interval is conservative. Consider adding seeds.\n")
		}
	}

	if s := InterpretThreshold(r); s != "" {
		b.WriteString(s + "\n")
	}
	return b.String()
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
