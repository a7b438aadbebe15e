package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/g8a9/confint/internal/config"
	"github.com/g8a9/confint/internal/dataset"
	"github.com/g8a9/confint/internal/metrics"
	"github.com/g8a9/confint/internal/statistics"
	"golang.org/x/term"
)

// Answers holds the raw fields collected by the interactive wizard.
type Answers struct {
	Name        string
	Method      string
	Metric      string
	CILevel     string
	Iterations  string
	Truth       string
	Predictions string
	MinLower    string
}

// RunFileWizard runs an interactive huh form that collects a run file.
// Fields already set in initial pre-populate the form.
func RunFileWizard(in io.Reader, out io.Writer, initial Answers) (*config.RunFile, error) {
	a := initial
	if a.Method == "" {
		a.Method = string(config.MethodBootstrap)
	}
	if a.Metric == "" {
		a.Metric = string(metrics.TypeAccuracy)
	}

	metricOptions := make([]huh.Option[string], 0, len(metrics.Names()))
	for _, name := range metrics.Names() {
		metricOptions = append(metricOptions, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Run name").
				Description("Optional label shown in reports").
				Placeholder("my-eval").
				Value(&a.Name),
			huh.NewSelect[string]().
				Title("Method").
				Options(
					huh.NewOption("bootstrap (one prediction set, resampled)", string(config.MethodBootstrap)),
					huh.NewOption("seeds (one prediction set per run)", string(config.MethodSeeds)),
				).
				Value(&a.Method),
			huh.NewSelect[string]().
				Title("Metric").
				Options(metricOptions...).
				Value(&a.Metric),
			huh.NewInput().
				Title("Confidence level").
				Description("Percent in (0, 100]").
				Placeholder(strconv.Itoa(statistics.DefaultCILevel)).
				Value(&a.CILevel).
				Validate(func(s string) error {
					_, err := parseLevel(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Ground truth").
				Description("CSV path (relative to the current directory) or az://account/container/blob, optionally :column").
				Placeholder("data/test.csv:label").
				Value(&a.Truth).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("ground truth is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Predictions").
				Description("Comma-separated prediction files relative to the current directory, one per run").
				Placeholder("runs/seed1.csv, runs/seed2.csv").
				Value(&a.Predictions).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return fmt.Errorf("at least one prediction file is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Bootstrap iterations").
				Description("Ignored for the seeds method").
				Placeholder(strconv.Itoa(statistics.DefaultBootstrapIterations)).
				Value(&a.Iterations),
			huh.NewInput().
				Title("Minimum lower bound").
				Description("Optional; fail when the interval's lower bound is below it").
				Value(&a.MinLower),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return a.RunFile()
}

// RunFile converts the answers into a validated run file.
func (a Answers) RunFile() (*config.RunFile, error) {
	level, err := parseLevel(a.CILevel)
	if err != nil {
		return nil, err
	}

	rf := &config.RunFile{
		Name:    strings.TrimSpace(a.Name),
		Method:  config.Method(strings.TrimSpace(a.Method)),
		Metric:  config.MetricConfig{Name: strings.TrimSpace(a.Metric)},
		CILevel: level,
		Truth:   dataset.ParseRef(strings.TrimSpace(a.Truth), config.DefaultTruthColumn),
	}
	for _, p := range splitAndTrim(a.Predictions) {
		rf.Predictions = append(rf.Predictions, dataset.ParseRef(p, config.DefaultPredictionColumn))
	}

	if rf.Method == config.MethodBootstrap {
		rf.Iterations = statistics.DefaultBootstrapIterations
		if s := strings.TrimSpace(a.Iterations); s != "" {
			if rf.Iterations, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("iterations must be an integer, got %q", s)
			}
		}
	}

	if s := strings.TrimSpace(a.MinLower); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("minimum lower bound must be a number, got %q", s)
		}
		rf.MinLower = &v
	}

	if err := rf.Validate(); err != nil {
		return nil, err
	}
	return rf, nil
}

func parseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return statistics.DefaultCILevel, nil
	}
	level, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("confidence level must be an integer, got %q", s)
	}
	if err := statistics.ValidateCILevel(level); err != nil {
		return 0, err
	}
	return level, nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
