package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/g8a9/confint/internal/dataset"
	"github.com/g8a9/confint/internal/metrics"
	"github.com/g8a9/confint/internal/statistics"
	"gopkg.in/yaml.v3"
)

// Method selects the estimation procedure.
type Method string

const (
	MethodBootstrap Method = "bootstrap"
	MethodSeeds     Method = "seeds"
)

// Default CSV columns when a ref omits one.
const (
	DefaultTruthColumn      = "label"
	DefaultPredictionColumn = "prediction"
)

// MetricConfig names a registered metric and its keyword arguments.
type MetricConfig struct {
	Name string         `yaml:"name" json:"name"`
	Args map[string]any `yaml:"args,omitempty" json:"args,omitempty"`
}

// RunFile is a declarative confidence interval run.
type RunFile struct {
	Name        string        `yaml:"name,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Method      Method        `yaml:"method"`
	Metric      MetricConfig  `yaml:"metric"`
	CILevel     int           `yaml:"ci_level,omitempty"`
	Iterations  int           `yaml:"iterations,omitempty"`
	MinLower    *float64      `yaml:"min_lower,omitempty"`
	Truth       dataset.Ref   `yaml:"truth"`
	Predictions []dataset.Ref `yaml:"predictions"`
}

// Load reads, schema-checks and validates a run file. Relative data paths
// are resolved against the run file's directory.
func Load(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}

	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("%s does not match the run file schema:\n  %s", path, strings.Join(errs, "\n  "))
	}

	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}

	rf.applyDefaults(filepath.Dir(path))

	if err := rf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &rf, nil
}

func (r *RunFile) applyDefaults(baseDir string) {
	if r.CILevel == 0 {
		r.CILevel = statistics.DefaultCILevel
	}
	if r.Method == MethodBootstrap && r.Iterations == 0 {
		r.Iterations = statistics.DefaultBootstrapIterations
	}

	r.Truth = resolveRef(r.Truth, baseDir, DefaultTruthColumn)
	for i, p := range r.Predictions {
		r.Predictions[i] = resolveRef(p, baseDir, DefaultPredictionColumn)
	}
}

func resolveRef(ref dataset.Ref, baseDir, defaultColumn string) dataset.Ref {
	if ref.Column == "" {
		ref.Column = defaultColumn
	}
	if baseDir != "" && !strings.HasPrefix(ref.Location, dataset.BlobScheme) && !filepath.IsAbs(ref.Location) {
		ref.Location = filepath.Join(baseDir, ref.Location)
	}
	return ref
}

// Rebase rewrites relative local data paths, read relative to fromDir, so
// that they point at the same files when resolved from toDir. Blob and
// absolute locations are left alone.
func (r *RunFile) Rebase(fromDir, toDir string) error {
	from, err := filepath.Abs(fromDir)
	if err != nil {
		return fmt.Errorf("rebasing run file: %w", err)
	}
	to, err := filepath.Abs(toDir)
	if err != nil {
		return fmt.Errorf("rebasing run file: %w", err)
	}

	rebase := func(ref dataset.Ref) (dataset.Ref, error) {
		if strings.HasPrefix(ref.Location, dataset.BlobScheme) || filepath.IsAbs(ref.Location) {
			return ref, nil
		}
		rel, err := filepath.Rel(to, filepath.Join(from, ref.Location))
		if err != nil {
			return ref, fmt.Errorf("rebasing %s: %w", ref.Location, err)
		}
		ref.Location = rel
		return ref, nil
	}

	if r.Truth, err = rebase(r.Truth); err != nil {
		return err
	}
	for i, p := range r.Predictions {
		if r.Predictions[i], err = rebase(p); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks constraints the schema cannot express.
func (r *RunFile) Validate() error {
	if err := statistics.ValidateCILevel(r.CILevel); err != nil {
		return err
	}
	if _, err := metrics.Create(r.Metric.Name); err != nil {
		return err
	}

	switch r.Method {
	case MethodBootstrap:
		if len(r.Predictions) != 1 {
			return fmt.Errorf("bootstrap takes exactly one prediction set, got %d", len(r.Predictions))
		}
		if r.Iterations < 1 {
			return fmt.Errorf("%w: iterations must be at least 1, got %d", statistics.ErrInvalidParameter, r.Iterations)
		}
	case MethodSeeds:
		if len(r.Predictions) < 2 {
			return fmt.Errorf("%w: seeds needs at least 2 prediction sets, got %d", statistics.ErrInsufficientSamples, len(r.Predictions))
		}
		if r.Iterations != 0 {
			return fmt.Errorf("iterations only applies to the bootstrap method")
		}
	default:
		return fmt.Errorf("'%s' is not a valid method", r.Method)
	}
	return nil
}

// Save writes the run file as YAML.
func (r *RunFile) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run file: %w", err)
	}
	return nil
}
