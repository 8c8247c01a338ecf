package tier

import (
	"fmt"
	"time"
)

// Tier describes one output quality level. The tier name is used verbatim in
// output file naming ({base}_{name}{ext}).
type Tier struct {
	Name            string  `toml:"name" json:"name"`
	SimplifyRatio   float64 `toml:"simplify_ratio" json:"simplify_ratio"`
	TextureSize     int     `toml:"texture_size" json:"texture_size"`
	MeshCompression bool    `toml:"mesh_compression" json:"mesh_compression"`
}

// Validate checks a single tier record.
func (t Tier) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tier name is required")
	}
	if t.SimplifyRatio <= 0 || t.SimplifyRatio > 1 {
		return fmt.Errorf("tier %q: simplify_ratio must be in (0, 1], got %g", t.Name, t.SimplifyRatio)
	}
	if t.TextureSize <= 0 {
		return fmt.Errorf("tier %q: texture_size must be positive, got %d", t.Name, t.TextureSize)
	}
	return nil
}

// Well-known tier names. Only "ultra" carries special meaning (lossless
// texture quality); the rest are conventional.
const (
	NameUltra  = "ultra"
	NameHigh   = "high"
	NameMedium = "medium"
	NameLow    = "low"
)

// Status of one attempted unit of work in a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// TierResult is the outcome of one (input file, tier) pair.
type TierResult struct {
	Tier       string `json:"tier"`
	OutputPath string `json:"output_path,omitempty"`
	Status     Status `json:"status"`
	Err        error  `json:"-"`
}

// FileResult is the outcome of one input file's job: the load/clean phase
// plus the fan-out into per-tier results. Tiers is empty when the job failed
// before any tier was attempted.
type FileResult struct {
	InputPath string       `json:"input_path"`
	Status    Status       `json:"status"`
	Err       error        `json:"-"`
	Tiers     []TierResult `json:"tiers,omitempty"`
}

// RunReport is the structured result of one full pipeline run. Every file and
// tier that was attempted appears exactly once; a failed tier is absent from
// the output set but present here with its cause.
type RunReport struct {
	RunID    string       `json:"run_id"`
	Started  time.Time    `json:"started"`
	Duration time.Duration `json:"duration"`
	Files    []FileResult `json:"files"`
}

// OutputCount returns the number of artifacts the run persisted.
func (r *RunReport) OutputCount() int {
	n := 0
	for _, f := range r.Files {
		for _, t := range f.Tiers {
			if t.Status == StatusSucceeded {
				n++
			}
		}
	}
	return n
}

// FailureCount returns the number of failed files plus failed tiers.
func (r *RunReport) FailureCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusFailed && len(f.Tiers) == 0 {
			n++
			continue
		}
		for _, t := range f.Tiers {
			if t.Status == StatusFailed {
				n++
			}
		}
	}
	return n
}

// Failures flattens the report into (file, tier, cause) triples for logging.
func (r *RunReport) Failures() []Failure {
	var out []Failure
	for _, f := range r.Files {
		if f.Status == StatusFailed && len(f.Tiers) == 0 {
			out = append(out, Failure{File: f.InputPath, Err: f.Err})
			continue
		}
		for _, t := range f.Tiers {
			if t.Status == StatusFailed {
				out = append(out, Failure{File: f.InputPath, Tier: t.Tier, Err: t.Err})
			}
		}
	}
	return out
}

// Failure is one reported failure; Tier is empty for whole-file failures.
type Failure struct {
	File string
	Tier string
	Err  error
}
