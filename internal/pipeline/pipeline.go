// Package pipeline orchestrates a run: scan the source directory, and for
// each scene file load it once, clean a baseline, then fan out into the
// configured quality tiers, each computed on its own clone of the baseline
// and persisted under a tier-qualified name. Failures are contained: a bad
// file never stops the run, a bad tier never touches its siblings.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/quellen/scene-tier-pipeline/internal/config"
	"github.com/quellen/scene-tier-pipeline/internal/metrics"
	"github.com/quellen/scene-tier-pipeline/internal/scene"
	"github.com/quellen/scene-tier-pipeline/internal/store"
	"github.com/quellen/scene-tier-pipeline/pkg/tier"
)

// Pipeline derives tiered outputs from a directory of scene files. It owns
// no document state between runs; every run is a fresh best-effort pass.
type Pipeline struct {
	store   store.Store
	cfg     config.Config
	log     *log.Logger
	metrics *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithMetrics attaches prometheus collectors to the pipeline.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline over a validated configuration.
func New(st store.Store, cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		store: st,
		cfg:   cfg,
		log:   log.New(os.Stderr),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one full pass over the source directory. The returned error
// is non-nil only for run-level failures (unreadable source directory);
// per-file and per-tier failures are reported in the RunReport and never
// abort the pass.
func (p *Pipeline) Run(ctx context.Context) (*tier.RunReport, error) {
	report := &tier.RunReport{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
	logger := p.log.With("run_id", report.RunID)

	inputs, err := p.scan()
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		logger.Warn("no scene files found", "dir", p.cfg.SourceDir, "ext", p.cfg.SceneExtension)
	}
	logger.Info("run started", "files", len(inputs), "tiers", len(p.cfg.Tiers))

	for _, input := range inputs {
		report.Files = append(report.Files, p.ProcessFile(ctx, logger, input))
	}

	report.Duration = time.Since(report.Started)
	logger.Info("run finished",
		"outputs", report.OutputCount(),
		"failures", report.FailureCount(),
		"duration", report.Duration)
	return report, nil
}

// scan enumerates candidate inputs: entries of the source directory with the
// configured scene extension, in sorted order so runs are reproducible.
func (p *Pipeline) scan() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("scan source directory: %w", err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), p.cfg.SceneExtension) {
			inputs = append(inputs, filepath.Join(p.cfg.SourceDir, e.Name()))
		}
	}
	return inputs, nil
}

// ProcessFile runs one file's full job: load, clean the baseline, then fan
// out into every configured tier. The baseline is never mutated after
// cleaning; every tier works on its own clone.
func (p *Pipeline) ProcessFile(ctx context.Context, logger *log.Logger, inputPath string) tier.FileResult {
	start := time.Now()
	flog := logger.With("file", filepath.Base(inputPath))
	result := tier.FileResult{InputPath: inputPath}

	baseline, err := p.store.Load(ctx, inputPath)
	if err != nil {
		flog.Error("load failed", "err", err)
		p.metrics.FileFailed()
		result.Status = tier.StatusFailed
		result.Err = err
		return result
	}

	if err := p.store.ApplySequence(ctx, baseline, CleaningSequence()); err != nil {
		// The baseline is poisoned; no tier can safely branch from it.
		flog.Error("baseline cleaning failed", "err", err)
		p.metrics.FileFailed()
		result.Status = tier.StatusFailed
		result.Err = err
		return result
	}
	flog.Debug("baseline cleaned")

	for _, t := range p.cfg.Tiers {
		result.Tiers = append(result.Tiers, p.processTier(ctx, flog, baseline, inputPath, t))
	}

	result.Status = tier.StatusSucceeded
	for _, tr := range result.Tiers {
		if tr.Status == tier.StatusFailed {
			result.Status = tier.StatusFailed
		}
	}
	p.metrics.FileProcessed(time.Since(start).Seconds())
	return result
}

// processTier derives one tier from the cleaned baseline. Any failure is
// scoped to this tier: the poisoned clone is discarded and siblings proceed.
func (p *Pipeline) processTier(ctx context.Context, logger *log.Logger, baseline *scene.Document, inputPath string, t tier.Tier) tier.TierResult {
	tlog := logger.With("tier", t.Name)
	result := tier.TierResult{Tier: t.Name}

	doc, err := p.store.Clone(baseline)
	if err != nil {
		tlog.Error("clone failed", "err", err)
		p.metrics.TierFailed()
		result.Status = tier.StatusFailed
		result.Err = err
		return result
	}

	seq := BuildSequence(t, p.cfg.TextureFormat)
	if err := p.store.ApplySequence(ctx, doc, seq); err != nil {
		tlog.Error("transform failed", "err", err)
		p.metrics.TierFailed()
		result.Status = tier.StatusFailed
		result.Err = err
		return result
	}

	outputPath := p.outputPath(inputPath, t.Name)
	if err := p.store.Save(doc, outputPath); err != nil {
		tlog.Error("persist failed", "err", err)
		p.metrics.TierFailed()
		result.Status = tier.StatusFailed
		result.Err = err
		return result
	}

	tlog.Info("tier written", "output", filepath.Base(outputPath), "steps", seq.Kinds())
	p.metrics.TierProcessed()
	result.Status = tier.StatusSucceeded
	result.OutputPath = outputPath
	return result
}

// outputPath is {destDir}/{baseName}_{tierName}{ext}.
func (p *Pipeline) outputPath(inputPath, tierName string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(p.cfg.DestDir, fmt.Sprintf("%s_%s%s", name, tierName, ext))
}
