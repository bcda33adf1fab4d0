// Package pipeline runs the compat header generation end to end:
// scan → extract → classify → render.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/mvp-joe/adapta-compat/internal/classify"
	"github.com/mvp-joe/adapta-compat/internal/compat"
	"github.com/mvp-joe/adapta-compat/internal/scanner"
	"github.com/mvp-joe/adapta-compat/internal/symbols"
)

// ErrNoHeaders indicates the root directory contains no header files.
var ErrNoHeaders = errors.New("no header files found")

// Config holds everything one generation run needs.
type Config struct {
	RootDir    string
	OutputPath string // relative to RootDir unless absolute
	HeaderExt  string
	Ignore     []string
	Naming     symbols.Naming
}

// Result is the outcome of a run.
type Result struct {
	Headers    []string
	Symbols    *classify.Classified
	Content    []byte
	OutputPath string
	Summary    compat.Summary
}

// Pipeline wires the scanner, extractor, classifier and generator together.
type Pipeline struct {
	config    *Config
	scanner   *scanner.Scanner
	extractor *symbols.Extractor
	generator *compat.Generator
	progress  ProgressReporter
}

// New creates a pipeline. progress may be nil.
func New(config *Config, progress ProgressReporter) (*Pipeline, error) {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	sc, err := scanner.New(config.RootDir, scanner.Options{
		Extension: config.HeaderExt,
		Exclude:   filepath.Base(config.OutputPath),
		Ignore:    config.Ignore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	return &Pipeline{
		config:    config,
		scanner:   sc,
		extractor: symbols.NewExtractor(config.Naming),
		generator: compat.NewGenerator(config.Naming),
		progress:  progress,
	}, nil
}

// WithCache reuses extraction results of unchanged headers across runs.
func (p *Pipeline) WithCache(cache *symbols.Cache) *Pipeline {
	p.extractor.WithCache(cache)
	return p
}

// Naming returns the naming the pipeline extracts and renders with.
func (p *Pipeline) Naming() symbols.Naming {
	return p.config.Naming
}

// Scanner returns the scanner the pipeline discovers headers with.
func (p *Pipeline) Scanner() *scanner.Scanner {
	return p.scanner
}

// Generator returns the generator the pipeline renders with.
func (p *Pipeline) Generator() *compat.Generator {
	return p.generator
}

// OutputPath returns the absolute or root-joined output path.
func (p *Pipeline) OutputPath() string {
	if filepath.IsAbs(p.config.OutputPath) {
		return p.config.OutputPath
	}
	return filepath.Join(p.config.RootDir, p.config.OutputPath)
}

// Build scans, extracts, classifies and renders without touching the output file.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	headers, err := p.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", p.config.RootDir, err)
	}
	if len(headers) == 0 {
		return nil, ErrNoHeaders
	}
	p.progress.OnDiscoveryComplete(len(headers))

	universe, err := p.extractor.ExtractAll(ctx, headers, p.progress.OnHeaderProcessed)
	if err != nil {
		return nil, err
	}
	p.progress.OnExtractionComplete()

	syms := classify.Classify(p.config.Naming, universe)
	log.Debug().
		Int("headers", len(headers)).
		Int("declared", len(universe.Declared)).
		Int("macros", len(universe.Macros)).
		Msg("Extraction complete")

	return &Result{
		Headers:    headers,
		Symbols:    syms,
		Content:    p.generator.Render(syms),
		OutputPath: p.OutputPath(),
		Summary:    compat.SummaryOf(syms),
	}, nil
}

// Generate builds the header and overwrites the output file. Nothing is written
// when no headers are found.
func (p *Pipeline) Generate(ctx context.Context) (*Result, error) {
	result, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := p.generator.Write(result.OutputPath, result.Symbols); err != nil {
		return nil, err
	}

	return result, nil
}

// Check builds the header and compares it with the file on disk. It returns the
// diff and compat.ErrStale when they differ, or a verification error when the file
// is current but does not match its symbols.
func (p *Pipeline) Check(ctx context.Context) (string, error) {
	result, err := p.Build(ctx)
	if err != nil {
		return "", err
	}

	diff, err := compat.Diff(result.OutputPath, result.Content)
	if err != nil {
		return "", err
	}
	if diff != "" {
		return diff, compat.ErrStale
	}

	if err := p.generator.Verify(result.Content, result.Symbols); err != nil {
		return "", err
	}
	return "", nil
}
