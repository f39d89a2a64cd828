// Package engine analyzes SQL files on disk.
// It discovers .sql files, runs the analysis over them concurrently and
// can watch the tree for changes.
package engine

import (
	"log/slog"
	"sync"

	"github.com/leapstack-labs/sqlprobe/pkg/analysis"
)

// DefaultConcurrency is used when Config.Concurrency is not positive.
const DefaultConcurrency = 4

// Engine runs analyses over files.
type Engine struct {
	analyzer    *analysis.Analyzer
	logger      *slog.Logger
	concurrency int

	// Content hashes of the last analysis per file, used to skip
	// unchanged files when re-analyzing.
	hashMu sync.Mutex
	hashes map[string]cachedResult
}

type cachedResult struct {
	hash   string
	report *analysis.Report
}

// Config holds engine configuration.
type Config struct {
	// Analysis configures the parser, lint rules and determinism checks
	Analysis analysis.Options
	// Concurrency bounds how many files are analyzed at once
	Concurrency int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	opts := cfg.Analysis
	if opts.OnFault == nil {
		opts.OnFault = func(component, name string, recovered any) {
			logger.Debug("analysis step failed", "component", component, "name", name, "panic", recovered)
		}
	}

	logger.Debug("initializing engine", "concurrency", concurrency, "ansi", opts.Parser.ANSI)

	return &Engine{
		analyzer:    analysis.New(opts),
		logger:      logger,
		concurrency: concurrency,
		hashes:      make(map[string]cachedResult),
	}
}

// Analyzer returns the analyzer the engine runs.
func (e *Engine) Analyzer() *analysis.Analyzer {
	return e.analyzer
}
