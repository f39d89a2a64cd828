package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlprobe/pkg/analysis"
)

// FileResult is the analysis of one file.
type FileResult struct {
	Path   string           `json:"path" yaml:"path"`
	Report *analysis.Report `json:"report" yaml:"report"`

	// Cached is set when the file was unchanged since the last analysis.
	Cached   bool          `json:"-" yaml:"-"`
	Duration time.Duration `json:"-" yaml:"-"`
}

// Summary aggregates the results of a multi-file run.
type Summary struct {
	FilesAnalyzed    int            `json:"files_analyzed" yaml:"files_analyzed"`
	TotalDiagnostics int            `json:"total_diagnostics" yaml:"total_diagnostics"`
	TotalIssues      int            `json:"total_issues" yaml:"total_issues"`
	ParseErrors      int            `json:"parse_errors" yaml:"parse_errors"`
	ByType           map[string]int `json:"by_type" yaml:"by_type"`
	Files            []FileResult   `json:"files" yaml:"files"`
}

// Summarize aggregates results, keeping their order.
func Summarize(results []FileResult) *Summary {
	s := &Summary{
		ByType: make(map[string]int),
		Files:  results,
	}
	for _, r := range results {
		s.FilesAnalyzed++
		if r.Report == nil {
			continue
		}
		if r.Report.Failed() {
			s.ParseErrors++
		}
		s.TotalDiagnostics += len(r.Report.Diagnostics)
		for _, d := range r.Report.Diagnostics {
			s.ByType[string(d.Type)]++
		}
		// A parse failure is already counted through its diagnostic.
		if r.Report.Failed() {
			continue
		}
		s.TotalIssues += len(r.Report.Issues)
		for _, i := range r.Report.Issues {
			s.ByType[string(i.Type)]++
		}
	}
	return s
}

// AnalyzeSource analyzes SQL text that did not come from a discovered file.
func (e *Engine) AnalyzeSource(name, sql string) FileResult {
	start := time.Now()
	report := e.analyzer.Analyze(sql)
	return FileResult{Path: name, Report: report, Duration: time.Since(start)}
}

// AnalyzeFiles analyzes files concurrently, bounded by the engine's
// concurrency. Results keep the order of files. Only I/O errors and
// cancellation fail the run; unparseable SQL yields a PARSE_ERROR report.
func (e *Engine) AnalyzeFiles(ctx context.Context, files []string) (*Summary, error) {
	start := time.Now()
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.analyzeFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(results)
	e.logger.Info("analysis complete",
		"files", summary.FilesAnalyzed,
		"diagnostics", summary.TotalDiagnostics,
		"issues", summary.TotalIssues,
		"duration_ms", time.Since(start).Milliseconds())
	return summary, nil
}

func (e *Engine) analyzeFile(path string) (FileResult, error) {
	start := time.Now()
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from Discover
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	hash := computeHash(content)
	if report, ok := e.cached(path, hash); ok {
		e.logger.Debug("file unchanged, reusing analysis", "file", path)
		return FileResult{Path: path, Report: report, Cached: true}, nil
	}

	report := e.analyzer.Analyze(string(content))
	e.store(path, hash, report)

	res := FileResult{Path: path, Report: report, Duration: time.Since(start)}
	e.logger.Debug("analyzed file", "file", path,
		"parse_error", report.Failed(), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func (e *Engine) cached(path, hash string) (*analysis.Report, bool) {
	e.hashMu.Lock()
	defer e.hashMu.Unlock()
	c, ok := e.hashes[path]
	if !ok || c.hash != hash {
		return nil, false
	}
	return c.report, true
}

func (e *Engine) store(path, hash string, report *analysis.Report) {
	e.hashMu.Lock()
	defer e.hashMu.Unlock()
	e.hashes[path] = cachedResult{hash: hash, report: report}
}

// prune drops cached results for files no longer present.
func (e *Engine) prune(keep []string) {
	live := make(map[string]bool, len(keep))
	for _, f := range keep {
		live[f] = true
	}
	e.hashMu.Lock()
	defer e.hashMu.Unlock()
	for path := range e.hashes {
		if !live[path] {
			delete(e.hashes, path)
		}
	}
}

// computeHash generates a SHA256 hash of content.
func computeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:8]) // Use first 8 bytes for brevity
}
