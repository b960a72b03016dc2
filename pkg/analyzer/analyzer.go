package analyzer

import (
	"fmt"
	"os"

	"codesage/pkg/detector"
	"codesage/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a single finding in a file. Line and Column are 1-based.
// Order reflects detection order, not line order.
type Diagnostic struct {
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
}

// FileAnalysis is the full static-analysis output for one file.
type FileAnalysis struct {
	Path        string              `json:"path"`
	Language    string              `json:"language,omitempty"`
	Diagnostics []Diagnostic        `json:"diagnostics"`
	Metrics     metrics.CodeMetrics `json:"metrics"`

	// Content is retained for downstream content-level checks (security
	// sampling). Not serialized.
	Content string `json:"-"`
}

// maxAnalyzeFileSize bounds how much of a file the analyzer will read.
const maxAnalyzeFileSize = 1024 * 1024 // 1MB

// Analyzer produces diagnostics and metrics for source files.
type Analyzer struct {
	logger   *logrus.Logger
	detector *detector.Detector
}

// NewAnalyzer creates an analyzer backed by the given detector.
func NewAnalyzer(d *detector.Detector) *Analyzer {
	return &Analyzer{
		logger:   logrus.New(),
		detector: d,
	}
}

// SetLogLevel sets the logging level.
func (a *Analyzer) SetLogLevel(level logrus.Level) {
	a.logger.SetLevel(level)
}

// AnalyzeFile analyzes a single file. Unlike batch analysis, I/O failures
// here are returned to the caller.
func (a *Analyzer) AnalyzeFile(path string) (*FileAnalysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", path, err)
	}
	if info.Size() > maxAnalyzeFileSize {
		return nil, fmt.Errorf("analyzing %s: file too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", path, err)
	}

	content := string(data)
	result := a.detector.DetectLanguage(path, content)

	analysis := &FileAnalysis{
		Path:        path,
		Language:    result.Language,
		Diagnostics: a.runRules(content, result.Language),
		Metrics:     metrics.Compute(content, result.Language),
		Content:     content,
	}

	a.logger.Debugf("analyzed %s: %d diagnostics, complexity %d",
		path, len(analysis.Diagnostics), analysis.Metrics.Complexity)
	return analysis, nil
}
