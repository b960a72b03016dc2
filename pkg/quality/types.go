package quality

import (
	"codesage/pkg/analyzer"
	"codesage/pkg/metrics"
)

// FileQuality is the scored view of one analyzed file.
type FileQuality struct {
	Path           string               `json:"path"`
	Language       string               `json:"language,omitempty"`
	Score          int                  `json:"score"`
	IssueCount     int                  `json:"issue_count"`
	SecurityIssues int                  `json:"security_issues"`
	Metrics        *metrics.CodeMetrics `json:"metrics,omitempty"`
}

// ProjectHealth is the aggregate quality report for a project. Files is
// sorted ascending by score so the worst files lead the list.
//
// FilesDiscovered counts every eligible file found during the walk;
// FilesAnalyzed counts only the files that analysis succeeded on and that
// therefore participate in scoring. The two are deliberately distinct.
type ProjectHealth struct {
	OverallScore    int           `json:"overall_score"`
	CodeHealth      int           `json:"code_health"`
	Maintainability int           `json:"maintainability"`
	Complexity      int           `json:"complexity"`
	TestCoverage    int           `json:"test_coverage"`
	Documentation   int           `json:"documentation"`
	Security        int           `json:"security"`
	Files           []FileQuality `json:"files"`
	Recommendations []string      `json:"recommendations"`
	FilesDiscovered int           `json:"files_discovered"`
	FilesAnalyzed   int           `json:"files_analyzed"`
}

// ProjectInput is everything the aggregator needs for one project.
type ProjectInput struct {
	Root       string
	Discovered int
	Analyses   []*analyzer.FileAnalysis
}

// Weights of the overall score composite. They must sum to 1.0; changing
// them breaks comparability with historical reports.
const (
	WeightFileScore       = 0.30
	WeightCodeHealth      = 0.20
	WeightMaintainability = 0.15
	WeightComplexity      = 0.15
	WeightTestCoverage    = 0.10
	WeightDocumentation   = 0.05
	WeightSecurity        = 0.05
)
