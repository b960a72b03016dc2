package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"codesage/pkg/quality"
)

// Report is the persisted JSON form of a project analysis. It must
// round-trip losslessly so saved reports can be re-rendered later.
type Report struct {
	Timestamp       time.Time     `json:"timestamp"`
	OverallScore    int           `json:"overallScore"`
	Summary         ReportSummary `json:"summary"`
	Recommendations []string      `json:"recommendations"`
	Files           []ReportFile  `json:"files"`
}

// ReportSummary mirrors the ProjectHealth component scores.
type ReportSummary struct {
	CodeHealth      int    `json:"codeHealth"`
	Maintainability int    `json:"maintainability"`
	Complexity      int    `json:"complexity"`
	TestCoverage    int    `json:"testCoverage"`
	Documentation   int    `json:"documentation"`
	Security        int    `json:"security"`
	PrimaryLanguage string `json:"primaryLanguage,omitempty"`
	FilesDiscovered int    `json:"filesDiscovered"`
	FilesAnalyzed   int    `json:"filesAnalyzed"`
}

// ReportFile is the per-file entry of a persisted report.
type ReportFile struct {
	Path            string  `json:"path"`
	Language        string  `json:"language"`
	HealthScore     int     `json:"healthScore"`
	Complexity      int     `json:"complexity"`
	Maintainability float64 `json:"maintainability"`
	TechnicalDebt   float64 `json:"technicalDebt"`
	IssueCount      int     `json:"issueCount"`
	SecurityIssues  int     `json:"securityIssues"`
}

// BuildReport converts a ProjectHealth into its persisted form.
func BuildReport(health *quality.ProjectHealth, primaryLanguage string) *Report {
	report := &Report{
		Timestamp:       time.Now().UTC(),
		OverallScore:    health.OverallScore,
		Recommendations: health.Recommendations,
		Summary: ReportSummary{
			CodeHealth:      health.CodeHealth,
			Maintainability: health.Maintainability,
			Complexity:      health.Complexity,
			TestCoverage:    health.TestCoverage,
			Documentation:   health.Documentation,
			Security:        health.Security,
			PrimaryLanguage: primaryLanguage,
			FilesDiscovered: health.FilesDiscovered,
			FilesAnalyzed:   health.FilesAnalyzed,
		},
		Files: make([]ReportFile, 0, len(health.Files)),
	}

	for _, f := range health.Files {
		entry := ReportFile{
			Path:           f.Path,
			Language:       f.Language,
			HealthScore:    f.Score,
			IssueCount:     f.IssueCount,
			SecurityIssues: f.SecurityIssues,
		}
		if f.Metrics != nil {
			entry.Complexity = f.Metrics.Complexity
			entry.Maintainability = f.Metrics.MaintainabilityIndex
			entry.TechnicalDebt = f.Metrics.TechnicalDebt
		}
		report.Files = append(report.Files, entry)
	}

	return report
}

// Save writes the report as indented JSON.
func (r *Report) Save(filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// LoadReport reads back a report saved by Save.
func LoadReport(filename string) (*Report, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", filename, err)
	}
	return &report, nil
}
