package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"codesage/pkg/detector"
	"codesage/pkg/quality"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// ReportFormat represents different output formats
type ReportFormat string

const (
	FormatTable ReportFormat = "table"
	FormatJSON  ReportFormat = "json"
	FormatText  ReportFormat = "text"
)

// Reporter handles progress display and result reporting
type Reporter struct {
	logger      *logrus.Logger
	progressBar *progressbar.ProgressBar
	format      ReportFormat
	verbose     bool
}

// NewReporter creates a new Reporter instance
func NewReporter(format ReportFormat, verbose bool) *Reporter {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Reporter{
		logger:  logger,
		format:  format,
		verbose: verbose,
	}
}

// InitProgressBar initializes the progress bar for a batch run. The bar is
// suppressed when stdout is not a terminal (piped or redirected output).
func (r *Reporter) InitProgressBar(total int, description string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	r.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// UpdateProgress advances the progress bar by one file.
func (r *Reporter) UpdateProgress() {
	if r.progressBar != nil {
		r.progressBar.Add(1)
	}
}

// FinishProgress finishes the progress bar.
func (r *Reporter) FinishProgress() {
	if r.progressBar != nil {
		r.progressBar.Finish()
		fmt.Println()
	}
}

// ReportHealth renders a project health report in the configured format.
func (r *Reporter) ReportHealth(report *Report) {
	switch r.format {
	case FormatJSON:
		r.printJSON(report)
	case FormatTable:
		r.reportHealthTable(report)
	default:
		r.reportHealthText(report)
	}
}

// ReportProfile renders a project language profile.
func (r *Reporter) ReportProfile(profile *detector.ProjectLanguageProfile) {
	switch r.format {
	case FormatJSON:
		r.printJSON(profile)
	default:
		r.reportProfileText(profile)
	}
}

// ReportFileQuality renders one file's score and metrics.
func (r *Reporter) ReportFileQuality(fq *quality.FileQuality) {
	if r.format == FormatJSON {
		r.printJSON(fq)
		return
	}

	fmt.Printf("%s\n", fq.Path)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Language:        %s\n", orUnknown(fq.Language))
	fmt.Printf("Score:           %d/100\n", fq.Score)
	fmt.Printf("Issues:          %d\n", fq.IssueCount)
	if fq.Metrics != nil {
		fmt.Printf("Complexity:      %d\n", fq.Metrics.Complexity)
		fmt.Printf("Maintainability: %.1f\n", fq.Metrics.MaintainabilityIndex)
		fmt.Printf("Lines of code:   %d\n", fq.Metrics.LinesOfCode)
		fmt.Printf("Technical debt:  %.0f min\n", fq.Metrics.TechnicalDebt)
		fmt.Printf("Duplicate lines: %d\n", fq.Metrics.DuplicateLines)
	}
}

func (r *Reporter) reportHealthText(report *Report) {
	fmt.Printf("Project health: %d/100\n", report.OverallScore)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("  Code health:     %d\n", report.Summary.CodeHealth)
	fmt.Printf("  Maintainability: %d\n", report.Summary.Maintainability)
	fmt.Printf("  Complexity:      %d\n", report.Summary.Complexity)
	fmt.Printf("  Test coverage:   %d (estimate)\n", report.Summary.TestCoverage)
	fmt.Printf("  Documentation:   %d\n", report.Summary.Documentation)
	fmt.Printf("  Security:        %d\n", report.Summary.Security)
	if report.Summary.PrimaryLanguage != "" {
		fmt.Printf("  Primary language: %s\n", report.Summary.PrimaryLanguage)
	}
	fmt.Printf("  Files: %d discovered, %d analyzed\n",
		report.Summary.FilesDiscovered, report.Summary.FilesAnalyzed)

	if len(report.Files) > 0 {
		fmt.Println("\nFiles needing attention:")
		limit := 10
		if r.verbose || len(report.Files) < limit {
			limit = len(report.Files)
		}
		for _, f := range report.Files[:limit] {
			fmt.Printf("  %3d  %s (%d issues)\n", f.HealthScore, f.Path, f.IssueCount)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Println()
}

func (r *Reporter) reportHealthTable(report *Report) {
	fmt.Printf("Project health: %d/100 (%d files analyzed)\n\n",
		report.OverallScore, report.Summary.FilesAnalyzed)

	fmt.Printf("%-50s %-12s %6s %6s %7s %7s\n",
		"File", "Language", "Score", "Cx", "Maint", "Issues")
	fmt.Println(strings.Repeat("-", 95))

	for _, f := range report.Files {
		path := f.Path
		if len(path) > 48 {
			path = "..." + path[len(path)-45:]
		}
		fmt.Printf("%-50s %-12s %6d %6d %7.1f %7d\n",
			path, orUnknown(f.Language), f.HealthScore, f.Complexity,
			f.Maintainability, f.IssueCount)
	}

	if len(report.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Println()
}

func (r *Reporter) reportProfileText(profile *detector.ProjectLanguageProfile) {
	fmt.Printf("Scanned %d files\n", profile.TotalFiles)
	if profile.PrimaryLanguage != "" {
		fmt.Printf("Primary language: %s\n", profile.PrimaryLanguage)
	}

	if len(profile.Languages) > 0 {
		type langCount struct {
			name  string
			count int
		}
		counts := make([]langCount, 0, len(profile.Languages))
		for name, count := range profile.Languages {
			counts = append(counts, langCount{name, count})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].name < counts[j].name
		})

		fmt.Println("\nLanguages:")
		for _, lc := range counts {
			pct := 100 * float64(lc.count) / float64(profile.TotalFiles)
			fmt.Printf("  %-12s %4d files (%.1f%%)\n", lc.name, lc.count, pct)
		}
	}

	printSet := func(label string, values []string) {
		if len(values) > 0 {
			fmt.Printf("%s: %s\n", label, strings.Join(values, ", "))
		}
	}
	fmt.Println()
	printSet("Frameworks", profile.Frameworks)
	printSet("Test frameworks", profile.TestFrameworks)
	printSet("Package managers", profile.PackageManagers)
	printSet("Build tools", profile.BuildTools)
}

func (r *Reporter) printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.logger.Errorf("failed to encode JSON output: %v", err)
		return
	}
	fmt.Println(string(data))
}

func orUnknown(language string) string {
	if language == "" {
		return "unknown"
	}
	return language
}
