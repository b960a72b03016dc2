package quality

import (
	"math"
	"sort"

	"codesage/pkg/analyzer"
	"codesage/pkg/detector"
	"codesage/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// securitySampleSize bounds how many files the security sub-score scans.
const securitySampleSize = 20

// Scorer turns diagnostics and metrics into file and project scores.
type Scorer struct {
	logger *logrus.Logger
}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{logger: logrus.New()}
}

// SetLogLevel sets the logging level.
func (s *Scorer) SetLogLevel(level logrus.Level) {
	s.logger.SetLevel(level)
}

// ScoreFile computes a [0,100] quality score from one file's diagnostics
// and optional metrics. Each diagnostic costs 5 points with no cap; the
// complexity and maintainability penalties are banded and mutually
// exclusive within their band.
func ScoreFile(diagnostics []analyzer.Diagnostic, m *metrics.CodeMetrics) int {
	score := 100 - 5*len(diagnostics)

	if m != nil {
		switch {
		case m.Complexity > 20:
			score -= 20
		case m.Complexity > 10:
			score -= 10
		}

		switch {
		case m.MaintainabilityIndex < 50:
			score -= 15
		case m.MaintainabilityIndex < 70:
			score -= 5
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AggregateProjectHealth folds per-file analyses into the project report.
// Files that failed analysis never reach this function; they are reflected
// only in input.Discovered.
func (s *Scorer) AggregateProjectHealth(input ProjectInput) *ProjectHealth {
	health := &ProjectHealth{
		FilesDiscovered: input.Discovered,
		FilesAnalyzed:   len(input.Analyses),
		Files:           []FileQuality{},
	}

	if len(input.Analyses) == 0 {
		health.Recommendations = []string{"No source files were analyzed."}
		return health
	}

	totalIssues := 0
	totalComplexity := 0
	totalLines := 0
	totalScore := 0
	totalDebt := 0.0
	testFiles := 0
	syntaxErrors := 0

	for i, analysis := range input.Analyses {
		m := analysis.Metrics
		fileScore := ScoreFile(analysis.Diagnostics, &m)

		securityIssues := 0
		if i < securitySampleSize {
			securityIssues = countSecurityIssues(analysis.Content)
		}

		health.Files = append(health.Files, FileQuality{
			Path:           analysis.Path,
			Language:       analysis.Language,
			Score:          fileScore,
			IssueCount:     len(analysis.Diagnostics),
			SecurityIssues: securityIssues,
			Metrics:        &input.Analyses[i].Metrics,
		})

		totalIssues += len(analysis.Diagnostics)
		totalComplexity += m.Complexity
		totalLines += m.LinesOfCode
		totalScore += fileScore
		totalDebt += m.TechnicalDebt

		if detector.IsTestFile(analysis.Path) {
			testFiles++
		}
		for _, diag := range analysis.Diagnostics {
			if diag.Severity == analyzer.SeverityError {
				syntaxErrors++
			}
		}
	}

	fileCount := len(input.Analyses)
	avgFileScore := float64(totalScore) / float64(fileCount)
	avgComplexity := float64(totalComplexity) / float64(fileCount)

	health.CodeHealth = codeHealthScore(totalIssues, fileCount)
	health.Maintainability = maintainabilityBand(avgComplexity)
	health.Complexity = complexityBand(totalComplexity, totalLines)
	health.TestCoverage = testCoverageEstimate(testFiles, fileCount)
	health.Documentation = documentationScore(input.Root)
	health.Security = securityScore(health.Files)

	health.OverallScore = int(math.Round(
		WeightFileScore*avgFileScore +
			WeightCodeHealth*float64(health.CodeHealth) +
			WeightMaintainability*float64(health.Maintainability) +
			WeightComplexity*float64(health.Complexity) +
			WeightTestCoverage*float64(health.TestCoverage) +
			WeightDocumentation*float64(health.Documentation) +
			WeightSecurity*float64(health.Security)))

	// Worst files first; tie on path for stable output.
	sort.SliceStable(health.Files, func(i, j int) bool {
		if health.Files[i].Score != health.Files[j].Score {
			return health.Files[i].Score < health.Files[j].Score
		}
		return health.Files[i].Path < health.Files[j].Path
	})

	health.Recommendations = s.ruleRecommendations(health, recommendationStats{
		avgDebt:      totalDebt / float64(fileCount),
		syntaxErrors: syntaxErrors,
	})

	s.logger.Debugf("aggregated %d files: overall %d", fileCount, health.OverallScore)
	return health
}

// codeHealthScore = max(0, 100 - 10 * issues per analyzed file).
func codeHealthScore(totalIssues, totalFiles int) int {
	score := 100 - int(math.Round(10*float64(totalIssues)/float64(totalFiles)))
	if score < 0 {
		return 0
	}
	return score
}

// maintainabilityBand is a step function over mean complexity.
func maintainabilityBand(avgComplexity float64) int {
	switch {
	case avgComplexity <= 5:
		return 100
	case avgComplexity <= 10:
		return 80
	case avgComplexity <= 20:
		return 60
	default:
		return 40
	}
}

// complexityBand steps on the complexity-per-line ratio.
func complexityBand(totalComplexity, totalLines int) int {
	if totalLines == 0 {
		return 100
	}
	ratio := float64(totalComplexity) / float64(totalLines)
	switch {
	case ratio <= 0.1:
		return 100
	case ratio <= 0.2:
		return 80
	case ratio <= 0.3:
		return 60
	default:
		return 40
	}
}

// testCoverageEstimate is a file-count heuristic, not instrumented
// coverage. A single-file analysis has no meaningful ratio and defaults
// to 50.
func testCoverageEstimate(testFiles, totalFiles int) int {
	if totalFiles <= 1 {
		return 50
	}
	sourceFiles := totalFiles - testFiles
	if sourceFiles <= 0 {
		return 100
	}
	estimate := int(math.Round(100 * float64(testFiles) / float64(sourceFiles)))
	if estimate > 100 {
		return 100
	}
	return estimate
}

// securityScore starts at 100 and subtracts 15 per risky-pattern hit
// across the sampled files.
func securityScore(files []FileQuality) int {
	score := 100
	for _, f := range files {
		score -= 15 * f.SecurityIssues
	}
	if score < 0 {
		return 0
	}
	return score
}
