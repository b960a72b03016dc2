package quality

import (
	"fmt"
	"math"
	"testing"

	"codesage/pkg/analyzer"
	"codesage/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnostics(n int) []analyzer.Diagnostic {
	diags := make([]analyzer.Diagnostic, n)
	for i := range diags {
		diags[i] = analyzer.Diagnostic{Message: "finding", Line: i + 1, Column: 1,
			Severity: analyzer.SeverityWarning}
	}
	return diags
}

func healthyMetrics() metrics.CodeMetrics {
	return metrics.CodeMetrics{Complexity: 2, MaintainabilityIndex: 90, LinesOfCode: 40}
}

func TestScoreFile_Bounds(t *testing.T) {
	assert.Equal(t, 100, ScoreFile(nil, nil))
	assert.Equal(t, 0, ScoreFile(diagnostics(30), nil))
	assert.Equal(t, 0, ScoreFile(diagnostics(50),
		&metrics.CodeMetrics{Complexity: 30, MaintainabilityIndex: 10}))
}

func TestScoreFile_Bands(t *testing.T) {
	tests := []struct {
		name string
		m    metrics.CodeMetrics
		want int
	}{
		{"clean", metrics.CodeMetrics{Complexity: 5, MaintainabilityIndex: 90}, 100},
		{"moderate complexity", metrics.CodeMetrics{Complexity: 15, MaintainabilityIndex: 90}, 90},
		{"high complexity", metrics.CodeMetrics{Complexity: 25, MaintainabilityIndex: 90}, 80},
		{"low maintainability", metrics.CodeMetrics{Complexity: 5, MaintainabilityIndex: 60}, 95},
		{"very low maintainability", metrics.CodeMetrics{Complexity: 5, MaintainabilityIndex: 40}, 85},
		{"both penalties", metrics.CodeMetrics{Complexity: 25, MaintainabilityIndex: 40}, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreFile(nil, &tt.m))
		})
	}
}

func TestScoreFile_TypescriptSample(t *testing.T) {
	// 15 ifs over 200 lines with 5 comments: complexity 16, index below 50,
	// so the moderate-complexity and low-maintainability penalties stack.
	m := metrics.CodeMetrics{
		Complexity:           16,
		MaintainabilityIndex: metrics.MaintainabilityIndex(16, 200, 5),
		LinesOfCode:          200,
	}
	require.Less(t, m.MaintainabilityIndex, 50.0)
	assert.Equal(t, 75, ScoreFile(nil, &m))
}

func TestWeights_SumToOne(t *testing.T) {
	sum := WeightFileScore + WeightCodeHealth + WeightMaintainability +
		WeightComplexity + WeightTestCoverage + WeightDocumentation + WeightSecurity
	assert.Equal(t, 1.0, sum)
}

func TestAggregateProjectHealth_WorstFilesFirst(t *testing.T) {
	analyses := make([]*analyzer.FileAnalysis, 0, 10)
	for i := 0; i < 10; i++ {
		a := &analyzer.FileAnalysis{
			Path:     fmt.Sprintf("src/file%02d.js", i),
			Language: "javascript",
			Metrics:  healthyMetrics(),
		}
		// Three files get enough findings to score below 60.
		if i%4 == 0 {
			a.Diagnostics = diagnostics(9)
		}
		analyses = append(analyses, a)
	}

	s := NewScorer()
	health := s.AggregateProjectHealth(ProjectInput{Root: t.TempDir(), Discovered: 10, Analyses: analyses})

	require.Len(t, health.Files, 10)
	for i := 0; i < 3; i++ {
		assert.Less(t, health.Files[i].Score, 60, "file %d", i)
	}
	for i := 3; i < 10; i++ {
		assert.GreaterOrEqual(t, health.Files[i].Score, 60, "file %d", i)
	}
	// Ties resolve by path.
	assert.Equal(t, "src/file00.js", health.Files[0].Path)
	assert.Equal(t, "src/file04.js", health.Files[1].Path)
	assert.Equal(t, "src/file08.js", health.Files[2].Path)
}

func TestAggregateProjectHealth_OverallIsWeightedSum(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		{Path: "a.go", Language: "go", Metrics: healthyMetrics()},
		{Path: "b.go", Language: "go", Metrics: healthyMetrics(), Diagnostics: diagnostics(3)},
		{Path: "c_test.go", Language: "go", Metrics: healthyMetrics()},
	}

	s := NewScorer()
	health := s.AggregateProjectHealth(ProjectInput{Root: t.TempDir(), Discovered: 3, Analyses: analyses})

	totalScore := 0
	for _, f := range health.Files {
		totalScore += f.Score
	}
	avgFileScore := float64(totalScore) / float64(len(health.Files))

	want := int(math.Round(
		WeightFileScore*avgFileScore +
			WeightCodeHealth*float64(health.CodeHealth) +
			WeightMaintainability*float64(health.Maintainability) +
			WeightComplexity*float64(health.Complexity) +
			WeightTestCoverage*float64(health.TestCoverage) +
			WeightDocumentation*float64(health.Documentation) +
			WeightSecurity*float64(health.Security)))
	assert.Equal(t, want, health.OverallScore)
}

func TestAggregateProjectHealth_SecuritySample(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{{
		Path:     "risky.js",
		Language: "javascript",
		Metrics:  healthyMetrics(),
		Content:  "eval(userInput);\nfetch('http://example.com/api');\n",
	}}

	s := NewScorer()
	health := s.AggregateProjectHealth(ProjectInput{Root: t.TempDir(), Discovered: 1, Analyses: analyses})

	require.Len(t, health.Files, 1)
	assert.Equal(t, 2, health.Files[0].SecurityIssues)
	assert.Equal(t, 70, health.Security)
}

func TestAggregateProjectHealth_EmptyInput(t *testing.T) {
	s := NewScorer()
	health := s.AggregateProjectHealth(ProjectInput{Root: t.TempDir()})

	assert.Equal(t, 0, health.OverallScore)
	assert.Equal(t, 0, health.FilesDiscovered)
	assert.Equal(t, 0, health.FilesAnalyzed)
	assert.Empty(t, health.Files)
	assert.NotEmpty(t, health.Recommendations)
}

func TestAggregateProjectHealth_DiscoveredVsAnalyzed(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		{Path: "a.go", Language: "go", Metrics: healthyMetrics()},
	}

	s := NewScorer()
	health := s.AggregateProjectHealth(ProjectInput{Root: t.TempDir(), Discovered: 5, Analyses: analyses})

	assert.Equal(t, 5, health.FilesDiscovered)
	assert.Equal(t, 1, health.FilesAnalyzed)
}

func TestAggregateProjectHealth_RecommendationsNeverEmpty(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		{Path: "a.go", Language: "go", Metrics: healthyMetrics()},
		{Path: "a_test.go", Language: "go", Metrics: healthyMetrics()},
	}

	s := NewScorer()
	health := s.AggregateProjectHealth(ProjectInput{Root: t.TempDir(), Discovered: 2, Analyses: analyses})

	assert.NotEmpty(t, health.Recommendations)
}

func TestCodeHealthScore(t *testing.T) {
	assert.Equal(t, 100, codeHealthScore(0, 10))
	assert.Equal(t, 90, codeHealthScore(10, 10))
	assert.Equal(t, 0, codeHealthScore(200, 10))
}

func TestMaintainabilityBand(t *testing.T) {
	assert.Equal(t, 100, maintainabilityBand(5))
	assert.Equal(t, 80, maintainabilityBand(10))
	assert.Equal(t, 60, maintainabilityBand(20))
	assert.Equal(t, 40, maintainabilityBand(21))
}

func TestComplexityBand(t *testing.T) {
	assert.Equal(t, 100, complexityBand(0, 0))
	assert.Equal(t, 100, complexityBand(10, 100))
	assert.Equal(t, 80, complexityBand(20, 100))
	assert.Equal(t, 60, complexityBand(30, 100))
	assert.Equal(t, 40, complexityBand(50, 100))
}

func TestTestCoverageEstimate(t *testing.T) {
	assert.Equal(t, 50, testCoverageEstimate(0, 1))
	assert.Equal(t, 50, testCoverageEstimate(1, 1))
	assert.Equal(t, 50, testCoverageEstimate(1, 3))
	assert.Equal(t, 100, testCoverageEstimate(5, 5))
	assert.Equal(t, 0, testCoverageEstimate(0, 10))
	assert.Equal(t, 100, testCoverageEstimate(9, 10))
}
