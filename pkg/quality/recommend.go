package quality

import "fmt"

// Recommendation thresholds.
const (
	highComplexityThreshold  = 20
	lowMaintainabilityIndex  = 50.0
	highAverageDebtMinutes   = 60.0
	lowTestCoverageThreshold = 50
)

type recommendationStats struct {
	avgDebt      float64
	syntaxErrors int
}

// ruleRecommendations evaluates each rule independently and appends its
// message when the threshold trips. The rules are not mutually exclusive;
// when none trip, a single positive message is emitted. This list is also
// the mandatory fallback when AI recommendation generation fails.
func (s *Scorer) ruleRecommendations(health *ProjectHealth, stats recommendationStats) []string {
	var recs []string

	highComplexity := 0
	lowMaintainability := 0
	securityFlagged := 0
	for _, f := range health.Files {
		if f.Metrics != nil && f.Metrics.Complexity > highComplexityThreshold {
			highComplexity++
		}
		if f.Metrics != nil && f.Metrics.MaintainabilityIndex < lowMaintainabilityIndex {
			lowMaintainability++
		}
		if f.SecurityIssues > 0 {
			securityFlagged++
		}
	}

	if highComplexity > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d file(s) have very high cyclomatic complexity; break up the largest functions.", highComplexity))
	}
	if lowMaintainability > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d file(s) have a low maintainability index; add comments and reduce nesting.", lowMaintainability))
	}
	if securityFlagged > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d file(s) match risky security patterns; review eval/DOM sinks, hardcoded secrets and plaintext HTTP links.", securityFlagged))
	}
	if stats.avgDebt > highAverageDebtMinutes {
		recs = append(recs, fmt.Sprintf(
			"Average technical debt is %.0f minutes per file; schedule refactoring time.", stats.avgDebt))
	}
	if health.TestCoverage < lowTestCoverageThreshold {
		recs = append(recs, "Estimated test coverage is low; add tests alongside the worst-scoring files.")
	}
	if stats.syntaxErrors > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d error-severity finding(s) detected; fix these before anything else.", stats.syntaxErrors))
	}

	if len(recs) == 0 {
		recs = append(recs, "Project looks healthy. Keep tests and documentation up to date.")
	}

	return recs
}
