// Package metrics computes line-oriented, textual code metrics. These are
// deliberate approximations: no AST is built, so keyword-like text inside
// strings or comments counts like real control flow.
package metrics

import (
	"math"
	"regexp"
	"strings"
)

// CodeMetrics holds the per-file metrics consumed by the scoring engine.
// Computed once per analysis pass; not mutated afterwards.
type CodeMetrics struct {
	Complexity           int     `json:"complexity"`
	MaintainabilityIndex float64 `json:"maintainability_index"`
	LinesOfCode          int     `json:"lines_of_code"`
	TechnicalDebt        float64 `json:"technical_debt"`
	DuplicateLines       int     `json:"duplicate_lines"`
}

// branchingPatterns maps a language to the keyword regexes counted as
// branching constructs. Languages not listed fall back to defaultBranching.
var branchingPatterns = map[string][]*regexp.Regexp{
	"python": compileAll(
		`\bif\b`, `\belif\b`, `\belse\b`, `\bfor\b`, `\bwhile\b`,
		`\bexcept\b`, `\band\b`, `\bor\b`,
	),
	"go": compileAll(
		`\bif\b`, `\belse\b`, `\bfor\b`, `\bswitch\b`, `\bcase\b`, `\bselect\b`,
	),
	"ruby": compileAll(
		`\bif\b`, `\belsif\b`, `\belse\b`, `\bunless\b`, `\bfor\b`,
		`\bwhile\b`, `\buntil\b`, `\brescue\b`, `\bwhen\b`,
	),
	"rust": compileAll(
		`\bif\b`, `\belse\b`, `\bfor\b`, `\bwhile\b`, `\bloop\b`, `\bmatch\b`,
	),
}

var defaultBranching = compileAll(
	`\bif\b`, `\belse\b`, `\bfor\b`, `\bwhile\b`, `\bswitch\b`,
	`\bcatch\b`, `\bcase\b`,
)

// lineCommentPrefixes maps a language to its single-line comment markers.
var lineCommentPrefixes = map[string][]string{
	"python": {"#"},
	"ruby":   {"#"},
	"php":    {"//", "#"},
}

var defaultCommentPrefixes = []string{"//"}

// minDuplicateLineLength is the trimmed length below which a line is too
// generic to count as duplication (braces, short returns and the like).
const minDuplicateLineLength = 10

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Compute derives the full metrics set for one file's content.
func Compute(content, language string) CodeMetrics {
	complexity := Complexity(content, language)
	loc := CountLinesOfCode(content)
	comments := CountCommentLines(content, language)

	return CodeMetrics{
		Complexity:           complexity,
		MaintainabilityIndex: MaintainabilityIndex(complexity, loc, comments),
		LinesOfCode:          loc,
		TechnicalDebt:        TechnicalDebt(complexity, loc),
		DuplicateLines:       DuplicateLines(content),
	}
}

// Complexity is a textual approximation of cyclomatic complexity: base 1
// plus one per branching keyword match across the whole file.
func Complexity(content, language string) int {
	patterns, ok := branchingPatterns[language]
	if !ok {
		patterns = defaultBranching
	}

	complexity := 1
	for _, pattern := range patterns {
		complexity += len(pattern.FindAllStringIndex(content, -1))
	}
	return complexity
}

// CountLinesOfCode counts non-empty lines.
func CountLinesOfCode(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// CountCommentLines counts lines whose trimmed text starts with a comment
// marker for the language, including lines inside /* */ blocks for
// C-family languages.
func CountCommentLines(content, language string) int {
	prefixes, ok := lineCommentPrefixes[language]
	if !ok {
		prefixes = defaultCommentPrefixes
	}

	blockComments := language != "python" && language != "ruby"

	count := 0
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if inBlock {
			count++
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
			continue
		}

		if blockComments && strings.HasPrefix(trimmed, "/*") {
			count++
			if !strings.Contains(trimmed, "*/") {
				inBlock = true
			}
			continue
		}

		for _, prefix := range prefixes {
			if strings.HasPrefix(trimmed, prefix) {
				count++
				break
			}
		}
	}
	return count
}

// MaintainabilityIndex combines complexity, size and comment density into
// a [0,100] score: 100 - 2*complexity - 5*ln(loc) + 10*commentRatio.
func MaintainabilityIndex(complexity, linesOfCode, commentLines int) float64 {
	logLines := 0.0
	commentRatio := 0.0
	if linesOfCode > 0 {
		logLines = math.Log(float64(linesOfCode))
		commentRatio = float64(commentLines) / float64(linesOfCode)
	}

	index := 100 - 2*float64(complexity) - 5*logLines + 10*commentRatio
	return clamp(index, 0, 100)
}

// TechnicalDebt estimates remediation minutes. Zero below the complexity
// and size thresholds, linear above them.
func TechnicalDebt(complexity, linesOfCode int) float64 {
	debt := 0.0
	if complexity > 10 {
		debt += 5 * float64(complexity-10)
	}
	if linesOfCode > 200 {
		debt += 0.1 * float64(linesOfCode-200)
	}
	return debt
}

// DuplicateLines counts repeated lines longer than 10 characters after
// trimming. The first repeat of a line contributes 2 (original plus
// duplicate), each further repeat contributes 1 more, so the metric grows
// with repetition count rather than counting distinct duplicated lines.
func DuplicateLines(content string) int {
	occurrences := make(map[string]int)
	duplicates := 0

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= minDuplicateLineLength {
			continue
		}

		occurrences[trimmed]++
		switch occurrences[trimmed] {
		case 1:
			// first sighting, not duplication yet
		case 2:
			duplicates += 2
		default:
			duplicates++
		}
	}

	return duplicates
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
