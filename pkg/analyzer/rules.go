package analyzer

import (
	"regexp"
	"strings"
)

// rule is one regex-backed diagnostic check.
type rule struct {
	pattern  *regexp.Regexp
	message  string
	severity Severity
	source   string
}

// genericRules apply to every language.
var genericRules = []rule{
	{
		pattern:  regexp.MustCompile(`\b(TODO|FIXME|XXX)\b`),
		message:  "unresolved TODO/FIXME marker",
		severity: SeverityInfo,
		source:   "style",
	},
	{
		pattern:  regexp.MustCompile(`^(<<<<<<<|=======$|>>>>>>>)`),
		message:  "unresolved merge conflict marker",
		severity: SeverityError,
		source:   "syntax",
	},
}

// languageRules are keyed by the detector's language tag.
var languageRules = map[string][]rule{
	"javascript": jsRules,
	"typescript": jsRules,
	"python": {
		{
			pattern:  regexp.MustCompile(`^\s*print\(`),
			message:  "print call left in code",
			severity: SeverityInfo,
			source:   "debug",
		},
		{
			pattern:  regexp.MustCompile(`except\s*:\s*$`),
			message:  "bare except swallows all exceptions",
			severity: SeverityWarning,
			source:   "correctness",
		},
		{
			pattern:  regexp.MustCompile(`\bexec\(`),
			message:  "exec usage",
			severity: SeverityWarning,
			source:   "security",
		},
	},
	"go": {
		{
			pattern:  regexp.MustCompile(`\bpanic\(`),
			message:  "panic in library code",
			severity: SeverityWarning,
			source:   "correctness",
		},
		{
			pattern:  regexp.MustCompile(`fmt\.Print(ln|f)?\(`),
			message:  "fmt print left in code",
			severity: SeverityInfo,
			source:   "debug",
		},
	},
}

var jsRules = []rule{
	{
		pattern:  regexp.MustCompile(`console\.(log|debug|trace)\(`),
		message:  "console statement left in code",
		severity: SeverityWarning,
		source:   "debug",
	},
	{
		pattern:  regexp.MustCompile(`\bvar\s+\w+`),
		message:  "var declaration, prefer const or let",
		severity: SeverityInfo,
		source:   "style",
	},
	{
		pattern:  regexp.MustCompile(`[^=!<>]==[^=]`),
		message:  "loose equality, prefer ===",
		severity: SeverityInfo,
		source:   "correctness",
	},
	{
		pattern:  regexp.MustCompile(`\bdebugger\b`),
		message:  "debugger statement left in code",
		severity: SeverityWarning,
		source:   "debug",
	},
	{
		pattern:  regexp.MustCompile(`\beval\(`),
		message:  "eval usage",
		severity: SeverityWarning,
		source:   "security",
	},
}

// runRules evaluates the generic rules plus the language's rule table
// line by line, recording 1-based positions.
func (a *Analyzer) runRules(content, language string) []Diagnostic {
	rules := genericRules
	if extra, ok := languageRules[language]; ok {
		rules = append(append([]rule{}, genericRules...), extra...)
	}

	diagnostics := []Diagnostic{}
	for _, r := range rules {
		for i, line := range strings.Split(content, "\n") {
			loc := r.pattern.FindStringIndex(line)
			if loc == nil {
				continue
			}
			diagnostics = append(diagnostics, Diagnostic{
				Message:  r.message,
				Line:     i + 1,
				Column:   loc[0] + 1,
				Severity: r.severity,
				Source:   r.source,
			})
		}
	}

	return diagnostics
}
