package quality

import (
	"regexp"
	"strings"
)

// Risky-pattern signatures: dangerous evaluation, DOM sinks, secret-like
// assignments. A coarse syntactic signal, not taint analysis.
var securityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\beval\s*\(`),
	regexp.MustCompile(`\.innerHTML\s*=`),
	regexp.MustCompile(`document\.write\s*\(`),
	regexp.MustCompile(`(?i)\b(password|passwd|secret|api_?key|auth_?token)\s*[:=]\s*['"][^'"]{4,}['"]`),
}

var plaintextHTTPPattern = regexp.MustCompile(`http://[^\s'")<>]+`)

// countSecurityIssues counts risky-pattern occurrences in one file's
// content. Plaintext HTTP links count unless they point at localhost.
func countSecurityIssues(content string) int {
	issues := 0
	for _, pattern := range securityPatterns {
		issues += len(pattern.FindAllStringIndex(content, -1))
	}

	for _, link := range plaintextHTTPPattern.FindAllString(content, -1) {
		if strings.Contains(link, "localhost") || strings.Contains(link, "127.0.0.1") {
			continue
		}
		issues++
	}

	return issues
}

// CountSecurityIssues exposes the risky-pattern counter for single-file
// reporting.
func CountSecurityIssues(content string) int {
	return countSecurityIssues(content)
}
