package detector

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// initFrameworkPatterns initializes the framework and test framework
// signature tables. One match on any pattern tags the framework; remaining
// patterns for that framework are skipped.
func (d *Detector) initFrameworkPatterns() {
	frameworks := []frameworkPattern{
		{Name: "react", Patterns: []string{
			`from\s+['"]react['"]`,
			`\buseState\s*\(`,
			`\buseEffect\s*\(`,
			`React\.\w+`,
		}},
		{Name: "vue", Patterns: []string{
			`from\s+['"]vue['"]`,
			`<template>`,
			`defineComponent\s*\(`,
		}},
		{Name: "angular", Patterns: []string{
			`@angular/`,
			`@Component\s*\(`,
			`@Injectable\s*\(`,
		}},
		{Name: "express", Patterns: []string{
			`require\(['"]express['"]\)`,
			`from\s+['"]express['"]`,
			`app\.(get|post|put|delete|use)\s*\(`,
		}},
		{Name: "nextjs", Patterns: []string{
			`from\s+['"]next/`,
			`getServerSideProps`,
			`getStaticProps`,
		}},
		{Name: "django", Patterns: []string{
			`from\s+django`,
			`import\s+django`,
			`models\.Model\b`,
			`django\.conf`,
		}},
		{Name: "flask", Patterns: []string{
			`from\s+flask\s+import`,
			`Flask\(__name__\)`,
			`@app\.route`,
		}},
		{Name: "fastapi", Patterns: []string{
			`from\s+fastapi\s+import`,
			`FastAPI\(`,
			`@(app|router)\.(get|post|put|delete)`,
		}},
		{Name: "spring", Patterns: []string{
			`@SpringBootApplication`,
			`org\.springframework`,
			`@RestController`,
		}},
		{Name: "rails", Patterns: []string{
			`<\s*ApplicationController`,
			`ActiveRecord::Base`,
			`Rails\.application`,
		}},
		{Name: "gin", Patterns: []string{
			`gin-gonic/gin`,
			`gin\.(Default|New)\(`,
		}},
		{Name: "laravel", Patterns: []string{
			`Illuminate\\`,
			`extends\s+Controller\b`,
		}},
		{Name: "actix", Patterns: []string{
			`actix_web`,
			`HttpServer::new`,
		}},
	}

	tests := []frameworkPattern{
		{Name: "jest", Patterns: []string{
			`from\s+['"]@jest/`,
			`\bjest\.\w+\(`,
			`\bdescribe\s*\(\s*['"]`,
			`\bexpect\s*\(.+\)\.to\w+`,
		}},
		{Name: "mocha", Patterns: []string{
			`require\(['"]mocha['"]\)`,
			`from\s+['"]mocha['"]`,
		}},
		{Name: "pytest", Patterns: []string{
			`import\s+pytest`,
			`@pytest\.\w+`,
			`\bdef\s+test_\w+\(`,
		}},
		{Name: "go-testing", Patterns: []string{
			`func\s+Test\w+\(t\s+\*testing\.T\)`,
			`"testing"`,
		}},
		{Name: "junit", Patterns: []string{
			`org\.junit`,
			`@Test\b`,
		}},
		{Name: "rspec", Patterns: []string{
			`RSpec\.describe`,
			`\bexpect\(.+\)\.to\b`,
		}},
	}

	d.frameworks = compileFrameworks(frameworks)
	d.testMarks = compileFrameworks(tests)
}

func compileFrameworks(tables []frameworkPattern) []compiledFramework {
	compiled := make([]compiledFramework, 0, len(tables))
	for _, table := range tables {
		cf := compiledFramework{name: table.Name}
		for _, p := range table.Patterns {
			cf.patterns = append(cf.patterns, regexp.MustCompile(`(?m)`+p))
		}
		compiled = append(compiled, cf)
	}
	return compiled
}

// matchFrameworks returns the sorted, de-duplicated set of frameworks whose
// signature matches the content. The first matching pattern short-circuits
// the rest of that framework's list.
func (d *Detector) matchFrameworks(content string, tables []compiledFramework) []string {
	if content == "" {
		return nil
	}

	seen := make(map[string]bool)
	for _, fw := range tables {
		for _, pattern := range fw.patterns {
			if pattern.MatchString(content) {
				seen[fw.name] = true
				break
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// detectTestFrameworks combines content signatures with filename
// heuristics. A test-looking filename tags its extension's conventional
// framework even without a content match.
func (d *Detector) detectTestFrameworks(path, content string) []string {
	seen := make(map[string]bool)
	for _, name := range d.matchFrameworks(content, d.testMarks) {
		seen[name] = true
	}

	if tag := testTagFromFilename(path); tag != "" {
		seen[tag] = true
	}

	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsTestFile reports whether a filename follows a test-naming convention.
func IsTestFile(path string) bool {
	return testTagFromFilename(path) != ""
}

// testTagFromFilename maps test-naming conventions to a framework tag.
func testTagFromFilename(path string) string {
	base := strings.ToLower(filepath.Base(path))
	ext := normalizeExtension(base)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	isTestName := strings.HasPrefix(stem, "test_") ||
		strings.HasSuffix(stem, "_test") ||
		strings.HasSuffix(stem, ".test") ||
		strings.HasSuffix(stem, ".spec") ||
		strings.Contains(stem, "spec")

	if !isTestName {
		return ""
	}

	switch ext {
	case "py":
		return "pytest"
	case "go":
		return "go-testing"
	case "ts", "tsx", "js", "jsx", "mjs", "cjs":
		return "jest"
	case "java", "kt":
		return "junit"
	case "rb":
		return "rspec"
	default:
		return ""
	}
}
