package detector

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// extensionConfidence is the starting confidence for an extension hit.
	// High but not certain: extensions are occasionally misleading.
	extensionConfidence = 0.8

	// agreementBoost is added when extension and content detection agree.
	agreementBoost = 0.2

	// contentConfidenceCap bounds content-only detections below certainty.
	contentConfidenceCap = 0.95

	// contentConfidenceFloor discards content-only detections weaker than
	// this. Extension hits start at 0.8 and are never gated.
	contentConfidenceFloor = 0.3

	// patternSaturation caps a single pattern's contribution: raw match
	// count is divided by this before clamping to 1.0.
	patternSaturation = 10.0
)

// Detector classifies file languages and frameworks from extension and
// content signals.
type Detector struct {
	logger       *logrus.Logger
	extensionMap map[string]string
	languages    map[string][]*regexp.Regexp
	frameworks   []compiledFramework
	testMarks    []compiledFramework
}

type compiledFramework struct {
	name     string
	patterns []*regexp.Regexp
}

// NewDetector creates a detector with all signature tables compiled.
func NewDetector() *Detector {
	d := &Detector{
		logger:       logrus.New(),
		extensionMap: make(map[string]string),
		languages:    make(map[string][]*regexp.Regexp),
	}

	d.initExtensionMap()
	d.initLanguagePatterns()
	d.initFrameworkPatterns()
	return d
}

// SetLogLevel sets the logging level.
func (d *Detector) SetLogLevel(level logrus.Level) {
	d.logger.SetLevel(level)
}

// initExtensionMap initializes the extension to language mapping.
func (d *Detector) initExtensionMap() {
	table := map[string][]string{
		"typescript": {"ts", "tsx"},
		"javascript": {"js", "jsx", "mjs", "cjs"},
		"python":     {"py", "pyw", "pyi"},
		"go":         {"go"},
		"rust":       {"rs"},
		"java":       {"java"},
		"csharp":     {"cs"},
		"cpp":        {"cpp", "cc", "cxx", "hpp", "hxx"},
		"c":          {"c", "h"},
		"ruby":       {"rb"},
		"php":        {"php"},
		"swift":      {"swift"},
		"kotlin":     {"kt", "kts"},
	}

	for lang, exts := range table {
		for _, ext := range exts {
			d.extensionMap[ext] = lang
		}
	}
}

// initLanguagePatterns initializes the content signature tables. Each entry
// is a syntax idiom that rarely appears outside its language; scoring caps
// each pattern's contribution so one noisy idiom cannot dominate.
func (d *Detector) initLanguagePatterns() {
	tables := []languagePatterns{
		{Language: "typescript", Patterns: []string{
			`\binterface\s+\w+`,
			`:\s*(string|number|boolean|void)\b`,
			`\bexport\s+(default|const|class|function|type)\b`,
			`\bimport\s+.*\s+from\s+['"]`,
			`\benum\s+\w+`,
			`\bimplements\s+\w+`,
		}},
		{Language: "javascript", Patterns: []string{
			`\bfunction\s+\w+\s*\(`,
			`\bconst\s+\w+\s*=`,
			`=>\s*[{(]?`,
			`\brequire\(['"]`,
			`\bmodule\.exports\b`,
			`\bconsole\.log\(`,
		}},
		{Language: "python", Patterns: []string{
			`\bdef\s+\w+\s*\(`,
			`^import\s+\w+`,
			`\bfrom\s+[\w.]+\s+import\b`,
			`if\s+__name__\s*==`,
			`\bself\.\w+`,
			`^\s*@\w+`,
		}},
		{Language: "go", Patterns: []string{
			`\bfunc\s+\w+\s*\(`,
			`^package\s+\w+`,
			`:=`,
			`\btype\s+\w+\s+struct\b`,
			`\bgo\s+func\b`,
			`\bfmt\.\w+\(`,
		}},
		{Language: "rust", Patterns: []string{
			`\bfn\s+\w+\s*\(`,
			`\blet\s+mut\b`,
			`\bimpl\s+\w+`,
			`\buse\s+\w+::`,
			`\bmatch\s+\w+\s*\{`,
			`println!\(`,
		}},
		{Language: "java", Patterns: []string{
			`\bpublic\s+(class|interface|enum)\s+\w+`,
			`\bpublic\s+static\s+void\s+main\b`,
			`System\.out\.print`,
			`@Override\b`,
			`^import\s+java\.`,
		}},
		{Language: "csharp", Patterns: []string{
			`\bnamespace\s+[\w.]+`,
			`^using\s+System`,
			`Console\.Write`,
			`\bpublic\s+(class|interface|struct)\s+\w+`,
			`\basync\s+Task\b`,
		}},
		{Language: "cpp", Patterns: []string{
			`#include\s*<\w+>`,
			`\bstd::\w+`,
			`\bcout\s*<<`,
			`\btemplate\s*<`,
			`\bnamespace\s+\w+`,
		}},
		{Language: "c", Patterns: []string{
			`#include\s*<\w+\.h>`,
			`\bprintf\s*\(`,
			`\bmalloc\s*\(`,
			`\bstruct\s+\w+\s*\{`,
			`\bvoid\s+\w+\s*\(`,
		}},
		{Language: "ruby", Patterns: []string{
			`\bdef\s+\w+`,
			`^\s*end\s*$`,
			`\brequire\s+['"]`,
			`\bputs\s+`,
			`\bclass\s+\w+\s*<\s*\w+`,
			`\bdo\s+\|`,
		}},
		{Language: "php", Patterns: []string{
			`<\?php`,
			`\$\w+\s*=`,
			`\becho\s+`,
			`\bfunction\s+\w+\s*\(`,
			`->\w+\(`,
		}},
		{Language: "swift", Patterns: []string{
			`\bfunc\s+\w+\s*\(`,
			`\bvar\s+\w+\s*:`,
			`\blet\s+\w+\s*=`,
			`^import\s+(Foundation|UIKit|SwiftUI)`,
			`\bguard\s+let\b`,
		}},
		{Language: "kotlin", Patterns: []string{
			`\bfun\s+\w+\s*\(`,
			`\bval\s+\w+`,
			`\bdata\s+class\b`,
			`\bcompanion\s+object\b`,
			`\bwhen\s*\(`,
		}},
	}

	for _, table := range tables {
		compiled := make([]*regexp.Regexp, 0, len(table.Patterns))
		for _, p := range table.Patterns {
			compiled = append(compiled, regexp.MustCompile(`(?m)`+p))
		}
		d.languages[table.Language] = compiled
	}
}

// DetectLanguage classifies a file from its path and optional content.
// It never fails: an unclassifiable file yields an empty Language with
// low confidence.
func (d *Detector) DetectLanguage(path, content string) DetectionResult {
	result := DetectionResult{}

	ext := normalizeExtension(path)
	extLang := d.extensionMap[ext]
	if extLang != "" {
		result.Language = extLang
		result.Confidence = extensionConfidence
	}

	// Content scoring runs whenever content is available or the extension
	// gave no answer. Content corroborates but never overrides an
	// extension hit.
	if content != "" || extLang == "" {
		contentLang, rawScore := d.scoreContent(content)

		switch {
		case extLang == "" && contentLang != "":
			confidence := rawScore * extensionConfidence
			if confidence > contentConfidenceCap {
				confidence = contentConfidenceCap
			}
			if confidence >= contentConfidenceFloor {
				result.Language = contentLang
				result.Confidence = confidence
			}
		case extLang != "" && contentLang == extLang:
			result.Confidence = extensionConfidence + agreementBoost
			if result.Confidence > 1.0 {
				result.Confidence = 1.0
			}
		}
	}

	result.Frameworks = d.matchFrameworks(content, d.frameworks)
	result.TestFrameworks = d.detectTestFrameworks(path, content)

	d.logger.Debugf("detected %s as %q (confidence %.2f)", path, result.Language, result.Confidence)
	return result
}

// scoreContent returns the best-scoring language for the content and its
// raw score in [0,1]. Each pattern contributes min(matches/10, 1.0) and the
// sum is normalized by the language's pattern count.
func (d *Detector) scoreContent(content string) (string, float64) {
	if content == "" {
		return "", 0
	}

	bestLang := ""
	bestScore := 0.0

	// Deterministic iteration so equal scores resolve the same way on
	// every run.
	names := make([]string, 0, len(d.languages))
	for name := range d.languages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		patterns := d.languages[name]
		total := 0.0
		for _, pattern := range patterns {
			matches := len(pattern.FindAllStringIndex(content, -1))
			contribution := float64(matches) / patternSaturation
			if contribution > 1.0 {
				contribution = 1.0
			}
			total += contribution
		}

		score := total / float64(len(patterns))
		if score > bestScore {
			bestScore = score
			bestLang = name
		}
	}

	return bestLang, bestScore
}

// SupportedExtensions returns the sorted set of recognized extensions.
func (d *Detector) SupportedExtensions() []string {
	exts := make([]string, 0, len(d.extensionMap))
	for ext := range d.extensionMap {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LanguageForExtension returns the language mapped to an extension, if any.
func (d *Detector) LanguageForExtension(ext string) string {
	return d.extensionMap[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// normalizeExtension returns the lowercase extension without the dot.
func normalizeExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
