package detector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxScanFileSize bounds the content read per file during a project scan.
const maxScanFileSize = 1024 * 1024 // 1MB

// skipDirs is the fixed denylist of directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"out":          true,
	"bin":          true,
	"obj":          true,
	"coverage":     true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".next":        true,
	".nuxt":        true,
	"venv":         true,
	".venv":        true,
	".tox":         true,
	".cache":       true,
}

// markerFile infers tooling from the bare presence of a well-known file in
// the project root. No content inspection.
type markerFile struct {
	name           string
	packageManager string
	buildTool      string
}

var markerFiles = []markerFile{
	{name: "package.json", packageManager: "npm"},
	{name: "yarn.lock", packageManager: "yarn"},
	{name: "pnpm-lock.yaml", packageManager: "pnpm"},
	{name: "requirements.txt", packageManager: "pip"},
	{name: "pyproject.toml", packageManager: "pip"},
	{name: "Pipfile", packageManager: "pipenv"},
	{name: "go.mod", packageManager: "go-modules"},
	{name: "Cargo.toml", packageManager: "cargo", buildTool: "cargo"},
	{name: "pom.xml", packageManager: "maven", buildTool: "maven"},
	{name: "build.gradle", packageManager: "gradle", buildTool: "gradle"},
	{name: "build.gradle.kts", packageManager: "gradle", buildTool: "gradle"},
	{name: "Gemfile", packageManager: "bundler"},
	{name: "composer.json", packageManager: "composer"},
	{name: "Makefile", buildTool: "make"},
	{name: "CMakeLists.txt", buildTool: "cmake"},
	{name: "Dockerfile", buildTool: "docker"},
	{name: "vite.config.ts", buildTool: "vite"},
	{name: "vite.config.js", buildTool: "vite"},
	{name: "webpack.config.js", buildTool: "webpack"},
}

// DetectProjectLanguages walks a project tree and aggregates per-file
// detection into a language profile. Individual unreadable entries are
// skipped; only a missing or unreadable root is an error.
func (d *Detector) DetectProjectLanguages(rootPath string, excludePatterns []string) (*ProjectLanguageProfile, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", rootPath)
	}

	profile := &ProjectLanguageProfile{
		Languages: make(map[string]int),
	}

	frameworks := make(map[string]bool)
	testFrameworks := make(map[string]bool)

	walkErr := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		if info.IsDir() {
			if path != rootPath && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		if matchesAny(relPath, excludePatterns) {
			return nil
		}

		ext := normalizeExtension(path)
		if d.extensionMap[ext] == "" {
			return nil
		}
		if info.Size() > maxScanFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			d.logger.Debugf("skipping unreadable file %s: %v", path, err)
			return nil
		}

		result := d.DetectLanguage(path, string(content))
		profile.TotalFiles++
		if result.Language != "" {
			profile.Languages[result.Language]++
		}
		for _, fw := range result.Frameworks {
			frameworks[fw] = true
		}
		for _, tf := range result.TestFrameworks {
			testFrameworks[tf] = true
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, walkErr)
	}

	profile.Frameworks = sortedKeys(frameworks)
	profile.TestFrameworks = sortedKeys(testFrameworks)
	profile.PackageManagers, profile.BuildTools = detectTooling(rootPath)
	profile.PrimaryLanguage = primaryLanguage(profile.Languages)

	d.logger.Debugf("scanned %d files under %s, primary language %q",
		profile.TotalFiles, rootPath, profile.PrimaryLanguage)
	return profile, nil
}

// CollectSourceFiles returns the analyzable source files under rootPath,
// applying the same denylist, exclude patterns and size cap as the
// profile walk. Paths come back in walk order.
func (d *Detector) CollectSourceFiles(rootPath string, excludePatterns []string) ([]string, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", rootPath)
	}

	var files []string
	walkErr := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			if path != rootPath && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		if matchesAny(relPath, excludePatterns) {
			return nil
		}

		ext := normalizeExtension(path)
		if d.extensionMap[ext] == "" {
			return nil
		}
		if info.Size() > maxScanFileSize {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, walkErr)
	}

	return files, nil
}

// detectTooling checks the project root (flat, non-recursive) for marker
// files and infers package managers and build tools from their presence.
func detectTooling(rootPath string) (packageManagers, buildTools []string) {
	pms := make(map[string]bool)
	bts := make(map[string]bool)

	for _, marker := range markerFiles {
		if _, err := os.Stat(filepath.Join(rootPath, marker.name)); err != nil {
			continue
		}
		if marker.packageManager != "" {
			pms[marker.packageManager] = true
		}
		if marker.buildTool != "" {
			bts[marker.buildTool] = true
		}
	}

	return sortedKeys(pms), sortedKeys(bts)
}

// primaryLanguage returns the language with the highest file count.
// Ties break alphabetically so repeated scans are deterministic.
func primaryLanguage(counts map[string]int) string {
	best := ""
	bestCount := 0

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}

	return best
}

func matchesAny(relPath string, patterns []string) bool {
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, slashed); err == nil && matched {
			return true
		}
		// Bare directory names exclude everything beneath them.
		if strings.HasPrefix(slashed, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
