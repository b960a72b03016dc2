package quality

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
)

// Documentation point values. Capped at 100 in total.
const (
	docPointsReadme      = 40
	docPointsDescription = 30
	docPointsDocsDir     = 30
)

var readmeNames = []string{"README.md", "README.rst", "README.txt", "README", "readme.md"}

var docsDirNames = []string{"docs", "doc", "documentation"}

var tomlDescriptionPattern = regexp.MustCompile(`(?m)^description\s*=\s*"(.+)"`)

// documentationScore awards points for a README, a package-manifest
// description longer than 10 characters, and a docs directory.
func documentationScore(root string) int {
	if root == "" {
		return 0
	}

	score := 0

	for _, name := range readmeNames {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			score += docPointsReadme
			break
		}
	}

	if manifestDescription(root) {
		score += docPointsDescription
	}

	for _, name := range docsDirNames {
		if info, err := os.Stat(filepath.Join(root, name)); err == nil && info.IsDir() {
			score += docPointsDocsDir
			break
		}
	}

	if score > 100 {
		return 100
	}
	return score
}

// manifestDescription reports whether a package manifest in the root
// carries a description longer than 10 characters.
func manifestDescription(root string) bool {
	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		var manifest struct {
			Description string `json:"description"`
		}
		if json.Unmarshal(data, &manifest) == nil && len(manifest.Description) > 10 {
			return true
		}
	}

	for _, name := range []string{"Cargo.toml", "pyproject.toml"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		if m := tomlDescriptionPattern.FindStringSubmatch(string(data)); m != nil && len(m[1]) > 10 {
			return true
		}
	}

	return false
}
