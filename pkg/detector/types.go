package detector

// DetectionResult is the outcome of classifying a single file.
// Language is empty when no supported language could be determined.
type DetectionResult struct {
	Language       string   `json:"language,omitempty"`
	Confidence     float64  `json:"confidence"`
	Frameworks     []string `json:"frameworks,omitempty"`
	TestFrameworks []string `json:"test_frameworks,omitempty"`
}

// ProjectLanguageProfile aggregates detection results over a project tree.
// Files whose language could not be determined count toward TotalFiles but
// do not appear in Languages.
type ProjectLanguageProfile struct {
	PrimaryLanguage string         `json:"primary_language"`
	Languages       map[string]int `json:"languages"`
	Frameworks      []string       `json:"frameworks,omitempty"`
	TestFrameworks  []string       `json:"test_frameworks,omitempty"`
	PackageManagers []string       `json:"package_managers,omitempty"`
	BuildTools      []string       `json:"build_tools,omitempty"`
	TotalFiles      int            `json:"total_files"`
}

// languagePatterns groups the content signature regexes for one language.
type languagePatterns struct {
	Language string
	Patterns []string
}

// frameworkPattern groups the content signature regexes for one framework.
// A single match on any pattern is enough to tag the framework.
type frameworkPattern struct {
	Name     string
	Patterns []string
}
