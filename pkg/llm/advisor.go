package llm

import (
	"context"
	"fmt"
	"strings"

	"codesage/pkg/cache"
	"codesage/pkg/quality"

	"github.com/sirupsen/logrus"
)

// maxPromptFileBytes bounds how much file content goes into one prompt.
const maxPromptFileBytes = 8000

// Advisor produces narrative text around analysis results: project
// recommendations, explanations, refactor suggestions, documentation and
// tutoring. Numeric scoring never depends on it.
type Advisor struct {
	client  *Client
	cache   *cache.Cache
	logger  *logrus.Logger
	enabled bool
}

// NewAdvisor creates an advisor. A nil client or disabled flag yields an
// advisor that always falls back to deterministic output.
func NewAdvisor(client *Client, responseCache *cache.Cache, enabled bool) *Advisor {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	return &Advisor{
		client:  client,
		cache:   responseCache,
		logger:  logger,
		enabled: enabled && client != nil,
	}
}

// SetLogLevel sets the logging level
func (a *Advisor) SetLogLevel(level logrus.Level) {
	a.logger.SetLevel(level)
	if a.client != nil {
		a.client.SetLogLevel(level)
	}
}

// IsEnabled returns whether AI generation is active.
func (a *Advisor) IsEnabled() bool {
	return a.enabled
}

// Recommendations returns narrative recommendations for a project report.
// On any AI failure it returns the report's rule-based list unchanged;
// that fallback is mandatory and the result is never empty.
func (a *Advisor) Recommendations(ctx context.Context, health *quality.ProjectHealth) []string {
	fallback := health.Recommendations
	if !a.enabled {
		return fallback
	}

	prompt := buildRecommendationPrompt(health)

	text, err := a.generateCached(ctx, prompt)
	if err != nil {
		a.logger.Warnf("AI recommendations failed, using rule-based list: %v", err)
		a.logger.Debug(Guidance(err))
		return fallback
	}

	recs := parseListResponse(text)
	if len(recs) == 0 {
		return fallback
	}
	return recs
}

// Explain returns a plain-language explanation of one file.
func (a *Advisor) Explain(ctx context.Context, path, content, language string) (string, error) {
	prompt := fmt.Sprintf(
		"Explain what the following %s file does, for a developer new to the codebase. "+
			"Describe its purpose, main structures and any non-obvious behavior.\n\nFile: %s\n\n%s",
		languageLabel(language), path, truncate(content, maxPromptFileBytes))
	return a.generateCached(ctx, prompt)
}

// SuggestRefactor returns refactoring suggestions for one file.
func (a *Advisor) SuggestRefactor(ctx context.Context, path, content, language string) (string, error) {
	prompt := fmt.Sprintf(
		"Review the following %s file and suggest concrete refactorings. "+
			"Focus on complexity hot spots, duplication and naming. "+
			"Quote the relevant lines before each suggestion.\n\nFile: %s\n\n%s",
		languageLabel(language), path, truncate(content, maxPromptFileBytes))
	return a.generateCached(ctx, prompt)
}

// Document returns doc comments for the declarations in one file.
func (a *Advisor) Document(ctx context.Context, path, content, language string) (string, error) {
	prompt := fmt.Sprintf(
		"Write documentation comments for the public declarations in the following %s file, "+
			"using the language's conventional doc style.\n\nFile: %s\n\n%s",
		languageLabel(language), path, truncate(content, maxPromptFileBytes))
	return a.generateCached(ctx, prompt)
}

// Tutor answers a free-form programming question.
func (a *Advisor) Tutor(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a patient programming mentor. Teach the following topic with a short "+
			"explanation followed by a small, runnable example: %s", topic)
	return a.generateCached(ctx, prompt)
}

// generateCached consults the response cache before calling the provider.
func (a *Advisor) generateCached(ctx context.Context, prompt string) (string, error) {
	if !a.enabled {
		return "", fmt.Errorf("AI generation is disabled")
	}

	provider := string(a.client.Provider())
	model := a.client.Model()

	if a.cache != nil {
		if text, ok := a.cache.Get(prompt, provider, model); ok {
			a.logger.Debugf("cache hit for prompt (%d bytes)", len(prompt))
			return text, nil
		}
	}

	text, err := a.client.Generate(ctx, prompt, DefaultOptions())
	if err != nil {
		return "", err
	}

	if a.cache != nil {
		if err := a.cache.Put(prompt, provider, model, text); err != nil {
			a.logger.Debugf("failed to cache response: %v", err)
		}
	}

	return text, nil
}

// buildRecommendationPrompt summarizes the report: component scores plus
// the five worst files, not the full file list.
func buildRecommendationPrompt(health *quality.ProjectHealth) string {
	var b strings.Builder
	b.WriteString("You are a code quality advisor. Given this project health summary, ")
	b.WriteString("write 3-6 specific, actionable recommendations as a dash-prefixed list. ")
	b.WriteString("No preamble.\n\n")
	fmt.Fprintf(&b, "Overall score: %d/100\n", health.OverallScore)
	fmt.Fprintf(&b, "Code health: %d, maintainability: %d, complexity: %d\n",
		health.CodeHealth, health.Maintainability, health.Complexity)
	fmt.Fprintf(&b, "Test coverage estimate: %d, documentation: %d, security: %d\n",
		health.TestCoverage, health.Documentation, health.Security)
	fmt.Fprintf(&b, "Files analyzed: %d\n", health.FilesAnalyzed)

	worst := health.Files
	if len(worst) > 5 {
		worst = worst[:5]
	}
	if len(worst) > 0 {
		b.WriteString("Worst files:\n")
		for _, f := range worst {
			fmt.Fprintf(&b, "- %s (score %d, %d issues)\n", f.Path, f.Score, f.IssueCount)
		}
	}

	return b.String()
}

// parseListResponse extracts list items from a model response.
func parseListResponse(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

func languageLabel(language string) string {
	if language == "" {
		return "source"
	}
	return language
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
