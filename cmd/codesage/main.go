package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"codesage/internal/config"
	"codesage/pkg/analyzer"
	"codesage/pkg/cache"
	"codesage/pkg/detector"
	"codesage/pkg/llm"
	"codesage/pkg/quality"
	"codesage/pkg/reporter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	jsonOutput bool
	outputFile string
	noAI       bool
)

func main() {
	cfg = config.Load()

	var rootCmd = &cobra.Command{
		Use:   "codesage",
		Short: "AI-assisted code analysis tool",
		Long: `CodeSage analyzes a codebase without running it:
- detects languages, frameworks and tooling
- computes complexity, maintainability and technical-debt metrics
- scores file and project quality
- optionally asks an LLM for explanations and recommendations`,
	}

	// Analyze command
	var analyzeCmd = &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project and report its health",
		Long:  "Scan a project tree, analyze every source file in batches and produce a project health report",
		Args:  cobra.MaximumNArgs(1),
		Run:   runAnalyze,
	}

	// Detect command
	var detectCmd = &cobra.Command{
		Use:   "detect [path]",
		Short: "Detect project languages and tooling",
		Long:  "Scan a project tree and report its language profile, frameworks, package managers and build tools",
		Args:  cobra.MaximumNArgs(1),
		Run:   runDetect,
	}

	// Score command
	var scoreCmd = &cobra.Command{
		Use:   "score <file>",
		Short: "Score a single file",
		Long:  "Analyze one source file and print its quality score and metrics",
		Args:  cobra.ExactArgs(1),
		Run:   runScore,
	}

	// AI text commands
	var explainCmd = &cobra.Command{
		Use:   "explain <file>",
		Short: "Explain what a file does",
		Args:  cobra.ExactArgs(1),
		Run:   aiFileCommand("explain"),
	}

	var refactorCmd = &cobra.Command{
		Use:   "refactor <file>",
		Short: "Suggest refactorings for a file",
		Args:  cobra.ExactArgs(1),
		Run:   aiFileCommand("refactor"),
	}

	var docCmd = &cobra.Command{
		Use:   "doc <file>",
		Short: "Generate documentation comments for a file",
		Args:  cobra.ExactArgs(1),
		Run:   aiFileCommand("doc"),
	}

	var tutorCmd = &cobra.Command{
		Use:   "tutor <topic>",
		Short: "Get a short lesson on a programming topic",
		Args:  cobra.MinimumNArgs(1),
		Run:   runTutor,
	}

	// Report command
	var reportCmd = &cobra.Command{
		Use:   "report <file>",
		Short: "Re-render a saved analysis report",
		Args:  cobra.ExactArgs(1),
		Run:   runReport,
	}

	// Config command
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Run:   runConfigShow,
	}

	var configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Save the current settings as defaults",
		Run:   runConfigSet,
	}

	var configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Run:   runConfigPath,
	}

	// Cache command
	var cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Manage the AI response cache",
	}

	var cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Run:   runCacheStats,
	}

	var cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Run:   runCacheClear,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputFormat, "format", "f", cfg.OutputFormat, "output format (text|table|json)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	rootCmd.PersistentFlags().StringSliceVarP(&cfg.ExcludePatterns, "exclude", "e", cfg.ExcludePatterns, "exclude glob patterns (repeatable)")
	rootCmd.PersistentFlags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "files analyzed concurrently per batch")
	rootCmd.PersistentFlags().BoolVar(&noAI, "no-ai", false, "disable AI features")

	// AI provider flags
	rootCmd.PersistentFlags().StringVar(&cfg.Provider, "provider", cfg.Provider, "AI provider (openai|openai-compatible|gemini|claude|ollama)")
	rootCmd.PersistentFlags().StringVar(&cfg.Model, "model", cfg.Model, "AI model name")
	rootCmd.PersistentFlags().StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "AI API key")
	rootCmd.PersistentFlags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "AI API base URL")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "AI request timeout")

	// Analyze command specific flags
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "save the report to a JSON file")

	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)

	rootCmd.AddCommand(analyzeCmd, detectCmd, scoreCmd,
		explainCmd, refactorCmd, docCmd, tutorCmd,
		reportCmd, configCmd, cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	rootPath := targetDirectory(args)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if jsonOutput {
		cfg.OutputFormat = "json"
	}

	det := detector.NewDetector()
	anl := analyzer.NewAnalyzer(det)
	scorer := quality.NewScorer()
	rep := reporter.NewReporter(reporter.ReportFormat(cfg.OutputFormat), cfg.Verbose)

	if cfg.Verbose {
		det.SetLogLevel(logrus.DebugLevel)
		anl.SetLogLevel(logrus.DebugLevel)
		scorer.SetLogLevel(logrus.DebugLevel)
	}

	fmt.Printf("🔍 Analyzing: %s\n", rootPath)

	profile, err := det.DetectProjectLanguages(rootPath, cfg.ExcludePatterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	paths, err := det.CollectSourceFiles(rootPath, cfg.ExcludePatterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📦 Found %d source files\n", len(paths))

	rep.InitProgressBar(len(paths), "Analyzing files")
	results := anl.AnalyzeBatch(paths, cfg.BatchSize, func(result analyzer.BatchResult) {
		rep.UpdateProgress()
	})
	rep.FinishProgress()

	analyses := analyzer.Successful(results)
	health := scorer.AggregateProjectHealth(quality.ProjectInput{
		Root:       rootPath,
		Discovered: len(paths),
		Analyses:   analyses,
	})

	advisor, respCache := newAdvisor()
	defer closeCache(respCache)
	if advisor.IsEnabled() {
		fmt.Printf("🤖 AI recommendations enabled (provider: %s, model: %s)\n", cfg.Provider, cfg.Model)
		health.Recommendations = advisor.Recommendations(context.Background(), health)
	}

	report := reporter.BuildReport(health, profile.PrimaryLanguage)
	rep.ReportHealth(report)

	if outputFile != "" {
		if err := report.Save(outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("📄 Report saved to: %s\n", outputFile)
	}
}

func runDetect(cmd *cobra.Command, args []string) {
	rootPath := targetDirectory(args)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	det := detector.NewDetector()
	rep := reporter.NewReporter(reporter.ReportFormat(cfg.OutputFormat), cfg.Verbose)

	if cfg.Verbose {
		det.SetLogLevel(logrus.DebugLevel)
	}

	fmt.Printf("🔍 Scanning: %s\n", rootPath)

	profile, err := det.DetectProjectLanguages(rootPath, cfg.ExcludePatterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	rep.ReportProfile(profile)
}

func runScore(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	det := detector.NewDetector()
	anl := analyzer.NewAnalyzer(det)
	rep := reporter.NewReporter(reporter.ReportFormat(cfg.OutputFormat), cfg.Verbose)

	if cfg.Verbose {
		anl.SetLogLevel(logrus.DebugLevel)
	}

	analysis, err := anl.AnalyzeFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rep.ReportFileQuality(&quality.FileQuality{
		Path:           analysis.Path,
		Language:       analysis.Language,
		Score:          quality.ScoreFile(analysis.Diagnostics, &analysis.Metrics),
		IssueCount:     len(analysis.Diagnostics),
		SecurityIssues: quality.CountSecurityIssues(analysis.Content),
		Metrics:        &analysis.Metrics,
	})
}

// aiFileCommand builds the run function shared by explain, refactor and doc.
func aiFileCommand(mode string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(1)
		}

		advisor, respCache := requireAdvisor()
		defer closeCache(respCache)

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		content := string(data)
		language := detector.NewDetector().DetectLanguage(path, content).Language

		ctx := context.Background()
		var text string
		switch mode {
		case "explain":
			text, err = advisor.Explain(ctx, path, content, language)
		case "refactor":
			text, err = advisor.SuggestRefactor(ctx, path, content, language)
		case "doc":
			text, err = advisor.Document(ctx, path, content, language)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "AI request failed: %v\n", err)
			if hint := llm.Guidance(err); hint != "" {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
			}
			os.Exit(1)
		}

		fmt.Println(text)
	}
}

func runTutor(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	advisor, respCache := requireAdvisor()
	defer closeCache(respCache)

	text, err := advisor.Tutor(context.Background(), strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "AI request failed: %v\n", err)
		if hint := llm.Guidance(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}

	fmt.Println(text)
}

func runReport(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	report, err := reporter.LoadReport(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rep := reporter.NewReporter(reporter.ReportFormat(cfg.OutputFormat), cfg.Verbose)
	rep.ReportHealth(report)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	fmt.Printf("Config file: %s\n", config.Path())
	fmt.Println("\nCurrent settings:")
	fmt.Printf("  Provider:      %s\n", cfg.Provider)
	fmt.Printf("  Model:         %s\n", cfg.Model)
	fmt.Printf("  Base URL:      %s\n", orNone(cfg.BaseURL))
	fmt.Printf("  Timeout:       %v\n", cfg.Timeout)
	fmt.Printf("  AI enabled:    %v\n", cfg.EnableAI)
	fmt.Printf("  Batch size:    %d\n", cfg.BatchSize)
	fmt.Printf("  Output format: %s\n", cfg.OutputFormat)
	fmt.Printf("  Cache path:    %s\n", cfg.CachePath)
	fmt.Printf("  Cache enabled: %v\n", cfg.EnableCache)
	if cfg.APIKey != "" {
		fmt.Printf("  API key:       %s...%s\n",
			cfg.APIKey[:min(8, len(cfg.APIKey))], cfg.APIKey[max(0, len(cfg.APIKey)-4):])
	} else {
		fmt.Printf("  API key:       (not set)\n")
	}
}

func runConfigSet(cmd *cobra.Command, args []string) {
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Configuration saved to: %s\n", config.Path())
}

func runConfigPath(cmd *cobra.Command, args []string) {
	fmt.Println(config.Path())
}

func runCacheStats(cmd *cobra.Command, args []string) {
	respCache, err := cache.New(cfg.CachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer respCache.Close()

	stats, err := respCache.GetStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cache: %s\n", cfg.CachePath)
	fmt.Printf("  Entries:   %d\n", stats.Entries)
	fmt.Printf("  Hits:      %d\n", stats.Hits)
	fmt.Printf("  Misses:    %d\n", stats.Misses)
	fmt.Printf("  API calls: %d\n", stats.APICalls)
	fmt.Printf("  Updated:   %s\n", stats.LastUpdated.Format(time.RFC3339))
}

func runCacheClear(cmd *cobra.Command, args []string) {
	respCache, err := cache.New(cfg.CachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer respCache.Close()

	if err := respCache.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Cache cleared")
}

// newAdvisor builds an advisor from the current configuration, or a
// disabled one when AI is off or misconfigured. A broken cache degrades
// to uncached generation rather than failing the run.
func newAdvisor() (*llm.Advisor, *cache.Cache) {
	enabled := cfg.EnableAI && !noAI
	if !enabled {
		return llm.NewAdvisor(nil, nil, false), nil
	}

	provider := llm.Provider(cfg.Provider)
	if err := llm.ValidateConfiguration(provider, cfg.APIKey, cfg.BaseURL); err != nil {
		fmt.Fprintf(os.Stderr, "AI disabled: %v\n", err)
		return llm.NewAdvisor(nil, nil, false), nil
	}

	var respCache *cache.Cache
	if cfg.EnableCache {
		c, err := cache.New(cfg.CachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Response cache unavailable: %v\n", err)
		} else {
			respCache = c
		}
	}

	client := llm.NewClient(provider, cfg.Model, cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	advisor := llm.NewAdvisor(client, respCache, true)
	if cfg.Verbose {
		advisor.SetLogLevel(logrus.DebugLevel)
	}

	return advisor, respCache
}

// requireAdvisor exits when the AI surface a command depends on is not
// available.
func requireAdvisor() (*llm.Advisor, *cache.Cache) {
	if !cfg.EnableAI || noAI {
		fmt.Fprintln(os.Stderr, "This command requires AI; remove --no-ai or enable it in the config")
		os.Exit(1)
	}

	provider := llm.Provider(cfg.Provider)
	if err := llm.ValidateConfiguration(provider, cfg.APIKey, cfg.BaseURL); err != nil {
		fmt.Fprintf(os.Stderr, "AI configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Hint: set --api-key or the provider's environment variable")
		os.Exit(1)
	}

	advisor, respCache := newAdvisor()
	return advisor, respCache
}

func closeCache(c *cache.Cache) {
	if c != nil {
		c.Close()
	}
}

func targetDirectory(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	return wd
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
