package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"codesage/pkg/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(detector.NewDetector())
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzeFile_JavascriptFindings(t *testing.T) {
	path := writeTemp(t, "app.js", `const x = 1;
console.log(x);
var y = 2;
`)

	a := newTestAnalyzer()
	analysis, err := a.AnalyzeFile(path)
	require.NoError(t, err)

	assert.Equal(t, "javascript", analysis.Language)
	require.Len(t, analysis.Diagnostics, 2)

	byMessage := map[string]Diagnostic{}
	for _, d := range analysis.Diagnostics {
		byMessage[d.Message] = d
	}

	console, ok := byMessage["console statement left in code"]
	require.True(t, ok)
	assert.Equal(t, 2, console.Line)
	assert.Equal(t, 1, console.Column)
	assert.Equal(t, SeverityWarning, console.Severity)

	varDecl, ok := byMessage["var declaration, prefer const or let"]
	require.True(t, ok)
	assert.Equal(t, 3, varDecl.Line)
	assert.Equal(t, SeverityInfo, varDecl.Severity)
}

func TestAnalyzeFile_MergeConflictIsError(t *testing.T) {
	path := writeTemp(t, "merge.py", `x = 1
<<<<<<< HEAD
y = 2
`)

	a := newTestAnalyzer()
	analysis, err := a.AnalyzeFile(path)
	require.NoError(t, err)

	found := false
	for _, d := range analysis.Diagnostics {
		if d.Message == "unresolved merge conflict marker" {
			found = true
			assert.Equal(t, SeverityError, d.Severity)
			assert.Equal(t, 2, d.Line)
		}
	}
	assert.True(t, found)
}

func TestAnalyzeFile_MetricsPopulated(t *testing.T) {
	path := writeTemp(t, "loop.go", `package main

func count(items []int) int {
	total := 0
	for _, item := range items {
		if item > 0 {
			total++
		}
	}
	return total
}
`)

	a := newTestAnalyzer()
	analysis, err := a.AnalyzeFile(path)
	require.NoError(t, err)

	assert.Equal(t, "go", analysis.Language)
	assert.Equal(t, 3, analysis.Metrics.Complexity)
	assert.Greater(t, analysis.Metrics.LinesOfCode, 0)
	assert.NotEmpty(t, analysis.Content)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.AnalyzeFile(filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
}

func TestAnalyzeBatch_OrderAndSkips(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 0, 5)
	for _, name := range []string{"a.js", "b.js", "c.js", "d.js"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("const x = 1;\n"), 0644))
		paths = append(paths, path)
	}
	// One path that cannot be read.
	paths = append(paths, filepath.Join(dir, "missing.js"))

	a := newTestAnalyzer()
	progressCalls := 0
	results := a.AnalyzeBatch(paths, 2, func(result BatchResult) {
		progressCalls++
	})

	require.Len(t, results, 5)
	assert.Equal(t, 5, progressCalls)

	// Results keep input order regardless of goroutine scheduling.
	for i, result := range results {
		assert.Equal(t, paths[i], result.Path)
	}

	assert.Error(t, results[4].Err)
	assert.Nil(t, results[4].Analysis)

	analyses := Successful(results)
	assert.Len(t, analyses, 4)
}

func TestAnalyzeBatch_WidthClamped(t *testing.T) {
	path := writeTemp(t, "a.js", "const x = 1;\n")

	a := newTestAnalyzer()
	results := a.AnalyzeBatch([]string{path}, 0, nil)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	a := newTestAnalyzer()
	assert.Empty(t, a.AnalyzeBatch(nil, 4, nil))
}
