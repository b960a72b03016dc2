package detector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectProjectLanguages_DjangoProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", `import django
from django.conf import settings
from django.db import models

class Entry(models.Model):
    pass
`)

	d := NewDetector()
	profile, err := d.DetectProjectLanguages(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, profile.TotalFiles)
	assert.Equal(t, "python", profile.PrimaryLanguage)
	assert.Contains(t, profile.Frameworks, "django")
}

func TestDetectProjectLanguages_PrimaryLanguageTieBreak(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.go", "package main\n")

	d := NewDetector()
	profile, err := d.DetectProjectLanguages(dir, nil)
	require.NoError(t, err)

	// One file each: the alphabetically first language wins.
	assert.Equal(t, "go", profile.PrimaryLanguage)
	assert.Equal(t, 2, profile.TotalFiles)
}

func TestDetectProjectLanguages_SkipsDenylistedDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "node_modules/dep/index.js", "module.exports = 1\n")
	writeFile(t, dir, ".git/hooks/pre-commit.py", "x = 1\n")

	d := NewDetector()
	profile, err := d.DetectProjectLanguages(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, profile.TotalFiles)
	assert.Equal(t, map[string]int{"go": 1}, profile.Languages)
}

func TestDetectProjectLanguages_ExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "gen/schema.go", "package gen\n")

	d := NewDetector()
	profile, err := d.DetectProjectLanguages(dir, []string{"gen/**"})
	require.NoError(t, err)

	assert.Equal(t, 1, profile.TotalFiles)
}

func TestDetectProjectLanguages_MissingRoot(t *testing.T) {
	d := NewDetector()

	_, err := d.DetectProjectLanguages(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestDetectProjectLanguages_Tooling(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.js", "const x = 1\n")
	writeFile(t, dir, "package.json", `{"name": "demo"}`)
	writeFile(t, dir, "Makefile", "all:\n")
	writeFile(t, dir, "Dockerfile", "FROM alpine\n")

	d := NewDetector()
	profile, err := d.DetectProjectLanguages(dir, nil)
	require.NoError(t, err)

	assert.Contains(t, profile.PackageManagers, "npm")
	assert.Contains(t, profile.BuildTools, "make")
	assert.Contains(t, profile.BuildTools, "docker")
}

func TestCollectSourceFiles(t *testing.T) {
	dir := t.TempDir()
	goFile := writeFile(t, dir, "main.go", "package main\n")
	pyFile := writeFile(t, dir, "tool.py", "x = 1\n")
	writeFile(t, dir, "README.md", "# readme\n")
	writeFile(t, dir, "vendor/lib.go", "package lib\n")

	d := NewDetector()
	files, err := d.CollectSourceFiles(dir, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{goFile, pyFile}, files)
}

func TestCollectSourceFiles_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.go", "package main\n")

	d := NewDetector()
	_, err := d.CollectSourceFiles(file, nil)
	assert.Error(t, err)
}
