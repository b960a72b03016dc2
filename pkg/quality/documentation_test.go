package quality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRootFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDocumentationScore_Empty(t *testing.T) {
	assert.Equal(t, 0, documentationScore(t.TempDir()))
	assert.Equal(t, 0, documentationScore(""))
}

func TestDocumentationScore_ReadmeOnly(t *testing.T) {
	dir := t.TempDir()
	writeRootFile(t, dir, "README.md", "# project\n")

	assert.Equal(t, 40, documentationScore(dir))
}

func TestDocumentationScore_AllSignals(t *testing.T) {
	dir := t.TempDir()
	writeRootFile(t, dir, "README.md", "# project\n")
	writeRootFile(t, dir, "package.json", `{"description": "a long enough description"}`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0755))

	assert.Equal(t, 100, documentationScore(dir))
}

func TestManifestDescription_TooShort(t *testing.T) {
	dir := t.TempDir()
	writeRootFile(t, dir, "package.json", `{"description": "short"}`)

	assert.False(t, manifestDescription(dir))
}

func TestManifestDescription_CargoToml(t *testing.T) {
	dir := t.TempDir()
	writeRootFile(t, dir, "Cargo.toml", "[package]\ndescription = \"a rust crate for things\"\n")

	assert.True(t, manifestDescription(dir))
}

func TestDocumentationScore_DocsDirMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeRootFile(t, dir, "docs", "not a directory")

	assert.Equal(t, 0, documentationScore(dir))
}
