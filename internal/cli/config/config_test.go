package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "x86_64-unknown-linux-gnu", cfg.Target.Triple)
	assert.False(t, cfg.Target.Vector)
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
project_name: hello-seen
language: ar
target:
  triple: riscv64-unknown-linux-gnu
  vector: true
`
	require.NoError(t, os.WriteFile("seen.yml", []byte(configContent), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hello-seen", cfg.ProjectName)
	assert.Equal(t, "ar", cfg.Language)
	assert.Equal(t, "riscv64-unknown-linux-gnu", cfg.Target.Triple)
	assert.True(t, cfg.Target.Vector)
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	require.NoError(t, os.WriteFile("seen.yml", []byte("language: fr\n"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTriple(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	require.NoError(t, os.WriteFile("seen.yml", []byte("target:\n  triple: sparc64-unknown-linux\n"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	assert.False(t, InProject())

	require.NoError(t, os.Mkdir("src", 0755))

	assert.True(t, InProject())
}

func TestGetProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "seen.yml"), []byte(""), 0644))

	subDir := filepath.Join(tmpDir, "src", "deep", "nested")
	require.NoError(t, os.MkdirAll(subDir, 0755))
	os.Chdir(subDir)

	root, err := GetProjectRoot()
	require.NoError(t, err)

	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)
	assert.Equal(t, resolvedTmpDir, resolvedRoot)
}

func TestGetProjectRootNotInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	_, err := GetProjectRoot()
	assert.Error(t, err)
}
