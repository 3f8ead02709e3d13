package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSource = `fun main() { val x = 1 }`

func TestIncrementalCompiler_IncrementalBuild(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldDir)

	srcDir := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	testFile := filepath.Join(srcDir, "main.seen")
	require.NoError(t, os.WriteFile(testFile, []byte(validSource), 0644))

	compiler := NewIncrementalCompiler("en", nil)

	result, err := compiler.IncrementalBuild([]string{testFile})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, compiler.cache, 1)

	result2, err := compiler.IncrementalBuild([]string{testFile})
	require.NoError(t, err)
	assert.True(t, result2.Success)
}

func TestIncrementalCompiler_CompileError(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldDir)

	srcDir := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	testFile := filepath.Join(srcDir, "bad.seen")
	badContent := `fun main() { val x = }`
	require.NoError(t, os.WriteFile(testFile, []byte(badContent), 0644))

	compiler := NewIncrementalCompiler("en", nil)

	result, err := compiler.IncrementalBuild([]string{testFile})
	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestIncrementalCompiler_FullBuild(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldDir)

	srcDir := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	files := []string{"a.seen", "b.seen", "c.seen"}
	for _, file := range files {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, file), []byte(validSource), 0644))
	}

	compiler := NewIncrementalCompiler("en", nil)

	result, err := compiler.FullBuild()
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, compiler.cache, len(files))
}

func TestIncrementalCompiler_ClearCache(t *testing.T) {
	compiler := NewIncrementalCompiler("en", nil)

	compiler.cache["file1.seen"] = nil
	compiler.cache["file2.seen"] = nil
	require.Len(t, compiler.cache, 2)

	compiler.ClearCache()

	assert.Empty(t, compiler.cache)
}

func TestIncrementalCompiler_NonSeenFiles(t *testing.T) {
	compiler := NewIncrementalCompiler("en", nil)

	result, err := compiler.IncrementalBuild([]string{"test.css", "test.js"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.ChangedFiles, 2)
}

func TestCompileResult_Duration(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldDir)

	srcDir := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	testFile := filepath.Join(srcDir, "main.seen")
	require.NoError(t, os.WriteFile(testFile, []byte(validSource), 0644))

	compiler := NewIncrementalCompiler("en", nil)

	start := time.Now()
	result, _ := compiler.IncrementalBuild([]string{testFile})
	elapsed := time.Since(start)

	assert.NotZero(t, result.Duration)
	assert.LessOrEqual(t, result.Duration, elapsed+time.Millisecond)
}

func TestIncrementalCompiler_CompilationOrder(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldDir)

	srcDir := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	testFile := filepath.Join(srcDir, "main.seen")
	require.NoError(t, os.WriteFile(testFile, []byte(validSource), 0644))

	compiler := NewIncrementalCompiler("en", nil)
	_, err := compiler.IncrementalBuild([]string{testFile})
	require.NoError(t, err)

	order, ok := compiler.CompilationOrder()
	require.True(t, ok, "expected an acyclic compilation order")
	assert.Equal(t, []string{"main"}, order)
}

func BenchmarkIncrementalCompiler_Build(b *testing.B) {
	tmpDir := b.TempDir()
	oldDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldDir)

	srcDir := filepath.Join(tmpDir, "src")
	os.MkdirAll(srcDir, 0755)

	testFile := filepath.Join(srcDir, "main.seen")
	os.WriteFile(testFile, []byte(validSource), 0644)

	compiler := NewIncrementalCompiler("en", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		compiler.IncrementalBuild([]string{testFile})
	}
}
