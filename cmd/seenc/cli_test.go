package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBinary     string
	testBinaryOnce sync.Once
	testBinaryErr  error
)

// buildTestBinary builds the seenc binary once for all tests.
func buildTestBinary() (string, error) {
	testBinaryOnce.Do(func() {
		tmpBinary := filepath.Join(os.TempDir(), "seenc-test")
		cmd := exec.Command("go", "build", "-o", tmpBinary, ".")
		if out, err := cmd.CombinedOutput(); err != nil {
			testBinaryErr = err
			testBinary = string(out)
			return
		}
		testBinary = tmpBinary
	})

	if testBinaryErr != nil {
		return "", testBinaryErr
	}
	return testBinary, nil
}

func TestVersionCommand(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	cmd := exec.Command(binary, "version")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "output: %s", output)

	for _, exp := range []string{"seenc version:", "Git commit:", "Build date:", "Go version:"} {
		assert.Contains(t, string(output), exp)
	}
}

func TestCheckCommandValid(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "main.seen")
	os.WriteFile(file, []byte("fun main() { val x = 1 }"), 0644)

	cmd := exec.Command(binary, "check", file)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "no errors")
}

func TestCheckCommandSyntaxError(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "bad.seen")
	os.WriteFile(file, []byte("fun main() { val x = }"), 0644)

	cmd := exec.Command(binary, "check", file)
	output, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "expected check to fail with a non-zero exit, got err=%v output=%s", err, output)
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestCheckCommandJSONOutput(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "bad.seen")
	os.WriteFile(file, []byte("fun main() { val x = }"), 0644)

	cmd := exec.Command(binary, "check", file, "--json")
	output, _ := cmd.CombinedOutput()

	assert.Contains(t, string(output), `"status"`)
	assert.Contains(t, string(output), `"errors"`)
	assert.Contains(t, string(output), `"summary"`)
}

func TestCheckCommandMissingFile(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	cmd := exec.Command(binary, "check", "does-not-exist.seen")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read")
}

func TestBuildCommandEmitsLLVMIR(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "main.seen")
	os.WriteFile(file, []byte("fun main() { val x = 1 }"), 0644)

	cmd := exec.Command(binary, "build", file)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "define")
}

func TestBuildCommandUnknownTarget(t *testing.T) {
	binary, err := buildTestBinary()
	require.NoError(t, err)

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "main.seen")
	os.WriteFile(file, []byte("fun main() { val x = 1 }"), 0644)

	cmd := exec.Command(binary, "build", file, "--target", "bogus-target")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "unsupported target triple")
}
