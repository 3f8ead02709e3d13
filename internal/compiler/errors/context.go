package errors

import (
	"os"
	"strings"
)

// contextLines is how many lines of source surround a diagnostic's
// offending line in both directions, matching the window terminal.go
// renders around the highlighted span.
const contextLines = 3

// EnrichError adds source context and suggestions to an error
func EnrichError(err CompilerError, sourceContent string) CompilerError {
	// Add source context
	err = err.WithContext(extractSourceContext(err.Location, sourceContent))

	// Try to add auto-fix suggestion
	if suggestion := suggestFix(err); suggestion != nil {
		err = err.WithSuggestion(*suggestion)
	}

	return err
}

// extractSourceContext extracts the contextLines window before and after
// the offending line, plus the highlight span within it.
func extractSourceContext(location SourceLocation, sourceContent string) ErrorContext {
	lines := strings.Split(sourceContent, "\n")

	if location.Line < 1 || location.Line > len(lines) {
		return ErrorContext{}
	}

	errorLineIndex := location.Line - 1 // Convert to 0-based
	startLine := max(0, errorLineIndex-contextLines)
	endLine := min(len(lines), errorLineIndex+contextLines+1)

	windowLines := make([]string, 0, endLine-startLine)
	for i := startLine; i < endLine; i++ {
		windowLines = append(windowLines, lines[i])
	}

	errorLineInContext := errorLineIndex - startLine

	start := location.Column - 1 // Convert to 0-based
	end := start + location.Length
	if location.Length == 0 {
		end = start + 1
	}

	return ErrorContext{
		SourceLines: windowLines,
		Highlight: Highlight{
			Line:  errorLineInContext,
			Start: start,
			End:   end,
		},
	}
}

// ReadSourceFile reads a source file and returns its contents
func ReadSourceFile(filepath string) (string, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// EnrichErrorFromFile reads the source file and enriches the error
func EnrichErrorFromFile(err CompilerError) CompilerError {
	content, readErr := ReadSourceFile(err.Location.File)
	if readErr != nil {
		// If we can't read the file, return the error as-is
		return err
	}

	return EnrichError(err, content)
}

// Helper functions
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
