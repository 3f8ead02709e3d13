package errors

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestError_Creation(t *testing.T) {
	loc := SourceLocation{File: "app.seen", Line: 15, Column: 7, Length: 9}

	err := NewCompilerError("typechecker", ErrTypeMismatch, "type mismatch in assignment", loc, Error)

	if err.Phase != "typechecker" {
		t.Errorf("expected phase 'typechecker', got '%s'", err.Phase)
	}
	if err.Code != ErrTypeMismatch {
		t.Errorf("expected code '%s', got '%s'", ErrTypeMismatch, err.Code)
	}
	if err.Severity != Error {
		t.Errorf("expected severity Error, got %v", err.Severity)
	}
	if err.Location.Line != 15 {
		t.Errorf("expected line 15, got %d", err.Location.Line)
	}
}

func TestError_TerminalFormat(t *testing.T) {
	// go test captures stdout, so fatih/color's isatty auto-detection would
	// otherwise suppress every code this test expects to find.
	original := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = original }()

	loc := SourceLocation{File: "app.seen", Line: 15, Column: 7, Length: 9}

	ctx := ErrorContext{
		SourceLines: []string{
			"fun f() {",
			"    val s = user?.Name ?: 0",
			"    return s",
			"}",
		},
		Highlight: Highlight{Line: 1, Start: 14, End: 18},
	}

	suggestion := FixSuggestion{
		Description: "elvis default must match the non-nullable branch type",
		OldCode:     "user?.Name ?: 0",
		NewCode:     `user?.Name ?: "Anonymous"`,
		Confidence:  0.8,
	}

	err := NewCompilerError("typechecker", ErrTypeMismatch, "elvis branches have incompatible types", loc, Error)
	err = err.WithContext(ctx).WithSuggestion(suggestion)

	output := err.FormatForTerminal()

	if !strings.Contains(output, "Error") {
		t.Error("output should contain 'Error'")
	}
	if !strings.Contains(output, "elvis branches have incompatible types") {
		t.Error("output should contain error message")
	}
	if !strings.Contains(output, "app.seen:15:7") {
		t.Error("output should contain location")
	}
	if !strings.Contains(output, "Help") {
		t.Error("output should contain suggestion")
	}
	if !strings.Contains(output, "\033[") {
		t.Error("output should contain ANSI color codes")
	}

	stripped := StripColors(output)
	if !strings.Contains(stripped, "Error") {
		t.Error("stripped output should still contain 'Error'")
	}
}

func TestError_JSONFormat(t *testing.T) {
	loc := SourceLocation{File: "app.seen", Line: 15, Column: 7, Length: 9}
	err := NewCompilerError("typechecker", ErrTypeMismatch, "type mismatch in assignment", loc, Error)

	jsonStr, jsonErr := err.FormatAsJSON()
	if jsonErr != nil {
		t.Fatalf("failed to format as JSON: %v", jsonErr)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result["phase"] != "typechecker" {
		t.Errorf("expected phase 'typechecker', got '%v'", result["phase"])
	}
	if result["code"] != ErrTypeMismatch {
		t.Errorf("expected code '%s', got '%v'", ErrTypeMismatch, result["code"])
	}
	if result["severity"] != "error" {
		t.Errorf("expected severity 'error', got '%v'", result["severity"])
	}

	location, ok := result["location"].(map[string]interface{})
	if !ok {
		t.Fatalf("location is not a map: %T %v", result["location"], result["location"])
	}
	if location["file"] != "app.seen" {
		t.Errorf("expected file 'app.seen', got '%v'", location["file"])
	}
	if location["line"] != float64(15) {
		t.Errorf("expected line 15, got %v", location["line"])
	}
}

func TestError_ContextExtraction(t *testing.T) {
	sourceContent := `fun main() {
    val a = 2 + 3 * 4
    val s = user?.Name ?: "Anonymous"
    println(s)
}
`

	loc := SourceLocation{File: "app.seen", Line: 3, Column: 13, Length: 4}

	ctx := extractSourceContext(loc, sourceContent)

	if len(ctx.SourceLines) == 0 {
		t.Fatal("expected source lines, got none")
	}
	if len(ctx.SourceLines) > 7 {
		t.Errorf("expected at most 7 lines, got %d", len(ctx.SourceLines))
	}
	if ctx.Highlight.Line < 0 || ctx.Highlight.Line >= len(ctx.SourceLines) {
		t.Errorf("highlight line %d is out of range", ctx.Highlight.Line)
	}

	errorLine := ctx.SourceLines[ctx.Highlight.Line]
	if !strings.Contains(errorLine, "user") {
		t.Errorf("expected error line to contain 'user', got '%s'", errorLine)
	}
}

func TestError_AutoFixSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{"type mismatch", ErrTypeMismatch, false},
		{"undefined identifier", ErrUndefinedIdentifier, true},
		{"expected colon", ErrExpectedColon, false},
		{"unterminated string", ErrUnterminatedString, true},
		{"unknown error", "E999", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := SourceLocation{File: "test.seen", Line: 1, Column: 1}
			err := NewCompilerError("parser", tt.code, "test error", loc, Error)
			err = err.WithContext(ErrorContext{
				SourceLines: []string{"val x = 1"},
				Highlight:   Highlight{Line: 0, Start: 0, End: 3},
			})

			suggestion := suggestFix(err)

			if tt.expected && suggestion == nil {
				t.Error("expected a suggestion but got none")
			}
			if !tt.expected && suggestion != nil {
				t.Error("expected no suggestion but got one")
			}
			if suggestion != nil {
				if suggestion.Description == "" {
					t.Error("suggestion should have a description")
				}
				if suggestion.Confidence < 0 || suggestion.Confidence > 1 {
					t.Errorf("confidence should be 0-1, got %f", suggestion.Confidence)
				}
			}
		})
	}
}

func TestRecovery_CollectsAllErrors(t *testing.T) {
	recovery := NewErrorRecovery()

	for i := 1; i <= 5; i++ {
		loc := SourceLocation{File: "test.seen", Line: i, Column: 1}
		err := NewCompilerError("parser", ErrUnexpectedToken, "unexpected token", loc, Error)
		recovery.Recover(err)
	}

	if recovery.ErrorCount() != 5 {
		t.Errorf("expected 5 errors, got %d", recovery.ErrorCount())
	}
	if !recovery.HasErrors() {
		t.Error("expected HasErrors() to be true")
	}
}

func TestRecovery_SummaryCount(t *testing.T) {
	recovery := NewErrorRecovery()

	for i := 1; i <= 3; i++ {
		loc := SourceLocation{File: "test.seen", Line: i, Column: 1}
		recovery.Recover(NewCompilerError("parser", ErrUnexpectedToken, "error", loc, Error))
	}
	for i := 4; i <= 6; i++ {
		loc := SourceLocation{File: "test.seen", Line: i, Column: 1}
		recovery.Recover(NewCompilerError("parser", ErrUnexpectedToken, "warning", loc, Warning))
	}

	if recovery.ErrorCount() != 3 {
		t.Errorf("expected 3 errors, got %d", recovery.ErrorCount())
	}
	if recovery.WarningCount() != 3 {
		t.Errorf("expected 3 warnings, got %d", recovery.WarningCount())
	}
	if recovery.TotalCount() != 6 {
		t.Errorf("expected 6 total, got %d", recovery.TotalCount())
	}

	summary := recovery.Summary()
	if !strings.Contains(summary, "3 error(s)") {
		t.Errorf("summary should mention 3 errors: %s", summary)
	}
	if !strings.Contains(summary, "3 warning(s)") {
		t.Errorf("summary should mention 3 warnings: %s", summary)
	}
}

func TestRecovery_MaxErrors(t *testing.T) {
	recovery := NewErrorRecoveryWithMax(10)

	for i := 1; i <= 15; i++ {
		loc := SourceLocation{File: "test.seen", Line: i, Column: 1}
		recovery.Recover(NewCompilerError("parser", ErrUnexpectedToken, "error", loc, Error))
	}

	if recovery.ErrorCount() != 10 {
		t.Errorf("expected 10 errors (max), got %d", recovery.ErrorCount())
	}
}

func TestRecovery_TerminalFormat(t *testing.T) {
	recovery := NewErrorRecovery()

	for i := 1; i <= 2; i++ {
		loc := SourceLocation{File: "test.seen", Line: i, Column: 1}
		recovery.Recover(NewCompilerError("parser", ErrUnexpectedToken, "unexpected token", loc, Error))
	}

	output := recovery.FormatForTerminal()
	if !strings.Contains(output, "Error") {
		t.Error("output should contain 'Error'")
	}
	if !strings.Contains(output, "2 error(s)") {
		t.Error("output should contain error count")
	}
}

func TestRecovery_JSONFormat(t *testing.T) {
	recovery := NewErrorRecovery()

	loc1 := SourceLocation{File: "test.seen", Line: 1, Column: 1}
	recovery.Recover(NewCompilerError("parser", ErrUnexpectedToken, "error 1", loc1, Error))

	loc2 := SourceLocation{File: "test.seen", Line: 2, Column: 1}
	recovery.Recover(NewCompilerError("parser", ErrUnexpectedToken, "warning 1", loc2, Warning))

	jsonStr, jsonErr := recovery.FormatAsJSON()
	if jsonErr != nil {
		t.Fatalf("failed to format as JSON: %v", jsonErr)
	}

	var result JSONOutput
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Status != "error" {
		t.Errorf("expected status 'error', got '%s'", result.Status)
	}
	if result.Summary.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", result.Summary.ErrorCount)
	}
	if result.Summary.WarningCount != 1 {
		t.Errorf("expected 1 warning, got %d", result.Summary.WarningCount)
	}
}

// TestErrorHandling_EndToEnd mirrors a small multi-stage compile with
// errors at several phases, checked through both formatters.
func TestErrorHandling_EndToEnd(t *testing.T) {
	sourceContent := `fun main() {
    val a = 2 +
    val b: Int = "oops"
    val s = user?.Name ?: "Anonymous"
    return undefinedThing
}
`

	recovery := NewErrorRecovery()

	loc1 := SourceLocation{File: "app.seen", Line: 2, Column: 16, Length: 1}
	err1 := NewCompilerError("parser", ErrInvalidExpression, "expected expression after '+'", loc1, Error)
	err1 = EnrichError(err1, sourceContent)
	recovery.Recover(err1)

	loc2 := SourceLocation{File: "app.seen", Line: 3, Column: 18, Length: 6}
	err2 := NewCompilerError("typechecker", ErrTypeMismatch, "expected Int, found Str", loc2, Error)
	err2 = EnrichError(err2, sourceContent)
	recovery.Recover(err2)

	loc3 := SourceLocation{File: "app.seen", Line: 5, Column: 12, Length: 14}
	err3 := NewCompilerError("typechecker", ErrUndefinedIdentifier, "undefined identifier 'undefinedThing'", loc3, Error)
	err3 = EnrichError(err3, sourceContent)
	recovery.Recover(err3)

	loc4 := SourceLocation{File: "app.seen", Line: 4, Column: 13, Length: 4}
	warn := NewCompilerError("typechecker", ErrNullabilityViolation, "narrowing discarded at join point", loc4, Warning)
	warn = EnrichError(warn, sourceContent)
	recovery.Recover(warn)

	if recovery.ErrorCount() != 3 {
		t.Errorf("expected 3 errors, got %d", recovery.ErrorCount())
	}
	if recovery.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", recovery.WarningCount())
	}

	terminalOutput := recovery.FormatForTerminal()
	if !strings.Contains(terminalOutput, "3 error(s)") {
		t.Error("terminal output should show 3 errors")
	}
	if !strings.Contains(terminalOutput, "1 warning(s)") {
		t.Error("terminal output should show 1 warning")
	}

	jsonOutput, err := recovery.FormatAsJSON()
	if err != nil {
		t.Fatalf("failed to format as JSON: %v", err)
	}

	var result JSONOutput
	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Summary.ErrorCount != 3 {
		t.Errorf("expected 3 errors in JSON, got %d", result.Summary.ErrorCount)
	}
	if result.Summary.WarningCount != 1 {
		t.Errorf("expected 1 warning in JSON, got %d", result.Summary.WarningCount)
	}

	suggestionsCount := 0
	for _, e := range recovery.GetErrors() {
		if e.Suggestion != nil {
			suggestionsCount++
		}
	}
	if suggestionsCount < 1 {
		t.Errorf("expected at least 1 error with a suggestion, got %d", suggestionsCount)
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{Info, "info"},
		{Warning, "warning"},
		{Error, "error"},
		{Fatal, "fatal"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.severity.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.severity.String())
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{ErrUnterminatedString, "E001"},
		{ErrUnexpectedToken, "E100"},
		{ErrTypeMismatch, "E200"},
		{ErrIRMalformedBlock, "E300"},
		{ErrBackendUnknownTarget, "E400"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.code)
			}
			if msg := GetErrorMessage(tt.code); msg == "unknown error" {
				t.Errorf("no message defined for %s", tt.code)
			}
			if phase := GetPhaseForCode(tt.code); phase == "unknown" {
				t.Errorf("could not determine phase for %s", tt.code)
			}
		})
	}
}

func TestGetPhaseForCode(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"E001", "lexer"},
		{"E050", "lexer"},
		{"E100", "parser"},
		{"E150", "parser"},
		{"E200", "type_checker"},
		{"E250", "type_checker"},
		{"E300", "ir"},
		{"E350", "ir"},
		{"E400", "backend"},
		{"E450", "backend"},
		{"E999", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if phase := GetPhaseForCode(tt.code); phase != tt.expected {
				t.Errorf("expected phase '%s' for code %s, got '%s'", tt.expected, tt.code, phase)
			}
		})
	}
}

func TestStripColors(t *testing.T) {
	input := "\033[31mError\033[0m: \033[1mBold text\033[0m"
	expected := "Error: Bold text"

	if result := StripColors(input); result != expected {
		t.Errorf("expected '%s', got '%s'", expected, result)
	}
}

func TestRelatedErrors(t *testing.T) {
	loc1 := SourceLocation{File: "app.seen", Line: 1, Column: 1}
	err1 := NewCompilerError("parser", ErrTypeMismatch, "main error", loc1, Error)

	loc2 := SourceLocation{File: "app.seen", Line: 2, Column: 1}
	err2 := NewCompilerError("parser", ErrTypeMismatch, "related error", loc2, Error)

	err1 = err1.WithRelatedError(err2)

	if len(err1.RelatedErrors) != 1 {
		t.Errorf("expected 1 related error, got %d", len(err1.RelatedErrors))
	}
	if err1.RelatedErrors[0].Message != "related error" {
		t.Errorf("related error message mismatch")
	}
}
