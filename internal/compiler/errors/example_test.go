package errors_test

import (
	"fmt"

	"github.com/seen-lang/seenc/internal/compiler/errors"
)

// ExampleCompilerError_FormatForTerminal demonstrates terminal formatting
func ExampleCompilerError_FormatForTerminal() {
	sourceContent := `fun main() {
    val s = user?.Name ?: 0
    println(s)
}
`

	loc := errors.SourceLocation{
		File:   "app.seen",
		Line:   2,
		Column: 14,
		Length: 4,
	}

	err := errors.NewCompilerError(
		"typechecker",
		errors.ErrTypeMismatch,
		"elvis branches have incompatible types - expected Str, got Int",
		loc,
		errors.Error,
	)

	// Enrich with context
	err = errors.EnrichError(err, sourceContent)

	// Print to terminal (colors stripped for example output)
	output := err.FormatForTerminal()
	fmt.Println(errors.StripColors(output))

	// Output includes error, location, and context
}

// ExampleErrorRecovery demonstrates collecting multiple errors
func ExampleErrorRecovery() {
	recovery := errors.NewErrorRecovery()

	// Collect multiple errors
	for i := 1; i <= 3; i++ {
		loc := errors.SourceLocation{
			File:   "app.seen",
			Line:   i,
			Column: 1,
		}
		err := errors.NewCompilerError(
			"parser",
			errors.ErrUnexpectedToken,
			fmt.Sprintf("Unexpected token at line %d", i),
			loc,
			errors.Error,
		)
		recovery.Recover(err)
	}

	fmt.Printf("Collected %d errors\n", recovery.ErrorCount())
	fmt.Println(recovery.Summary())

	// Output:
	// Collected 3 errors
	// Found 3 error(s)
}

// ExampleFormatErrorsAsJSON demonstrates JSON output
func ExampleFormatErrorsAsJSON() {
	loc := errors.SourceLocation{
		File:   "app.seen",
		Line:   5,
		Column: 10,
	}

	err := errors.NewCompilerError(
		"typechecker",
		errors.ErrNullabilityViolation,
		"nullable value used where non-nullable was expected",
		loc,
		errors.Error,
	)

	jsonOutput, _ := err.FormatAsJSON()
	fmt.Println("JSON output available")
	_ = jsonOutput // Use the output

	// Output:
	// JSON output available
}
