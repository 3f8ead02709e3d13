package errors

import (
	"strings"
)

// suggestFix generates an auto-fix suggestion based on error code.
func suggestFix(err CompilerError) *FixSuggestion {
	switch err.Code {
	case ErrExpectedBrace:
		return suggestBrace(err)
	case ErrExpectedParen:
		return suggestParen(err)
	case ErrExpectedBracket:
		return suggestBracket(err)
	case ErrUnmatchedBrace, ErrUnmatchedParen, ErrUnmatchedBracket:
		return suggestUnmatchedDelimiter(err)
	case ErrUnterminatedString:
		return suggestCloseString(err)
	case ErrInvalidEscape:
		return suggestValidEscape(err)
	case ErrInvalidInterpolation:
		return suggestInterpolation(err)
	case ErrDuplicateBinding, ErrDuplicateTypeBinding:
		return suggestRenameDuplicate(err)
	case ErrTypeMismatch:
		return suggestTypeFix(err)
	case ErrNullabilityViolation:
		return suggestNullabilityFix(err)
	case ErrArityMismatch:
		return suggestArityFix(err)
	case ErrUndefinedIdentifier:
		return suggestUndefinedIdentifier(err)
	default:
		return nil
	}
}

// suggestBrace suggests a missing brace.
func suggestBrace(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "add the missing brace",
		OldCode:     "",
		NewCode:     "add '{' or '}' to close the block",
		Confidence:  0.75,
	}
}

// suggestParen suggests a missing parenthesis.
func suggestParen(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "check parenthesis balance",
		OldCode:     "",
		NewCode:     "ensure every '(' has a matching ')'",
		Confidence:  0.75,
	}
}

// suggestBracket suggests a missing bracket.
func suggestBracket(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "check bracket balance",
		OldCode:     "",
		NewCode:     "ensure every '[' has a matching ']'",
		Confidence:  0.75,
	}
}

// suggestUnmatchedDelimiter covers all three delimiter kinds with one
// generic recovery hint, since the parser's synchronisation point is the
// same regardless of which delimiter triggered it.
func suggestUnmatchedDelimiter(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "the parser resynchronised at the next statement or item boundary",
		OldCode:     "",
		NewCode:     "balance delimiters so each block closes where intended",
		Confidence:  0.6,
	}
}

// suggestCloseString suggests closing an unterminated string literal.
func suggestCloseString(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return nil
	}
	errorLine := err.Context.SourceLines[err.Context.Highlight.Line]
	return &FixSuggestion{
		Description: "add the closing quote",
		OldCode:     strings.TrimSpace(errorLine),
		NewCode:     strings.TrimSpace(errorLine) + `"`,
		Confidence:  0.9,
	}
}

// suggestValidEscape lists the recognised escape sequences.
func suggestValidEscape(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "use a recognised escape sequence",
		OldCode:     "invalid escape",
		NewCode:     `\n \t \r \\ \" \' \{ \}`,
		Confidence:  0.85,
	}
}

// suggestInterpolation covers the empty-interpolation and brace-escaping
// rules from the lexer's string-interpolation handling.
func suggestInterpolation(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "interpolation braces must contain an expression; use {{ and }} for literal braces",
		OldCode:     `"{}"`,
		NewCode:     `"{{expr}}"`,
		Confidence:  0.7,
	}
}

// suggestRenameDuplicate suggests renaming the later of two duplicate
// bindings in the same scope.
func suggestRenameDuplicate(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "rename one of the conflicting bindings",
		OldCode:     "duplicate name in this scope",
		NewCode:     "use a distinct identifier",
		Confidence:  0.65,
	}
}

// suggestTypeFix gives a generic nudge toward the expected type named in
// the error message.
func suggestTypeFix(err CompilerError) *FixSuggestion {
	msg := strings.ToLower(err.Message)
	if strings.Contains(msg, "expected") && strings.Contains(msg, "found") {
		return &FixSuggestion{
			Description: "the expression's type does not match what this position expects",
			OldCode:     "",
			NewCode:     "coerce or change the expression to match the expected type",
			Confidence:  0.6,
		}
	}
	return nil
}

// suggestNullabilityFix nudges toward force-unwrap (!!) or elvis (?:) for
// a nullable value used where a non-nullable one is required.
func suggestNullabilityFix(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "a nullable value cannot flow into a non-nullable slot directly",
		OldCode:     "x",
		NewCode:     "x!! (force-unwrap, traps on null)  or  x ?: default",
		Confidence:  0.7,
	}
}

// suggestArityFix flags a call-site argument-count mismatch.
func suggestArityFix(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "the call does not supply the number of arguments the function declares",
		OldCode:     "",
		NewCode:     "match the declared parameter list",
		Confidence:  0.7,
	}
}

// suggestUndefinedIdentifier hints at the common causes of an unresolved
// name: a typo, or a missing forward declaration collected in pass one.
func suggestUndefinedIdentifier(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "no binding with this name is visible in the current scope",
		OldCode:     "",
		NewCode:     "check spelling, or declare it before use",
		Confidence:  0.55,
	}
}
