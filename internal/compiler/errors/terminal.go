package errors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

var (
	severityInfoColor    = color.New(color.FgBlue, color.Bold)
	severityWarningColor = color.New(color.FgYellow, color.Bold)
	severityErrorColor   = color.New(color.FgRed, color.Bold)
	severityFatalColor   = color.New(color.FgRed, color.Bold, color.Underline)

	arrowColor      = color.New(color.FgCyan)
	lineNumberColor = color.New(color.FgBlue)
	gutterColor     = color.New(color.FgBlue)
	contextNumColor = color.New(color.FgHiBlack)
	highlightColor  = color.New(color.FgRed)
	boldColor       = color.New(color.Bold)
	helpColor       = color.New(color.FgCyan, color.Bold)
	confidenceColor = color.New(color.FgHiBlack)
	countErrorColor = color.New(color.FgRed)
	countWarnColor  = color.New(color.FgYellow)
)

// severityColor returns the fatih/color styling for a severity level.
func severityColor(severity Severity) *color.Color {
	switch severity {
	case Info:
		return severityInfoColor
	case Warning:
		return severityWarningColor
	case Error:
		return severityErrorColor
	case Fatal:
		return severityFatalColor
	default:
		return boldColor
	}
}

// FormatForTerminal formats a CompilerError for terminal output with colors.
func (e CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	sb.WriteString(severityColor(e.Severity).Sprint(strings.Title(e.Severity.String())))
	sb.WriteString(fmt.Sprintf(": %s\n", e.Message))

	sb.WriteString(fmt.Sprintf("  %s %s:%d:%d\n",
		arrowColor.Sprint("-->"),
		e.Location.File,
		e.Location.Line,
		e.Location.Column))

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatSourceContext(e.Context))
	}

	if e.Suggestion != nil {
		sb.WriteString(formatSuggestion(*e.Suggestion))
	}

	if len(e.RelatedErrors) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s\n", boldColor.Sprint("Related errors:")))
		for i, related := range e.RelatedErrors {
			sb.WriteString(fmt.Sprintf("  %d. %s:%d:%d: %s\n",
				i+1,
				related.Location.File,
				related.Location.Line,
				related.Location.Column,
				related.Message))
		}
	}

	return sb.String()
}

// formatSourceContext renders the source window around an error, with the
// offending line and its highlight marker picked out from the surrounding
// context lines.
func formatSourceContext(ctx ErrorContext) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("   %s\n", gutterColor.Sprint("|")))

	for i, line := range ctx.SourceLines {
		lineNum := i + 1
		isErrorLine := i == ctx.Highlight.Line

		if isErrorLine {
			sb.WriteString(fmt.Sprintf("%s %s %s\n",
				lineNumberColor.Sprintf("%2d", lineNum),
				gutterColor.Sprint("|"),
				line))

			sb.WriteString(fmt.Sprintf("   %s ", gutterColor.Sprint("|")))

			for j := 0; j < ctx.Highlight.Start; j++ {
				sb.WriteString(" ")
			}

			highlightLength := ctx.Highlight.End - ctx.Highlight.Start
			if highlightLength <= 0 {
				highlightLength = 1
			}
			sb.WriteString(highlightColor.Sprint(strings.Repeat("^", highlightLength)))
			sb.WriteString("\n")
		} else {
			sb.WriteString(fmt.Sprintf("%s %s %s\n",
				contextNumColor.Sprintf("%2d", lineNum),
				gutterColor.Sprint("|"),
				line))
		}
	}

	sb.WriteString(fmt.Sprintf("   %s\n", gutterColor.Sprint("|")))

	return sb.String()
}

// formatSuggestion renders an auto-fix suggestion beneath its error.
func formatSuggestion(suggestion FixSuggestion) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s %s\n", helpColor.Sprint("Help:"), suggestion.Description))

	if suggestion.NewCode != "" {
		sb.WriteString(fmt.Sprintf("%s\n", helpColor.Sprint("Suggestion:")))

		lines := strings.Split(suggestion.NewCode, "\n")
		for _, line := range lines {
			sb.WriteString(fmt.Sprintf("    %s\n", line))
		}

		if suggestion.Confidence < 1.0 {
			confidencePercent := int(suggestion.Confidence * 100)
			sb.WriteString(confidenceColor.Sprintf("(Confidence: %d%%)\n", confidencePercent))
		}
	}

	return sb.String()
}

// FormatSummary formats a one-line summary of error and warning counts.
func FormatSummary(errorCount, warningCount int) string {
	var parts []string

	if errorCount > 0 {
		parts = append(parts, countErrorColor.Sprintf("%d error(s)", errorCount))
	}

	if warningCount > 0 {
		parts = append(parts, countWarnColor.Sprintf("%d warning(s)", warningCount))
	}

	if len(parts) == 0 {
		return arrowColor.Sprint("No errors or warnings") + "\n"
	}

	return fmt.Sprintf("\n%s %s\n",
		boldColor.Sprint("Compilation failed with"),
		strings.Join(parts, " and "))
}

var ansiSequence = regexp.MustCompile("\x1b\\[[0-9;]*m")

// StripColors removes ANSI escape sequences from a string, regardless of
// which attributes produced them. Used by tests and examples.
func StripColors(s string) string {
	return ansiSequence.ReplaceAllString(s, "")
}
