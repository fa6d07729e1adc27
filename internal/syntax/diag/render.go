package diag

import (
	"strconv"
	"strings"

	"go.followtheprocess.codes/haml/internal/syntax"
)

// SGR sequences used in rendered diagnostics. Tooling parses this output
// so these are fixed rather than left to terminal colour detection.
const (
	sgrBold   = "\x1B[1m"
	sgrRed    = "\x1B[31m"
	sgrDim    = "\x1B[2m"
	sgrPurple = "\x1B[34m"
	sgrGreen  = "\x1B[32m"
	sgrYellow = "\x1B[33m"
	sgrReset  = "\x1B[0m"
)

const (
	commonIndent = "  " // Every rendered line starts with this
	minIndent    = 3    // Minimum width of the gutter
)

// Bold wraps s in the bold SGR sequence.
func Bold(s string) string {
	return sgrBold + s + sgrReset
}

// Red wraps s in the red SGR sequence.
func Red(s string) string {
	return sgrRed + s + sgrReset
}

// Green wraps s in the green SGR sequence.
func Green(s string) string {
	return sgrGreen + s + sgrReset
}

// Yellow wraps s in the yellow SGR sequence.
func Yellow(s string) string {
	return sgrYellow + s + sgrReset
}

// Dim wraps s in the dim SGR sequence.
func Dim(s string) string {
	return sgrDim + s + sgrReset
}

// Purple wraps s in the pointer highlight SGR sequence.
func Purple(s string) string {
	return sgrPurple + s + sgrReset
}

// Render formats d as the multi line block shown to users on the command line.
//
// A diagnostic with a span and a span message renders as:
//
//	  error: <message>
//	    <path>:<line>:<col>
//	     |
//	   <line> | <source line>
//	     |    ---- <span message>
//
// A diagnostic without one renders as just the first line and the path of file.
// There is no trailing newline. Warnings and info diagnostics are labelled
// with their level in yellow rather than a red "error".
func Render(file syntax.SourceFile, d Diagnostic) string {
	label := Red("error")
	if d.Level != LevelError {
		label = Yellow(d.Level.String())
	}

	errLine := commonIndent + Bold(label) + Bold(": "+d.Message)

	if !d.HasSpan() || d.SpanMessage == "" {
		return errLine + "\n" + commonIndent + Dim("  ") + file.Path
	}

	lineNumber, lineStart, line := d.Span.Line()
	col := d.Span.Start - lineStart + 1

	number := strconv.Itoa(lineNumber)
	restIndent := strings.Repeat(" ", max(len(number)+2, minIndent))

	fileLine := commonIndent + Dim("  ") + file.Path + ":" + number + ":" + strconv.Itoa(col)
	gutterLine := Dim(commonIndent + restIndent + "|")
	codeLine := commonIndent + " " + number + " " + Dim("|") + " " + line
	pointerLine := commonIndent + restIndent + Dim("|") + strings.Repeat(" ", col) +
		Bold(Purple(strings.Repeat("-", d.Span.Len()))) + " " + Bold(Purple(d.SpanMessage))

	return strings.Join([]string{errLine, fileLine, gutterLine, codeLine, pointerLine}, "\n")
}
