// Package errors renders plc's two diagnostic shapes — the positioned
// CompilerError produced by the lexer/parser, and the semantic analyzer's
// flat string list recovered into the same shape via FromStringErrors — as
// source-anchored text with a caret under the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/plc-lang/plc/internal/lexer"
)

// CompilerError is a single diagnostic anchored to a position in source.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// NewCompilerError builds a CompilerError for message at pos within source.
func NewCompilerError(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

// Error satisfies the error interface with the single-line rendering.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with just its own source line and a caret.
func (e *CompilerError) Format(color bool) string {
	return e.FormatWithContext(0, color)
}

// FormatWithContext renders the error with contextLines of surrounding
// source on each side of the offending line, the error line itself
// highlighted and caret-marked. contextLines of 0 degrades to the same
// single-line rendering Format produces.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder
	sb.WriteString(e.header())

	lines, startLine := e.sourceWindow(contextLines)
	for i, line := range lines {
		lineNum := startLine + i
		prefix := fmt.Sprintf("%4d | ", lineNum)
		if lineNum == e.Pos.Line {
			writeSourceLine(&sb, prefix, line, contextLines > 0, color)
			writeCaret(&sb, len(prefix)+e.Pos.Column-1, color)
			continue
		}
		writeSourceLine(&sb, prefix, line, false, color)
	}
	if contextLines > 0 && len(lines) > 0 {
		sb.WriteString("\n")
	}

	writeBold(&sb, e.Message, color)
	return sb.String()
}

// header is the "Error in FILE:LINE:COL" (or "Error at line LINE:COL" when the
// error has no associated file) line every rendering starts with.
func (e *CompilerError) header() string {
	if e.File != "" {
		return fmt.Sprintf("Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
}

// sourceWindow returns the source lines spanning contextLines before and
// after e.Pos.Line (clamped to the source's extent), and the 1-indexed line
// number the first returned line carries. Returns (nil, 0) when the source
// is empty or the position falls outside it.
func (e *CompilerError) sourceWindow(contextLines int) ([]string, int) {
	if e.Source == "" || e.Pos.Line < 1 {
		return nil, 0
	}
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) {
		return nil, 0
	}

	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end], start
}

func writeSourceLine(sb *strings.Builder, prefix, line string, dim, color bool) {
	if color && dim {
		sb.WriteString("\033[2m")
	}
	sb.WriteString(prefix)
	sb.WriteString(line)
	if color && dim {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")
}

func writeCaret(sb *strings.Builder, column int, color bool) {
	sb.WriteString(strings.Repeat(" ", column))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")
}

func writeBold(sb *strings.Builder, text string, color bool) {
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(text)
	if color {
		sb.WriteString("\033[0m")
	}
}

// FormatErrors renders a batch of errors: a lone error gets just its own
// Format, two or more get a summary header and an "[Error N of M]" label
// per entry.
func FormatErrors(errs []*CompilerError, color bool) string {
	return formatBatch(errs, 0, color)
}

// FormatErrorsWithContext is FormatErrors with each error rendered through
// FormatWithContext instead of Format.
func FormatErrorsWithContext(errs []*CompilerError, contextLines int, color bool) string {
	return formatBatch(errs, contextLines, color)
}

func formatBatch(errs []*CompilerError, contextLines int, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].FormatWithContext(contextLines, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.FormatWithContext(contextLines, color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// FromStringErrors lifts the semantic analyzer's plain-string diagnostics
// (Analyzer.Errors, which carry no structured position) into CompilerErrors
// so the CLI can render semantic failures through the same path as
// lexical/syntactic ones. A trailing "at LINE:COLUMN" in the message, if
// present, is parsed into Pos; no current analyzer message has that suffix,
// so in practice these degrade to position-less diagnostics that print the
// header (at line 0, column 0) and their own text, with no source line or
// caret.
func FromStringErrors(messages []string, source, file string) []*CompilerError {
	errs := make([]*CompilerError, 0, len(messages))
	for _, msg := range messages {
		pos, text := parseErrorString(msg)
		errs = append(errs, NewCompilerError(pos, text, source, file))
	}
	return errs
}

// parseErrorString splits a trailing " at LINE:COLUMN" off msg, returning
// the parsed position and the message with that suffix removed. Returns a
// zero Position and the message unchanged when no such suffix parses.
func parseErrorString(msg string) (lexer.Position, string) {
	atIndex := strings.LastIndex(msg, " at ")
	if atIndex == -1 {
		return lexer.Position{}, msg
	}

	var line, column int
	if _, err := fmt.Sscanf(msg[atIndex+4:], "%d:%d", &line, &column); err != nil {
		return lexer.Position{}, msg
	}
	return lexer.Position{Line: line, Column: column}, strings.TrimSpace(msg[:atIndex])
}
