package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/eval"
	lerrors "github.com/aledsdavies/lumen/pkgs/errors"
)

// usageError is a CLI-level failure that never reached the parser or
// evaluator at all (bad flags, unreadable file) — reported plainly, with no
// source snippet to attach.
type usageError struct {
	message string
}

func (e *usageError) Error() string { return e.message }

// formatError prints err to w, coloring the "Error:" header. A *eval.Fault
// carrying source provenance gets a file:line:col prefix and caret snippet
// from source; anything else (a *lerrors.LumenError or a bare usageError)
// is reported plainly.
func formatError(w io.Writer, err error, path, source string, useColor bool) {
	if err == nil {
		return
	}

	var fault *eval.Fault
	if f, ok := err.(*eval.Fault); ok {
		fault = f
	}
	if fault == nil {
		fmt.Fprintln(w, colorize("Error: ", colorRed, useColor)+err.Error())
		return
	}

	result, pending := fault.Eval.GetResult()
	if pending || result == nil {
		fmt.Fprintln(w, colorize("Error: ", colorRed, useColor)+fault.Name)
		return
	}

	node := result.GetAST()
	if _, isAssert := node.(*ast.SAssert); isAssert {
		printDiagnostic(w, path, source, node.Range(), "Assertion failed", useColor)
		printSubResults(w, path, source, result, useColor, 1)
		return
	}

	message := "Error: " + fault.Name
	if fault.Hint != "" {
		message += fmt.Sprintf(" (did you mean %q?)", fault.Hint)
	}
	printDiagnostic(w, path, source, node.Range(), message, useColor)
}

// printSubResults recursively displays a failing assertion's operand
// sub-results (spec.md §7: "recursively displays sub-results of the failing
// condition ... to aid debugging"), indented one level per nesting depth.
func printSubResults(w io.Writer, path, source string, parent *eval.Result, useColor bool, depth int) {
	for _, child := range parent.GetChildren() {
		indent := strings.Repeat("  ", depth)
		rng := child.GetAST().Range()
		loc := locationPrefix(path, source, rng)
		valueText := child.Value().String()
		if child.IsFault() {
			valueText = "fault: " + child.ErrorName()
		}
		fmt.Fprintln(w, indent+colorize(loc, colorGray, useColor)+" "+valueText)
		printSubResults(w, path, source, child, useColor, depth+1)
	}
}

// printDiagnostic writes one file:line:col-prefixed message followed by a
// caret-underlined source snippet, Rust/Clang-style.
func printDiagnostic(w io.Writer, path, source string, rng ast.Range, message string, useColor bool) {
	loc := locationPrefix(path, source, rng)
	fmt.Fprintln(w, colorize(loc+": ", colorRed, useColor)+message)
	if s := snippet(source, rng); s != "" {
		fmt.Fprintln(w, colorize(s, colorGray, useColor))
	}
}

func locationPrefix(path, source string, rng ast.Range) string {
	if !rng.Present {
		return path
	}
	line, col := lineCol(source, rng.Pos)
	return fmt.Sprintf("%s:%d:%d", path, line, col)
}

// lineCol converts a byte offset into a 1-based (line, col) pair by
// scanning source up to pos: ast.Range is a byte span, not a line/col
// pair, so every diagnostic site re-derives it this way.
func lineCol(source string, pos int) (line, col int) {
	line, col = 1, 1
	if pos > len(source) {
		pos = len(source)
	}
	for _, r := range source[:pos] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// snippet renders the source line containing rng.Pos with a caret
// underline beneath the faulting span.
func snippet(source string, rng ast.Range) string {
	if !rng.Present {
		return ""
	}
	lineStart := strings.LastIndexByte(source[:rng.Pos], '\n') + 1
	lineEnd := len(source)
	if idx := strings.IndexByte(source[rng.Pos:], '\n'); idx >= 0 {
		lineEnd = rng.Pos + idx
	}
	lineText := source[lineStart:lineEnd]

	end := rng.End
	if end > lineEnd {
		end = lineEnd
	}
	width := end - rng.Pos
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	b.WriteString(lineText)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", rng.Pos-lineStart))
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// fromLumenError reports whether err is a host-facing *lerrors.LumenError,
// for callers deciding whether to print a snippet at all.
func fromLumenError(err error) (*lerrors.LumenError, bool) {
	le, ok := err.(*lerrors.LumenError)
	return le, ok
}
