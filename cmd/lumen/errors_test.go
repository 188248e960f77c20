package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aledsdavies/lumen/pkgs/ast"
)

func TestLineColFirstLine(t *testing.T) {
	line, col := lineCol("abc", 1)
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)
}

func TestLineColAfterNewline(t *testing.T) {
	source := "a = 1\nb = 2\n"
	// "b" sits at byte offset 6, the first byte of line 2.
	line, col := lineCol(source, 6)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}

func TestLineColMultipleNewlines(t *testing.T) {
	source := "1\n2\n3\n"
	line, col := lineCol(source, 4) // the "3"
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}

func TestSnippetUnderlinesSpan(t *testing.T) {
	source := "x = 1 + foo"
	rng := ast.WithRange(8, 11) // "foo"

	s := snippet(source, rng)
	assert.Contains(t, s, "x = 1 + foo")
	assert.Contains(t, s, "        ^^^")
}

func TestSnippetAbsentRangeIsEmpty(t *testing.T) {
	assert.Equal(t, "", snippet("anything", ast.Range{}))
}

func TestUsageErrorMessage(t *testing.T) {
	e := &usageError{message: "no file given"}
	assert.Equal(t, "no file given", e.Error())
}
