package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLitAndAnd(t *testing.T) {
	p := And(Lit("foo"), Lit("bar"))
	pos, _, _, ok := p.match("foobarbaz", 0, nil)
	require.True(t, ok)
	assert.Equal(t, 6, pos)

	_, _, _, ok = p.match("foobaz", 0, nil)
	assert.False(t, ok)
}

func TestOrTriesInOrder(t *testing.T) {
	p := Or(Lit("a"), Lit("ab"))
	pos, _, _, ok := p.match("ab", 0, nil)
	require.True(t, ok)
	assert.Equal(t, 1, pos, "ordered choice takes the first match, not the longest")
}

func TestRangeAndSet(t *testing.T) {
	digit := R(Range{'0', '9'})
	_, _, _, ok := digit.match("5", 0, nil)
	assert.True(t, ok)
	_, _, _, ok = digit.match("x", 0, nil)
	assert.False(t, ok)

	vowel := S("aeiou")
	_, _, _, ok = vowel.match("e", 0, nil)
	assert.True(t, ok)

	notVowel := NS("aeiou")
	_, _, _, ok = notVowel.match("e", 0, nil)
	assert.False(t, ok)
}

func TestRepAtLeastN(t *testing.T) {
	digits := Rep(R(Range{'0', '9'}), 1)
	pos, _, _, ok := digits.match("123abc", 0, nil)
	require.True(t, ok)
	assert.Equal(t, 3, pos)

	_, _, _, ok = digits.match("abc", 0, nil)
	assert.False(t, ok, "Rep(p, 1) requires at least one match")

	zeroOrMore := Rep(R(Range{'0', '9'}), 0)
	pos, _, _, ok = zeroOrMore.match("abc", 0, nil)
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestLookaheadAndOpt(t *testing.T) {
	_, _, _, ok := At(Lit("foo")).match("foobar", 0, nil)
	assert.True(t, ok)
	pos, _, _, _ := At(Lit("foo")).match("foobar", 0, nil)
	assert.Equal(t, 0, pos, "At never advances")

	_, _, _, ok = Not(Lit("foo")).match("bar", 0, nil)
	assert.True(t, ok)

	pos, _, _, ok = Opt(Lit("foo")).match("bar", 0, nil)
	assert.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestCapturesAndCC(t *testing.T) {
	p := Cap(Rep(R(Range{'a', 'z'}), 1))
	_, caps, _, ok := p.match("abc123", 0, nil)
	require.True(t, ok)
	require.Len(t, caps, 1)
	assert.Equal(t, "abc", caps[0])

	_, caps, _, ok = CC("x", "y").match("anything", 0, nil)
	require.True(t, ok)
	assert.Equal(t, []any{"x", "y"}, caps)

	_, caps, _, ok = Cpos.match("anything", 3, nil)
	require.True(t, ok)
	assert.Equal(t, []any{3}, caps)
}

func TestNonConsumesOneByteOnFailure(t *testing.T) {
	p := Non(Lit("x"))
	pos, _, _, ok := p.match("y", 0, nil)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	_, _, _, ok = p.match("x", 0, nil)
	assert.False(t, ok)
}
