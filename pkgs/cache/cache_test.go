package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/il"
)

func TestParseCacheMemoizesBySource(t *testing.T) {
	c := NewParseCache()

	body1, oob1 := c.Parse("1 + 2")
	require.Empty(t, oob1)
	body2, oob2 := c.Parse("1 + 2")
	require.Empty(t, oob2)

	assert.Same(t, body1, body2, "identical source must hit the cached parse, not re-parse")
}

func TestParseCacheDistinguishesSource(t *testing.T) {
	c := NewParseCache()

	bodyA, _ := c.Parse("1")
	bodyB, _ := c.Parse("2")

	assert.NotSame(t, bodyA, bodyB)
}

func TestKeyOfIsDeterministic(t *testing.T) {
	assert.Equal(t, KeyOf("abc"), KeyOf("abc"))
	assert.NotEqual(t, KeyOf("abc"), KeyOf("abd"))
}

func TestEncodeDecodeILRoundTrip(t *testing.T) {
	node := &il.App{
		Fn: &il.Fun{Body: &il.Arg{Ups: 0, Pos: 0}},
		Args: []il.Node{
			&il.Tag{AST: &ast.Number{}, Inner: &il.Val{Type: il.Number, Arg: "1"}},
		},
	}

	data, err := EncodeIL(node)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := DecodeIL(data)
	require.NoError(t, err)

	app, ok := decoded.(*il.App)
	require.True(t, ok)
	require.Len(t, app.Args, 1)

	fun, ok := app.Fn.(*il.Fun)
	require.True(t, ok)
	arg, ok := fun.Body.(*il.Arg)
	require.True(t, ok)
	assert.Equal(t, 0, arg.Ups)
	assert.Equal(t, 0, arg.Pos)

	// The wire format drops Tag wrappers together with their source AST
	// node; only the tagged literal survives.
	val, ok := il.Unwrap(app.Args[0]).(*il.Val)
	require.True(t, ok)
	assert.Equal(t, "1", val.Arg)
}

func TestEncodeDecodeErrRoundTrip(t *testing.T) {
	node := &il.Err{Desc: "Undefined:x"}

	data, err := EncodeIL(node)
	require.NoError(t, err)

	decoded, err := DecodeIL(data)
	require.NoError(t, err)

	errNode, ok := decoded.(*il.Err)
	require.True(t, ok)
	assert.Equal(t, "Undefined:x", errNode.Desc)
}
