package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lumen/pkgs/desugar"
	"github.com/aledsdavies/lumen/pkgs/eval"
	"github.com/aledsdavies/lumen/pkgs/parser"
	"github.com/aledsdavies/lumen/pkgs/value"
)

// run parses, desugars, and evaluates source against a fresh root
// environment seeded from value.Manifest(), mirroring spec.md §6's
// parse -> desugar -> evaluate pipeline.
func run(t *testing.T, source string) (value.Value, error) {
	t.Helper()
	names, values := value.Manifest()
	body, oob := parser.ParseModule(source)
	require.Empty(t, oob)

	node := desugar.Desugar(body, desugar.NewEnv(names))
	rootEnv := value.NewEnv(nil, values)
	return eval.Run(node, rootEnv)
}

func TestEvalArithmetic(t *testing.T) {
	// spec.md §8 scenario 3.
	v, err := run(t, "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, value.Num(3), v)
}

func TestEvalMethodSend(t *testing.T) {
	// spec.md §8 scenario 4.
	v, err := run(t, `"abc".slice(1, 3)`)
	require.NoError(t, err)
	assert.Equal(t, value.Str("bc"), v)
}

func TestEvalLoopWhile(t *testing.T) {
	// spec.md §8 scenario 5.
	v, err := run(t, "x = 1\nloop while x < 10:\n  x *= 2\nx")
	require.NoError(t, err)
	assert.Equal(t, value.Num(16), v)
}

func TestEvalMatchVector(t *testing.T) {
	// spec.md §8 scenario 6.
	v, err := run(t, "match [1,2]:\n  [2, x] => 1\n  [1, x] => x\n  _ => 9")
	require.NoError(t, err)
	assert.Equal(t, value.Num(2), v)
}

func TestEvalAssertionFault(t *testing.T) {
	// spec.md §8 scenario 7: runtime fault named Stop, located at the
	// S-Assert node via the tagged-result trace.
	names, values := value.Manifest()
	body, oob := parser.ParseModule("assert 2>3\n1")
	require.Empty(t, oob)

	node := desugar.Desugar(body, desugar.NewEnv(names))
	rootEnv := value.NewEnv(nil, values)

	e := eval.New(eval.Compile(node), rootEnv, eval.DefaultHost{})
	e.Sync(0)
	errName, ok := e.Error()
	require.True(t, ok)
	assert.Equal(t, "Stop", errName)

	result, pending := e.GetResult()
	require.False(t, pending)
	require.NotNil(t, result)
	assert.NotNil(t, result.GetAST())
}

func TestEvalShadowIsDesugarTimeFault(t *testing.T) {
	// spec.md §8 scenario 8: the Shadow fault is decided at desugar time and
	// left in the IL as an Err leaf; evaluating that IL faults with its name.
	names, _ := value.Manifest()
	body, oob := parser.ParseModule("x = 1\nx = 2\nx")
	require.Empty(t, oob)

	node := desugar.Desugar(body, desugar.NewEnv(names))

	values := make([]value.Value, len(names))
	rootEnv := value.NewEnv(nil, values)
	_, err := eval.Run(node, rootEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Shadow:x")
}

func TestEvalLetBinding(t *testing.T) {
	v, err := run(t, "x = 1\nx")
	require.NoError(t, err)
	assert.Equal(t, value.Num(1), v)
}

func TestEvalForLoopSum(t *testing.T) {
	v, err := run(t, "total = 0\nfor v in [1,2,3]:\n  total += v\ntotal")
	require.NoError(t, err)
	assert.Equal(t, value.Num(6), v)
}
