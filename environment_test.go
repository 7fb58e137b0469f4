package lox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func identToken(name string) Token {
	return NewToken(Identifiers, name, nil, 1, 1)
}

func TestGlobalEnvironmentDefineAndGet(t *testing.T) {
	env := NewGlobalEnvironment()
	env.Define("greeting", "hi")

	val, err := env.Get(identToken("greeting"))
	require.NoError(t, err)
	require.Equal(t, "hi", val)
}

func TestGlobalEnvironmentUndefinedVariableErrors(t *testing.T) {
	env := NewGlobalEnvironment()

	_, err := env.Get(identToken("missing"))
	require.Error(t, err)
}

func TestGlobalEnvironmentAssignRequiresExistingBinding(t *testing.T) {
	env := NewGlobalEnvironment()

	err := env.Assign(identToken("missing"), 1.0)
	require.Error(t, err)

	env.Define("present", 1.0)
	require.NoError(t, env.Assign(identToken("present"), 2.0))

	val, _ := env.Get(identToken("present"))
	require.Equal(t, 2.0, val)
}

func TestLocalEnvironmentWalksChainToGlobal(t *testing.T) {
	global := NewGlobalEnvironment()
	global.Define("a", "global-a")

	local := NewEnvironment(global)
	local.Define("b", "local-b")

	val, err := local.Get(identToken("a"))
	require.NoError(t, err)
	require.Equal(t, "global-a", val)

	val, err = local.Get(identToken("b"))
	require.NoError(t, err)
	require.Equal(t, "local-b", val)
}

func TestEnvironmentGetAtAndAssignAtAddressFixedDistance(t *testing.T) {
	global := NewGlobalEnvironment()
	global.Define("shadowed", "global-value")

	outer := NewEnvironment(global)
	outer.Define("shadowed", "outer-value")

	inner := NewEnvironment(outer)
	inner.Define("shadowed", "inner-value")

	require.Equal(t, "inner-value", inner.GetAt(0, "shadowed"))
	require.Equal(t, "outer-value", inner.GetAt(1, "shadowed"))

	inner.AssignAt(1, identToken("shadowed"), "outer-changed")
	require.Equal(t, "outer-changed", outer.GetAt(0, "shadowed"))
	// inner's own binding (distance 0) is untouched.
	require.Equal(t, "inner-value", inner.GetAt(0, "shadowed"))
}

func TestLocalEnvironmentShadowsWithoutMutatingEnclosing(t *testing.T) {
	global := NewGlobalEnvironment()
	global.Define("x", "global")

	local := NewEnvironment(global)
	local.Define("x", "local")

	require.NoError(t, local.Assign(identToken("x"), "local-updated"))

	localVal, _ := local.Get(identToken("x"))
	globalVal, _ := global.Get(identToken("x"))

	require.Equal(t, "local-updated", localVal)
	require.Equal(t, "global", globalVal)
}
