package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-mlab/internal/matrix"
)

func TestEnvironmentChain(t *testing.T) {
	root := NewEnvironment()
	root.Define("a", NewScalar(1))

	child := NewEnclosedEnvironment(root)
	child.Define("b", NewScalar(2))

	v, ok := child.Get("a")
	require.True(t, ok)
	s, _ := ToScalar(v)
	assert.Equal(t, 1.0, s)

	_, ok = root.Get("b")
	assert.False(t, ok)

	// Define in the child does not leak to the root.
	child.Define("a", NewScalar(9))
	v, _ = root.Get("a")
	s, _ = ToScalar(v)
	assert.Equal(t, 1.0, s)
}

func TestGlobalDeclarations(t *testing.T) {
	root := NewEnvironment()
	fn := NewEnclosedEnvironment(root)
	fn.DeclareGlobal("g")

	// The declaration initializes the root slot.
	_, ok := root.GetLocal("g")
	assert.True(t, ok)

	fn.Define("g", NewScalar(5))
	v, _ := root.GetLocal("g")
	s, _ := ToScalar(v)
	assert.Equal(t, 5.0, s)

	// A second scope sees the same slot.
	other := NewEnclosedEnvironment(root)
	other.DeclareGlobal("g")
	v, _ = other.Get("g")
	s, _ = ToScalar(v)
	assert.Equal(t, 5.0, s)
}

func TestTruthy(t *testing.T) {
	assert.True(t, Truthy(NewScalar(1)))
	assert.False(t, Truthy(NewScalar(0)))
	assert.False(t, Truthy(Empty()))
	assert.True(t, Truthy(NewString("x")))
	assert.False(t, Truthy(NewString("")))
	assert.False(t, Truthy(NewMatrix(matrix.RowVector([]float64{1, 0}))))
	assert.True(t, Truthy(NewMatrix(matrix.RowVector([]float64{1, 2}))))
}

func TestToMatrixStringCodes(t *testing.T) {
	m, err := ToMatrix(NewString("AB"))
	require.NoError(t, err)
	assert.Equal(t, []float64{65, 66}, m.Data)
}

func TestValueListFirst(t *testing.T) {
	vl := &ValueList{Values: []Value{NewScalar(1), NewScalar(2)}}
	s, err := ToScalar(First(vl))
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)
}

func TestCellLinearIsColumnMajor(t *testing.T) {
	c := NewCell(2, 2)
	c.Set(0, 0, NewScalar(1))
	c.Set(1, 0, NewScalar(2))
	c.Set(0, 1, NewScalar(3))
	c.Set(1, 1, NewScalar(4))

	order := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, _ := ToScalar(c.LinearGet(i))
		order[i] = v
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, order)
}

func TestStructFieldOrder(t *testing.T) {
	s := NewStruct()
	s.SetField("z", NewScalar(1))
	s.SetField("a", NewScalar(2))
	s.SetField("z", NewScalar(3))
	assert.Equal(t, []string{"z", "a"}, s.Names)
}

func TestFlowSignals(t *testing.T) {
	assert.True(t, IsFlowSignal(SignalBreak))
	assert.True(t, IsFlowSignal(SignalReturn))
	assert.False(t, IsFlowSignal(NewError("x")))
}
