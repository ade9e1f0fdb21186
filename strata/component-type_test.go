package strata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeOf_IdentityPerGoType(t *testing.T) {
	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	a := TypeOf[Position]()
	b := TypeOf[Position]()
	require.Same(t, a, b)

	c := TypeOf[Velocity]()
	require.NotSame(t, a, c)
	require.NotEqual(t, a.Id, c.Id)
}

func TestTypeOf_Metadata(t *testing.T) {
	type Position struct{ X, Y float64 }

	ty := TypeOf[Position]()
	require.Equal(t, uintptr(16), ty.Size)
	require.False(t, ty.HasPointers)

	require.Zero(t, TypeOf[Marker]().Size)
}

func TestTypeHasPointers(t *testing.T) {
	type Plain struct {
		A int
		B [4]float32
	}

	type WithName struct {
		Value float64
		Name  string
	}

	type WithSlice struct {
		Items []int
	}

	type Nested struct {
		Inner WithName
	}

	require.False(t, TypeOf[Plain]().HasPointers)
	require.True(t, TypeOf[WithName]().HasPointers)
	require.True(t, TypeOf[WithSlice]().HasPointers)
	require.True(t, TypeOf[Nested]().HasPointers)
}
