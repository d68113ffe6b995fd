package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", MakeNil(), MakeNil(), true},
		{"bool true equals true", MakeBool(true), MakeBool(true), true},
		{"bool true differs from false", MakeBool(true), MakeBool(false), false},
		{"numbers compare by payload", MakeNumber(3), MakeNumber(3), true},
		{"numbers differ", MakeNumber(3), MakeNumber(4), false},
		{"cross-kind never equal", MakeNumber(0), MakeBool(false), false},
		{"cross-kind nil vs number", MakeNil(), MakeNumber(0), false},
		{"NaN is not equal to itself", MakeNumber(math.NaN()), MakeNumber(math.NaN()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestIsFalsey(t *testing.T) {
	require.True(t, MakeNil().IsFalsey())
	require.True(t, MakeBool(false).IsFalsey())
	require.False(t, MakeBool(true).IsFalsey())
	require.False(t, MakeNumber(0).IsFalsey())
}

func TestString(t *testing.T) {
	require.Equal(t, "true", String(MakeBool(true)))
	require.Equal(t, "false", String(MakeBool(false)))
	require.Equal(t, "nil", String(MakeNil()))
	require.Equal(t, "3.5", String(MakeNumber(3.5)))
}
