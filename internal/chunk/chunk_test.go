package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mavix/internal/value"
)

func TestWriteTracksLines(t *testing.T) {
	c := New()
	c.Write(byte(OpNil), 1)
	c.Write(byte(OpReturn), 2)

	require.Equal(t, []byte{byte(OpNil), byte(OpReturn)}, c.Code)
	require.Equal(t, []int{1, 2}, c.Lines)
	require.Len(t, c.Lines, len(c.Code))
}

func TestAddConstant(t *testing.T) {
	c := New()
	idx := c.AddConstant(value.MakeNumber(42))
	require.Equal(t, 0, idx)
	require.Equal(t, value.MakeNumber(42), c.Constants[idx])
}

func TestSerializeRoundTrip(t *testing.T) {
	c := New()
	idx := c.AddConstant(value.MakeNumber(7))
	c.Write(byte(OpConstant), 1)
	c.Write(byte(idx), 1)
	c.Write(byte(OpReturn), 1)

	data, err := Serialize(c, "run-1")
	require.NoError(t, err)

	got, runID, err := Deserialize(data)
	require.NoError(t, err)
	require.Equal(t, "run-1", runID)
	require.Equal(t, c.Code, got.Code)
	require.Equal(t, c.Lines, got.Lines)
	require.Equal(t, c.Constants, got.Constants)
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	_, _, err := Deserialize([]byte("nope!"))
	require.Error(t, err)
}
