package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarInt_RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, 128, 255, 2097151, 2147483647, -2147483648, 25565}

	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		assert.Equal(t, VarIntSize(v), buf.Len())

		got, err := ReadVarInt(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarInt_TooBig(t *testing.T) {
	// Five continuation bytes followed by a sixth: never valid for an i32.
	raw := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, err := ReadVarInt(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrVarIntTooBig)
}
