package wire

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestPosition_RoundTrip(t *testing.T) {
	f := func(x, z int32, y int16) bool {
		x = x % (1 << 25)
		z = z % (1 << 25)
		yy := int32(y % (1 << 11))

		packed := EncodePosition(x, yy, z)
		gotX, gotY, gotZ, err := DecodePosition(packed)
		if err != nil {
			return false
		}
		return gotX == x && gotY == yy && gotZ == z
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPosition_KnownValue(t *testing.T) {
	x, y, z := int32(18), int32(64), int32(-32)
	packed := EncodePosition(x, y, z)
	gotX, gotY, gotZ, err := DecodePosition(packed)
	assert.NoError(t, err)
	assert.Equal(t, x, gotX)
	assert.Equal(t, y, gotY)
	assert.Equal(t, z, gotZ)
}

func TestReader_RawBytesRejectsNegativeLength(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, err := r.RawBytes(-1)
	assert.Error(t, err)
}

func TestReaderWriter_StringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.String("tester")
	w.VarInt(47)
	w.Bool(true)

	r := NewReader(w.Bytes())
	s, err := r.String()
	assert.NoError(t, err)
	assert.Equal(t, "tester", s)

	v, err := r.VarInt()
	assert.NoError(t, err)
	assert.Equal(t, int32(47), v)

	b, err := r.Bool()
	assert.NoError(t, err)
	assert.True(t, b)
}
