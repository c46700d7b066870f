package chunk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bond-009/siderite/internal/wire"
)

func randomColumn(seed int64) *Column {
	r := rand.New(rand.NewSource(seed))
	col := &Column{}
	for _, idx := range []int{0, 1, 7, 15} {
		s := &Section{}
		for i := range s.BlockTypes {
			s.BlockTypes[i] = byte(r.Intn(256))
		}
		for i := range s.BlockMetas {
			s.BlockMetas[i] = byte(r.Intn(256))
		}
		for i := range s.BlockLight {
			s.BlockLight[i] = byte(r.Intn(256))
		}
		for i := range s.BlockSkyLight {
			s.BlockSkyLight[i] = byte(r.Intn(256))
		}
		col.Sections[idx] = s
	}
	for i := range col.BiomeMap {
		col.BiomeMap[i] = byte(r.Intn(256))
	}
	return col
}

func TestWriteBlockInfo_WideMatchesFallback(t *testing.T) {
	for seed := int64(0); seed < 8; seed++ {
		col := randomColumn(seed)
		fallback := writeBlockInfoFallback(col, nil)
		wide := writeBlockInfoWide(col, nil)
		require.Equal(t, fallback, wide, "seed %d", seed)
		require.NoError(t, verifyIdentical(col, wide))
	}
}

func TestWrite_ProducesExpectedLength(t *testing.T) {
	col := randomColumn(1)
	out := Write(col)
	require.NotEmpty(t, out)

	// strip the leading varint size prefix and compare to SerializedSize
	r := wire.NewReader(out)
	size, err := r.VarInt()
	require.NoError(t, err)
	require.Equal(t, int32(col.SerializedSize()), size)
	require.Equal(t, col.SerializedSize(), r.Remaining())
}
