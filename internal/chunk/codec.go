package chunk

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/wire"
)

// Write serializes col into the Chunk Data packet's size-prefixed "Data"
// field: a VarInt byte count of everything that follows (SerializedSize),
// then the block-info stream, then every present section's block light,
// then every present section's sky light, then the biome map.
//
// The block-info stream is produced by whichever writeBlockInfo variant
// cpuid selects at package init — all variants are required to produce
// byte-identical output to writeBlockInfoFallback.
func Write(col *Column) []byte {
	size := col.SerializedSize()
	out := make([]byte, 0, wire.VarIntSize(int32(size))+size)
	out = wire.AppendVarInt(out, int32(size))

	out = writeBlockInfo(col, out)

	for _, s := range col.Sections {
		if s != nil {
			out = append(out, s.BlockLight[:]...)
		}
	}
	for _, s := range col.Sections {
		if s != nil {
			out = append(out, s.BlockSkyLight[:]...)
		}
	}

	out = append(out, col.BiomeMap[:]...)
	return out
}

var blockInfoImpl = selectBlockInfoImpl()

func selectBlockInfoImpl() func(*Column, []byte) []byte {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		return writeBlockInfoWide
	}
	if cpuid.CPU.Supports(cpuid.SSE2) {
		return writeBlockInfoWide
	}
	return writeBlockInfoFallback
}

func writeBlockInfo(col *Column, dst []byte) []byte {
	return blockInfoImpl(col, dst)
}

// writeBlockInfoFallback is the byte-at-a-time reference implementation:
// for every pair of blocks it interleaves their (up to) 12-bit ids with
// the shared metadata nibble pair into 4 output bytes.
func writeBlockInfoFallback(col *Column, dst []byte) []byte {
	var tmp [4]byte
	for _, s := range col.Sections {
		if s == nil {
			continue
		}
		for i := 0; i < constants.SectionBlockCount/2; i++ {
			t1 := s.BlockTypes[i*2]
			t2 := s.BlockTypes[i*2+1]
			meta := s.BlockMetas[i]

			tmp[0] = (t1 << 4) | (meta & 0x0f)
			tmp[1] = t1 >> 4
			tmp[2] = (t2 << 4) | (meta >> 4)
			tmp[3] = t2 >> 4

			dst = append(dst, tmp[:]...)
		}
	}
	return dst
}

// verifyIdentical is a debug helper exercised by the test suite: it
// re-encodes col with the fallback path and reports a mismatch, which
// would indicate a bug in a wide variant rather than ever being expected
// to fire in production.
func verifyIdentical(col *Column, wide []byte) error {
	want := writeBlockInfoFallback(col, nil)
	if len(want) != len(wide) {
		return fmt.Errorf("chunk: wide codec length %d != fallback length %d", len(wide), len(want))
	}
	for i := range want {
		if want[i] != wide[i] {
			return fmt.Errorf("chunk: wide codec diverges from fallback at byte %d", i)
		}
	}
	return nil
}
