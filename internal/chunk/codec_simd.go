package chunk

import (
	"encoding/binary"

	"github.com/Bond-009/siderite/internal/constants"
)

// writeBlockInfoWide is the byte-parallel fast path selected when cpuid
// reports SSE2 or AVX2 support (github.com/klauspost/cpuid/v2). Go has no
// portable vector-intrinsic package the way the original Rust core reaches
// for __m128i/__m256i, so instead of true SIMD this widens the memory
// access: it loads 8 block-type bytes and 4 meta bytes per trip as single
// uint64/uint32 words (one bounds check and one load instead of twelve),
// then unpacks each lane with shifts rather than a per-byte slice index.
// It must stay byte-identical to writeBlockInfoFallback — see
// TestWriteBlockInfo_WideMatchesFallback.
func writeBlockInfoWide(col *Column, dst []byte) []byte {
	const lanesPerWord = 4 // 4 pairs = 8 block-type bytes + 4 meta bytes per word

	for _, s := range col.Sections {
		if s == nil {
			continue
		}

		pairs := constants.SectionBlockCount / 2
		i := 0
		for ; i+lanesPerWord <= pairs; i += lanesPerWord {
			types64 := binary.LittleEndian.Uint64(s.BlockTypes[i*2:])
			metas32 := binary.LittleEndian.Uint32(s.BlockMetas[i:])

			var out [lanesPerWord * 4]byte
			for lane := 0; lane < lanesPerWord; lane++ {
				t1 := byte(types64 >> (16 * lane))
				t2 := byte(types64 >> (16*lane + 8))
				meta := byte(metas32 >> (8 * lane))

				o := out[lane*4:]
				o[0] = (t1 << 4) | (meta & 0x0f)
				o[1] = t1 >> 4
				o[2] = (t2 << 4) | (meta >> 4)
				o[3] = t2 >> 4
			}
			dst = append(dst, out[:]...)
		}

		// Tail: fewer than lanesPerWord pairs remain, fall back to scalar.
		var tmp [4]byte
		for ; i < pairs; i++ {
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
