// Package wire implements the Minecraft v47 byte-level framing: varint
// primitives, the inbound ring buffer, and the packet framer that layers
// optional AES-128/CFB8 encryption and zlib compression on top of it.
package wire

import (
	"errors"
	"io"

	"github.com/Bond-009/siderite/internal/constants"
)

// ErrVarIntTooBig is returned when a varint would need more than
// constants.MaxVarIntBytes bytes to encode, which never happens for a
// legitimate 32-bit value and signals a corrupt or hostile stream.
var ErrVarIntTooBig = errors.New("wire: varint exceeds 5 bytes")

// ReadVarInt reads a protocol VarInt (LEB128, 7 bits of payload per byte,
// high bit marks continuation) from br.
func ReadVarInt(br io.ByteReader) (int32, error) {
	var result int32
	var numRead uint
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		result |= int32(b&0x7f) << (7 * numRead)
		numRead++
		if numRead > constants.MaxVarIntBytes {
			return 0, ErrVarIntTooBig
		}

		if b&0x80 == 0 {
			break
		}
	}
	return result, nil
}

// WriteVarInt encodes v and writes it to w.
func WriteVarInt(w io.ByteWriter, v int32) error {
	uv := uint32(v)
	for {
		b := byte(uv & 0x7f)
		uv >>= 7
		if uv != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if uv == 0 {
			return nil
		}
	}
}

// VarIntSize returns the number of bytes WriteVarInt would produce for v,
// used to size framing buffers up front without a throwaway encode.
func VarIntSize(v int32) int {
	uv := uint32(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}

// AppendVarInt appends the varint encoding of v to dst and returns the
// extended slice, mirroring the encoding/binary append-style helpers.
func AppendVarInt(dst []byte, v int32) []byte {
	uv := uint32(v)
	for {
		b := byte(uv & 0x7f)
		uv >>= 7
		if uv != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if uv == 0 {
			return dst
		}
	}
}
