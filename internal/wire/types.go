package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Bond-009/siderite/internal/constants"
)

// Reader walks a single decoded (decompressed, decrypted) packet payload.
// It never reads from the network directly — the framer hands it a
// complete in-memory payload per packet.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps payload for sequential field decoding.
func NewReader(payload []byte) *Reader {
	return &Reader{buf: payload}
}

// ReadByte implements io.ByteReader so Reader can feed ReadVarInt directly.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("wire: read past end of packet")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// VarInt reads one VarInt field.
func (r *Reader) VarInt() (int32, error) {
	return ReadVarInt(r)
}

// Bool reads a single-byte boolean.
func (r *Reader) Bool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// UByte reads an unsigned byte.
func (r *Reader) UByte() (uint8, error) {
	return r.ReadByte()
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("wire: negative length %d", n)
	}
	if r.Remaining() < n {
		return nil, fmt.Errorf("wire: need %d bytes, have %d", n, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Short reads a big-endian signed 16-bit integer.
func (r *Reader) Short() (int16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// Int reads a big-endian signed 32-bit integer.
func (r *Reader) Int() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Long reads a big-endian signed 64-bit integer.
func (r *Reader) Long() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Float reads a big-endian IEEE-754 float32.
func (r *Reader) Float() (float32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// Double reads a big-endian IEEE-754 float64.
func (r *Reader) Double() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// String reads a VarInt-length-prefixed UTF-8 string, bounded by
// constants.MaxStringLength to guard against a malicious length field.
func (r *Reader) String() (string, error) {
	n, err := r.VarInt()
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > constants.MaxStringLength {
		return "", fmt.Errorf("wire: string length %d exceeds limit", n)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RawBytes reads n raw bytes with no length prefix (the VarInt-length
// fields of Encryption Response are read separately and passed in here).
func (r *Reader) RawBytes(n int) ([]byte, error) {
	return r.take(n)
}

// Position decodes the packed x/y/z block position used by Player Digging,
// Block Placement, and Spawn Position: 26 bits x, 12 bits y, 26 bits z
// packed into a big-endian int64.
func (r *Reader) Position() (x, y, z int32, err error) {
	v, err := r.Long()
	if err != nil {
		return 0, 0, 0, err
	}
	return DecodePosition(v)
}

// Writer accumulates a packet payload (packet id + fields) before the
// framer prefixes the length and applies compression/encryption.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteByte implements io.ByteWriter so Writer can feed WriteVarInt directly.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// VarInt writes one VarInt field.
func (w *Writer) VarInt(v int32) {
	_ = WriteVarInt(w, v)
}

// Bool writes a single-byte boolean.
func (w *Writer) Bool(b bool) {
	if b {
		_ = w.buf.WriteByte(1)
	} else {
		_ = w.buf.WriteByte(0)
	}
}

// UByte writes an unsigned byte.
func (w *Writer) UByte(b uint8) {
	_ = w.buf.WriteByte(b)
}

// Short writes a big-endian signed 16-bit integer.
func (w *Writer) Short(v int16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	w.buf.Write(tmp[:])
}

// UShort writes a big-endian unsigned 16-bit integer.
func (w *Writer) UShort(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf.Write(tmp[:])
}

// Int writes a big-endian signed 32-bit integer.
func (w *Writer) Int(v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	w.buf.Write(tmp[:])
}

// Long writes a big-endian signed 64-bit integer.
func (w *Writer) Long(v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	w.buf.Write(tmp[:])
}

// Float writes a big-endian IEEE-754 float32.
func (w *Writer) Float(v float32) {
	w.Int(int32(math.Float32bits(v)))
}

// Double writes a big-endian IEEE-754 float64.
func (w *Writer) Double(v float64) {
	w.Long(int64(math.Float64bits(v)))
}

// String writes a VarInt-length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.VarInt(int32(len(s)))
	w.buf.WriteString(s)
}

// RawBytes writes a raw byte slice with no length prefix (used for fields
// whose length is implied, like chunk section payloads).
func (w *Writer) RawBytes(b []byte) {
	w.buf.Write(b)
}

// Position encodes x/y/z into the packed format and writes it as a Long.
func (w *Writer) Position(x, y, z int32) {
	w.Long(EncodePosition(x, y, z))
}

// EncodePosition packs a block position into the wire's 26/12/26-bit long.
func EncodePosition(x, y, z int32) int64 {
	return ((int64(x) & 0x3ffffff) << 38) | ((int64(y) & 0xfff) << 26) | (int64(z) & 0x3ffffff)
}

// DecodePosition unpacks a wire long into x/y/z, sign-extending each field.
func DecodePosition(v int64) (x, y, z int32, err error) {
	x = int32(v >> 38)
	y = int32((v >> 26) & 0xfff)
	z = int32(v << 38 >> 38)

	// sign-extend the 12-bit y field
	if y >= 1<<11 {
		y -= 1 << 12
	}
	return x, y, z, nil
}
