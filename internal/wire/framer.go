package wire

import (
	"bytes"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/Bond-009/siderite/internal/constants"
)

// Framer owns one connection's receive ring, stream-cipher pair, and
// compression threshold, translating between raw socket bytes and decoded
// packet payloads (packet id ∥ body) in both directions.
//
// It never touches the socket itself — FeedInbound takes bytes the caller
// already read, and EncodePacket/EncryptOutbound hand back bytes the
// caller is responsible for writing.
type Framer struct {
	ring *RecvRing

	decrypt cipher.Stream
	encrypt cipher.Stream

	// compressionThreshold < 0 means compression is disabled.
	compressionThreshold int32
}

// NewFramer returns a Framer with compression disabled and no cipher
// installed, the state every connection starts in during Handshaking.
func NewFramer() *Framer {
	return &Framer{
		ring:                  NewRecvRing(constants.MaxReceiveRing),
		compressionThreshold: -1,
	}
}

// SetCipher installs the AES-128/CFB8 stream pair negotiated by the Login
// state's Encryption Response. From this point every byte fed in or
// produced out passes through it.
func (f *Framer) SetCipher(decrypt, encrypt cipher.Stream) {
	f.decrypt = decrypt
	f.encrypt = encrypt
}

// EnableCompression turns on packet compression with the given threshold,
// as triggered by the server's Set Compression packet. A negative
// threshold disables compression again.
func (f *Framer) EnableCompression(threshold int32) {
	f.compressionThreshold = threshold
}

// FeedInbound decrypts (if a cipher is installed) and appends raw socket
// bytes to the receive ring.
func (f *Framer) FeedInbound(raw []byte) error {
	if f.decrypt != nil {
		plain := make([]byte, len(raw))
		f.decrypt.XORKeyStream(plain, raw)
		return f.ring.Append(plain)
	}
	return f.ring.Append(raw)
}

// NextPacket attempts to decode one complete packet from the head of the
// ring. ok is false when the ring doesn't yet hold a full frame — the
// caller should stop and wait for more bytes, not treat it as an error.
func (f *Framer) NextPacket() (payload []byte, ok bool, err error) {
	view := f.ring.Peek()

	totalLen, n, err := peekVarInt(view)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("wire: reading frame length: %w", err)
	}
	if totalLen < 0 {
		return nil, false, fmt.Errorf("wire: negative frame length %d", totalLen)
	}

	frameStart := n
	frameEnd := frameStart + int(totalLen)
	if frameEnd > len(view) {
		return nil, false, nil // incomplete frame, wait for more bytes
	}

	body := view[frameStart:frameEnd]
	f.ring.Advance(frameEnd)

	if f.compressionThreshold < 0 {
		return body, true, nil
	}

	br := bytes.NewReader(body)
	dataLen, err := ReadVarInt(br)
	if err != nil {
		return nil, false, fmt.Errorf("wire: reading data length: %w", err)
	}
	rest := body[len(body)-br.Len():]

	if dataLen == 0 {
		return rest, true, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, false, fmt.Errorf("wire: opening zlib stream: %w", err)
	}
	defer zr.Close()

	decoded := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, decoded); err != nil {
		return nil, false, fmt.Errorf("wire: inflating packet: %w", err)
	}

	return decoded, true, nil
}

// EncodePacket frames body (packet id ∥ fields) per the active compression
// setting, returning bytes ready for encryption and writing.
func (f *Framer) EncodePacket(body []byte) ([]byte, error) {
	if f.compressionThreshold < 0 {
		out := AppendVarInt(make([]byte, 0, VarIntSize(int32(len(body)))+len(body)), int32(len(body)))
		return append(out, body...), nil
	}

	if int32(len(body)) < f.compressionThreshold {
		inner := AppendVarInt([]byte{}, 0)
		inner = append(inner, body...)
		out := AppendVarInt(make([]byte, 0, VarIntSize(int32(len(inner)))+len(inner)), int32(len(inner)))
		return append(out, inner...), nil
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("wire: deflating packet: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("wire: closing zlib stream: %w", err)
	}

	inner := AppendVarInt([]byte{}, int32(len(body)))
	inner = append(inner, compressed.Bytes()...)
	out := AppendVarInt(make([]byte, 0, VarIntSize(int32(len(inner)))+len(inner)), int32(len(inner)))
	return append(out, inner...), nil
}

// EncryptOutbound returns an encrypted copy of frame if an outbound cipher
// is installed, or frame unchanged otherwise. Call this on the result of
// EncodePacket, last, right before the write.
func (f *Framer) EncryptOutbound(frame []byte) []byte {
	if f.encrypt == nil {
		return frame
	}
	out := make([]byte, len(frame))
	f.encrypt.XORKeyStream(out, frame)
	return out
}

// peekVarInt decodes a varint from the front of b without consuming
// anything from the ring, returning the decoded value and the number of
// bytes it occupied. io.ErrUnexpectedEOF means b doesn't yet hold a
// complete varint.
func peekVarInt(b []byte) (int32, int, error) {
	var result int32
	var numRead uint
	for i := 0; i < len(b); i++ {
		by := b[i]
		result |= int32(by&0x7f) << (7 * numRead)
		numRead++
		if numRead > constants.MaxVarIntBytes {
			return 0, 0, ErrVarIntTooBig
		}
		if by&0x80 == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}
