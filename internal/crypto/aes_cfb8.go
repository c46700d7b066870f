package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// StreamPair holds the two half-duplex CFB8 streams negotiated during the
// Login state's Encryption Request/Response exchange. Once installed, every
// byte crossing the wire in either direction passes through XORKeyStream.
type StreamPair struct {
	Decrypt cipher.Stream
	Encrypt cipher.Stream
}

// NewStreamPair builds the AES-128/CFB8 encrypt and decrypt streams from the
// 16-byte shared secret. The protocol uses the shared secret as both key and
// IV, matching the vanilla Notchian handshake.
func NewStreamPair(sharedSecret []byte) (*StreamPair, error) {
	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("building AES cipher: %w", err)
	}

	return &StreamPair{
		Decrypt: newCFB8Decrypt(block, sharedSecret),
		Encrypt: newCFB8Encrypt(block, sharedSecret),
	}, nil
}

// cfb8 implements CFB-8 (one byte of feedback per step), which the stdlib's
// crypto/cipher does not provide directly — NewCFBEncrypter/Decrypter are
// full-block feedback. The shift register is the block size wide and holds
// the most recent ciphertext bytes; each step encrypts the whole register,
// XORs the first output byte with one input byte, then shifts the register
// left by one and appends that step's ciphertext byte.
type cfb8 struct {
	block     cipher.Block
	shift     []byte
	out       []byte
	decrypt   bool
}

func newCFB8Encrypt(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

func newCFB8Decrypt(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) cipher.Stream {
	size := block.BlockSize()
	shift := make([]byte, size)
	copy(shift, iv)
	return &cfb8{
		block:   block,
		shift:   shift,
		out:     make([]byte, size),
		decrypt: decrypt,
	}
}

func (c *cfb8) XORKeyStream(dst, src []byte) {
	size := len(c.shift)
	for i := range src {
		c.block.Encrypt(c.out, c.shift)

		var cipherByte byte
		plainByte := src[i] ^ c.out[0]
		if c.decrypt {
			cipherByte = src[i]
		} else {
			cipherByte = plainByte
		}

		copy(c.shift, c.shift[1:])
		c.shift[size-1] = cipherByte

		if c.decrypt {
			dst[i] = plainByte
		} else {
			dst[i] = cipherByte
		}
	}
}
