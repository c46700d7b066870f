package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamPair_RoundTrip(t *testing.T) {
	secret := make([]byte, 16)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	enc, err := NewStreamPair(secret)
	require.NoError(t, err)
	dec, err := NewStreamPair(secret)
	require.NoError(t, err)

	plain := []byte("the quick brown fox jumps over the lazy dog, 0123456789")
	cipherText := make([]byte, len(plain))
	enc.Encrypt.XORKeyStream(cipherText, plain)

	recovered := make([]byte, len(plain))
	dec.Decrypt.XORKeyStream(recovered, cipherText)

	require.Equal(t, plain, recovered)
}

func TestStreamPair_ByteAtATime(t *testing.T) {
	secret := make([]byte, 16)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	enc, err := NewStreamPair(secret)
	require.NoError(t, err)
	dec, err := NewStreamPair(secret)
	require.NoError(t, err)

	plain := []byte("streamed one byte per call")
	cipherText := make([]byte, len(plain))
	recovered := make([]byte, len(plain))

	for i := range plain {
		enc.Encrypt.XORKeyStream(cipherText[i:i+1], plain[i:i+1])
		dec.Decrypt.XORKeyStream(recovered[i:i+1], cipherText[i:i+1])
	}

	require.Equal(t, plain, recovered)
}
