package wire

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bond-009/siderite/internal/crypto"
)

func roundTrip(t *testing.T, f *Framer, body []byte) []byte {
	t.Helper()
	frame, err := f.EncodePacket(body)
	require.NoError(t, err)
	frame = f.EncryptOutbound(frame)

	require.NoError(t, f.FeedInbound(frame))
	got, ok, err := f.NextPacket()
	require.NoError(t, err)
	require.True(t, ok)
	return got
}

func TestFramer_Uncompressed(t *testing.T) {
	f := NewFramer()
	body := []byte{0x00, 'h', 'i'}
	got := roundTrip(t, f, body)
	require.Equal(t, body, got)
}

func TestFramer_CompressionBoundary(t *testing.T) {
	const threshold = 64

	f := NewFramer()
	f.EnableCompression(threshold)

	below := make([]byte, threshold-1)
	got := roundTrip(t, f, below)
	require.Equal(t, below, got)

	atThreshold := make([]byte, threshold)
	for i := range atThreshold {
		atThreshold[i] = byte(i)
	}
	got = roundTrip(t, f, atThreshold)
	require.Equal(t, atThreshold, got)
}

func TestFramer_Encrypted(t *testing.T) {
	secret := make([]byte, 16)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	serverSide, err := crypto.NewStreamPair(secret)
	require.NoError(t, err)
	clientSide, err := crypto.NewStreamPair(secret)
	require.NoError(t, err)

	f := NewFramer()
	f.SetCipher(clientSide.Decrypt, serverSide.Encrypt)

	body := []byte{0x01, 'e', 'n', 'c'}
	got := roundTrip(t, f, body)
	require.Equal(t, body, got)
}

func TestFramer_PartialFrameWaits(t *testing.T) {
	f := NewFramer()
	body := []byte{0x00, 1, 2, 3, 4, 5}
	frame, err := f.EncodePacket(body)
	require.NoError(t, err)

	require.NoError(t, f.FeedInbound(frame[:len(frame)-1]))
	_, ok, err := f.NextPacket()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, f.FeedInbound(frame[len(frame)-1:]))
	got, ok, err := f.NextPacket()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, body, got)
}
