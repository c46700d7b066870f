package session

import (
	"testing"

	"github.com/Bond-009/siderite/internal/crypto"
	"github.com/Bond-009/siderite/internal/wire"
	"github.com/stretchr/testify/require"
)

// newTestProtocol returns a Protocol in the Handshaking state backed by a
// freshly generated key pair, the same starting point a real accepted
// connection gets.
func newTestProtocol(t *testing.T, cfg Config) *Protocol {
	t.Helper()
	kp, err := crypto.GenerateServerKeyPair()
	require.NoError(t, err)
	return NewProtocol(1, kp, cfg)
}

// feed frames body (packet id + fields, already encoded by the caller)
// as an unencrypted, uncompressed frame and hands it to the protocol, the
// way an inbound TCP read would.
func feed(t *testing.T, p *Protocol, body []byte) {
	t.Helper()
	framed := wire.AppendVarInt(make([]byte, 0, wire.VarIntSize(int32(len(body)))+len(body)), int32(len(body)))
	framed = append(framed, body...)
	require.NoError(t, p.FeedInbound(framed))
}

func handshakePacket(nextState int32) []byte {
	w := wire.NewWriter()
	w.VarInt(0x00)
	w.VarInt(47)
	w.String("localhost")
	w.Short(25565)
	w.VarInt(nextState)
	return w.Bytes()
}

// drainOne asserts exactly one outbound frame was queued and returns its
// decoded packet id and a Reader positioned right after it.
func drainOne(t *testing.T, p *Protocol) (int32, *wire.Reader) {
	t.Helper()
	frames := p.DrainOutbound()
	require.Len(t, frames, 1)
	return decodeFrame(t, frames[0])
}

func decodeFrame(t *testing.T, frame []byte) (int32, *wire.Reader) {
	t.Helper()
	r := wire.NewReader(frame)
	_, err := r.VarInt() // frame length prefix
	require.NoError(t, err)
	id, err := r.VarInt()
	require.NoError(t, err)
	return id, r
}

func TestHandshake_ToStatus(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20})
	feed(t, p, handshakePacket(1))
	require.NoError(t, p.ProcessData(Deps{}))
	require.Equal(t, StateStatus, p.State())
}

func TestHandshake_ToLogin(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20})
	feed(t, p, handshakePacket(2))
	require.NoError(t, p.ProcessData(Deps{}))
	require.Equal(t, StateLogin, p.State())
}

func TestHandshake_RejectsBadNextState(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20})
	feed(t, p, handshakePacket(9))
	require.Error(t, p.ProcessData(Deps{}))
}
