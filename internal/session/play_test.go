package session

import (
	"strings"
	"testing"
	"time"

	"github.com/Bond-009/siderite/internal/auth"
	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/wire"
	"github.com/stretchr/testify/require"
)

func enterPlay(t *testing.T, p *Protocol, username string) {
	t.Helper()
	require.NoError(t, p.CompleteAuth(auth.Result{Username: username, UUID: [16]byte{2}}))
	p.DrainOutbound() // discard the entry burst, irrelevant to the tests below
}

func TestPlay_ChatMessageBroadcasts(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, CompressionThreshold: -1})
	enterPlay(t, p, "Bond_009")

	var gotFrom, gotMsg string
	deps := Deps{Broadcast: func(from, msg string) { gotFrom, gotMsg = from, msg }}

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayChatMessage)
	w.String("hello world")
	feed(t, p, w.Bytes())
	require.NoError(t, p.ProcessData(deps))

	require.Equal(t, "Bond_009", gotFrom)
	require.Equal(t, "hello world", gotMsg)
}

func TestPlay_ChatMessageRejectsEmptyAndOversize(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, CompressionThreshold: -1})
	enterPlay(t, p, "Bond_009")

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayChatMessage)
	w.String("")
	feed(t, p, w.Bytes())
	require.Error(t, p.ProcessData(Deps{}))

	w = wire.NewWriter()
	w.VarInt(constants.OpcodePlayChatMessage)
	w.String(strings.Repeat("a", 257))
	feed(t, p, w.Bytes())
	require.Error(t, p.ProcessData(Deps{}))
}

func TestPlay_KeepAliveRoundTrip(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, CompressionThreshold: -1})
	enterPlay(t, p, "Bond_009")

	require.NoError(t, p.SendKeepAlive(time.Now().Add(time.Hour)))
	id, r := drainOne(t, p)
	require.EqualValues(t, constants.OpcodePlayKeepAliveCB, id)
	sentID, err := r.VarInt()
	require.NoError(t, err)

	before := p.lastKeepAliveRecv

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayKeepAliveSB)
	w.VarInt(sentID)
	feed(t, p, w.Bytes())
	require.NoError(t, p.ProcessData(Deps{}))

	require.True(t, p.lastKeepAliveRecv.After(before))
}

func TestPlay_CheckTimeout(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, CompressionThreshold: -1})
	enterPlay(t, p, "Bond_009")

	require.False(t, p.CheckTimeout(time.Now()))
	future := time.Now().Add((constants.KeepAliveTimeoutSecs + 5) * time.Second)
	require.True(t, p.CheckTimeout(future))
}

func TestPlay_ClientSettingsConsumedWithoutError(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, CompressionThreshold: -1})
	enterPlay(t, p, "Bond_009")

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayClientSettings)
	w.String("en_US")
	w.UByte(8)
	w.VarInt(0)
	w.Bool(true)
	w.UByte(0x7f)
	feed(t, p, w.Bytes())
	require.NoError(t, p.ProcessData(Deps{}))
	require.Empty(t, p.DrainOutbound())
}

func TestPlay_MovementPacketIgnored(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, CompressionThreshold: -1})
	enterPlay(t, p, "Bond_009")

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayPlayerPosition)
	w.Double(1)
	w.Double(2)
	w.Double(3)
	w.Bool(true)
	feed(t, p, w.Bytes())
	require.NoError(t, p.ProcessData(Deps{}))
	require.Empty(t, p.DrainOutbound())
}
