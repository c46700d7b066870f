package session

import (
	"encoding/json"
	"testing"

	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/wire"
	"github.com/stretchr/testify/require"
)

func enterStatus(t *testing.T, p *Protocol) {
	t.Helper()
	feed(t, p, handshakePacket(1))
	require.NoError(t, p.ProcessData(Deps{}))
	require.Equal(t, StateStatus, p.State())
}

func TestStatus_Request(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20, MOTD: "Test Server"})
	enterStatus(t, p)

	w := wire.NewWriter()
	w.VarInt(constants.OpcodeStatusRequest)
	feed(t, p, w.Bytes())

	deps := Deps{OnlineCount: func() int { return 3 }}
	require.NoError(t, p.ProcessData(deps))

	id, r := drainOne(t, p)
	require.EqualValues(t, constants.OpcodeStatusRequest, id)

	body, err := r.String()
	require.NoError(t, err)

	var resp statusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Equal(t, "Test Server", resp.Description.Text)
	require.Equal(t, 20, resp.Players.Max)
	require.Equal(t, 3, resp.Players.Online)
	require.Equal(t, constants.ProtocolVersion47, resp.Version.Protocol)
	require.Contains(t, body, `"sample":[]`)
	require.NotNil(t, resp.Players.Sample)
}

func TestStatus_Ping(t *testing.T) {
	p := newTestProtocol(t, Config{MaxPlayers: 20})
	enterStatus(t, p)

	w := wire.NewWriter()
	w.VarInt(constants.OpcodeStatusPing)
	w.Long(123456789)
	feed(t, p, w.Bytes())
	require.NoError(t, p.ProcessData(Deps{}))

	id, r := drainOne(t, p)
	require.EqualValues(t, constants.OpcodeStatusPing, id)
	payload, err := r.Long()
	require.NoError(t, err)
	require.EqualValues(t, 123456789, payload)
}
