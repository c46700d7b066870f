package session

import (
	"encoding/json"

	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/wire"
)

type chatComponent struct {
	Text string `json:"text"`
}

// SendDisconnect queues the state-appropriate Disconnect packet (Login
// Disconnect before Play, the Play Disconnect otherwise) carrying reason
// as a plain-text chat component. It is used for the user-visible
// protocolerr kinds (AuthFailed, Full) and also for the fixed reasons
// queued inline on a verify-token mismatch, a keep-alive timeout, or a
// failed or full-server login.
func (p *Protocol) SendDisconnect(reason string) error {
	p.disconnectReason = reason

	body, err := json.Marshal(chatComponent{Text: reason})
	if err != nil {
		return protocolerr.New(protocolerr.Io, err)
	}

	w := wire.NewWriter()
	if p.State() == StatePlay {
		w.VarInt(constants.OpcodePlayDisconnect)
	} else {
		w.VarInt(constants.OpcodeLoginDisconnect)
	}
	w.String(string(body))
	return p.push(w.Bytes())
}
