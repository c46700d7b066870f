package session

import (
	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/wire"
)

func (p *Protocol) handleHandshaking(id int32, r *wire.Reader) error {
	if id != 0x00 {
		return protocolerr.Newf(protocolerr.Malformed, "unexpected packet id 0x%02x in Handshaking", id)
	}

	if _, err := r.VarInt(); err != nil { // protocol version, informational only
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if _, err := r.String(); err != nil { // server address
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if _, err := r.Short(); err != nil { // server port
		return protocolerr.New(protocolerr.Malformed, err)
	}
	next, err := r.VarInt()
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}

	switch next {
	case constants.HandshakeNextStatus:
		p.setState(StateStatus)
	case constants.HandshakeNextLogin:
		p.setState(StateLogin)
	default:
		return protocolerr.Newf(protocolerr.Malformed, "invalid handshake next_state %d", next)
	}
	return nil
}
