package session

import (
	"encoding/json"

	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/wire"
)

type statusResponse struct {
	Version     statusVersion     `json:"version"`
	Players     statusPlayers     `json:"players"`
	Description statusDescription `json:"description"`
	Favicon     string            `json:"favicon,omitempty"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int                  `json:"max"`
	Online int                  `json:"online"`
	Sample []statusPlayerSample `json:"sample"`
}

type statusPlayerSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type statusDescription struct {
	Text string `json:"text"`
}

func (p *Protocol) handleStatus(id int32, r *wire.Reader, deps Deps) error {
	switch id {
	case constants.OpcodeStatusRequest:
		return p.sendStatusResponse(deps)
	case constants.OpcodeStatusPing:
		payload, err := r.Long()
		if err != nil {
			return protocolerr.New(protocolerr.Malformed, err)
		}
		return p.sendPong(payload)
	default:
		return protocolerr.Newf(protocolerr.Malformed, "unexpected packet id 0x%02x in Status", id)
	}
}

func (p *Protocol) sendStatusResponse(deps Deps) error {
	online := 0
	if deps.OnlineCount != nil {
		online = deps.OnlineCount()
	}

	resp := statusResponse{
		Version: statusVersion{Name: constants.VersionName47, Protocol: constants.ProtocolVersion47},
		Players: statusPlayers{Max: p.cfg.MaxPlayers, Online: online, Sample: []statusPlayerSample{}},
		Description: statusDescription{
			Text: p.cfg.MOTD,
		},
		Favicon: p.cfg.FaviconDataURI,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return protocolerr.New(protocolerr.Io, err)
	}

	w := wire.NewWriter()
	w.VarInt(constants.OpcodeStatusRequest)
	w.String(string(body))
	return p.push(w.Bytes())
}

func (p *Protocol) sendPong(payload int64) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodeStatusPing)
	w.Long(payload)
	return p.push(w.Bytes())
}
