package session

import (
	"bytes"
	"crypto/rand"

	"github.com/google/uuid"

	"github.com/Bond-009/siderite/internal/auth"
	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/crypto"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/wire"
)

func (p *Protocol) handleLogin(id int32, r *wire.Reader, deps Deps) error {
	switch id {
	case constants.OpcodeLoginStart:
		return p.handleLoginStart(r, deps)
	case constants.OpcodeEncryptionResp:
		return p.handleEncryptionResponse(r, deps)
	default:
		return protocolerr.Newf(protocolerr.Malformed, "unexpected packet id 0x%02x in Login", id)
	}
}

func (p *Protocol) handleLoginStart(r *wire.Reader, deps Deps) error {
	username, err := r.String()
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}
	p.pendingUsername = username

	if !p.cfg.OnlineMode {
		return p.submitAuth(deps, nil)
	}

	if _, err := rand.Read(p.verifyToken[:]); err != nil {
		return protocolerr.New(protocolerr.Io, err)
	}
	return p.sendEncryptionRequest()
}

func (p *Protocol) handleEncryptionResponse(r *wire.Reader, deps Deps) error {
	secretLen, err := r.VarInt()
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}
	encSecret, err := r.RawBytes(int(secretLen))
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}

	tokenLen, err := r.VarInt()
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}
	encToken, err := r.RawBytes(int(tokenLen))
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}

	sharedSecret, err := p.keyPair.DecryptSharedSecret(encSecret)
	if err != nil {
		return protocolerr.New(protocolerr.CryptoMismatch, err)
	}
	verifyToken, err := p.keyPair.DecryptSharedSecret(encToken)
	if err != nil {
		return protocolerr.New(protocolerr.CryptoMismatch, err)
	}
	if !bytes.Equal(verifyToken, p.verifyToken[:]) {
		_ = p.SendDisconnect("Hacked client")
		return protocolerr.Newf(protocolerr.CryptoMismatch, "verify token mismatch")
	}

	streams, err := crypto.NewStreamPair(sharedSecret)
	if err != nil {
		return protocolerr.New(protocolerr.CryptoMismatch, err)
	}
	p.framer.SetCipher(streams.Decrypt, streams.Encrypt)

	hash := crypto.ServerHash("", sharedSecret, p.keyPair.PublicKeyDER)
	return p.submitAuth(deps, &hash)
}

func (p *Protocol) submitAuth(deps Deps, serverIDHash *string) error {
	if p.authSubmitted {
		return nil
	}
	p.authSubmitted = true

	info := auth.Info{
		ClientID:     p.id,
		Username:     p.pendingUsername,
		ServerIDHash: serverIDHash,
	}
	if deps.SubmitAuth == nil || !deps.SubmitAuth(info) {
		return protocolerr.Newf(protocolerr.AuthFailed, "authenticator queue saturated")
	}
	return nil
}

func (p *Protocol) sendEncryptionRequest() error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodeEncryptionReq)
	w.String("") // server id, always empty for the vanilla 1.8 handshake
	w.VarInt(int32(len(p.keyPair.PublicKeyDER)))
	w.RawBytes(p.keyPair.PublicKeyDER)
	w.VarInt(int32(len(p.verifyToken)))
	w.RawBytes(p.verifyToken[:])
	return p.push(w.Bytes())
}

func (p *Protocol) sendSetCompression(threshold int32) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodeSetCompression)
	w.VarInt(threshold)
	return p.push(w.Bytes())
}

func (p *Protocol) sendLoginSuccess(id uuid.UUID, username string) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodeLoginSuccess)
	w.String(id.String())
	w.String(username)
	return p.push(w.Bytes())
}
