// Package session implements the per-connection protocol state machine:
// decoding inbound packet bodies by (state, id), advancing Handshaking →
// Status/Login → Play, and queuing typed outbound packets for the
// scheduler to flush.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Bond-009/siderite/internal/auth"
	"github.com/Bond-009/siderite/internal/crypto"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/wire"
)

// Config bundles the server-wide settings a Protocol needs but does not
// own, so this package never has to import internal/server.
type Config struct {
	OnlineMode           bool
	CompressionThreshold int32 // negative disables compression
	MOTD                 string
	MaxPlayers           int
	FaviconDataURI       string // empty disables the favicon field in Status
}

// Protocol is one connection's state machine. state is atomic so the
// scheduler's hot-path tick can read it without locking; username/uuid/
// properties are written exactly once (by CompleteAuth) and read rarely,
// so a plain mutex guards them.
type Protocol struct {
	id      uint32
	framer  *wire.Framer
	keyPair *crypto.ServerKeyPair
	cfg     Config

	state atomic.Int32

	mu         sync.Mutex
	username   string
	playerUUID uuid.UUID
	properties []byte

	verifyToken     [4]byte
	pendingUsername string

	lastKeepAliveSent time.Time
	lastKeepAliveRecv time.Time
	pendingKeepAlive  int32
	authSubmitted     bool

	outboundMu sync.Mutex
	outbound   [][]byte

	disconnectReason string
}

// NewProtocol returns a fresh Protocol in the Handshaking state for
// connection id.
func NewProtocol(id uint32, keyPair *crypto.ServerKeyPair, cfg Config) *Protocol {
	p := &Protocol{
		id:                id,
		framer:            wire.NewFramer(),
		keyPair:           keyPair,
		cfg:               cfg,
		lastKeepAliveRecv: time.Now(),
	}
	p.state.Store(int32(StateHandshaking))
	return p
}

// ID returns the connection id assigned by the server's registry.
func (p *Protocol) ID() uint32 { return p.id }

// State returns the current connection state.
func (p *Protocol) State() State { return State(p.state.Load()) }

func (p *Protocol) setState(s State) { p.state.Store(int32(s)) }

// Username returns the authenticated username, empty before Play.
func (p *Protocol) Username() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.username
}

// UUID returns the authenticated uuid, zero before Play.
func (p *Protocol) UUID() uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playerUUID
}

// DisconnectReason returns the human-readable reason the connection was
// (or is about to be) torn down, if any was set.
func (p *Protocol) DisconnectReason() string {
	return p.disconnectReason
}

// FeedInbound hands raw socket bytes to the framer.
func (p *Protocol) FeedInbound(raw []byte) error {
	if err := p.framer.FeedInbound(raw); err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}
	return nil
}

// ProcessData decodes and dispatches every complete packet currently
// buffered in the framer, in arrival order. It never blocks: a partial
// trailing frame is left for the next call. Any decode or dispatch
// failure is returned immediately — the caller must transition the
// connection to Disconnected.
func (p *Protocol) ProcessData(deps Deps) error {
	for {
		payload, ok, err := p.framer.NextPacket()
		if err != nil {
			return protocolerr.New(protocolerr.Malformed, err)
		}
		if !ok {
			return nil
		}

		r := wire.NewReader(payload)
		id, err := r.VarInt()
		if err != nil {
			return protocolerr.New(protocolerr.Malformed, err)
		}

		if err := p.dispatch(id, r, deps); err != nil {
			return err
		}
	}
}

func (p *Protocol) dispatch(id int32, r *wire.Reader, deps Deps) error {
	switch p.State() {
	case StateHandshaking:
		return p.handleHandshaking(id, r)
	case StateStatus:
		return p.handleStatus(id, r, deps)
	case StateLogin:
		return p.handleLogin(id, r, deps)
	case StatePlay:
		return p.handlePlay(id, r, deps)
	default:
		return protocolerr.Newf(protocolerr.Malformed, "packet on disconnected connection")
	}
}

// push frames, optionally compresses, and encrypts body (packet id ∥
// fields already encoded), then queues it for the scheduler to flush.
func (p *Protocol) push(body []byte) error {
	frame, err := p.framer.EncodePacket(body)
	if err != nil {
		return protocolerr.New(protocolerr.Io, err)
	}
	frame = p.framer.EncryptOutbound(frame)

	p.outboundMu.Lock()
	p.outbound = append(p.outbound, frame)
	p.outboundMu.Unlock()
	return nil
}

// DrainOutbound returns and clears every frame queued since the last
// call, ready for the scheduler's batched net.Buffers write.
func (p *Protocol) DrainOutbound() [][]byte {
	p.outboundMu.Lock()
	defer p.outboundMu.Unlock()
	if len(p.outbound) == 0 {
		return nil
	}
	out := p.outbound
	p.outbound = nil
	return out
}

// CompleteAuth installs the authenticated identity once the Authenticator
// resolves a Validate call for this connection, and queues the Play-entry
// packet burst.
func (p *Protocol) CompleteAuth(res auth.Result) error {
	p.mu.Lock()
	p.username = res.Username
	p.playerUUID = res.UUID
	p.properties = res.Properties
	p.mu.Unlock()

	if p.cfg.CompressionThreshold >= 0 {
		if err := p.sendSetCompression(p.cfg.CompressionThreshold); err != nil {
			return err
		}
		p.framer.EnableCompression(p.cfg.CompressionThreshold)
	}

	if err := p.sendLoginSuccess(res.UUID, res.Username); err != nil {
		return err
	}

	p.setState(StatePlay)
	return p.sendPlayEntryBurst()
}

// Deps is the small set of callbacks Protocol needs from its owner during
// packet dispatch — submitting auth requests and reading the current
// online player count — without importing internal/server.
type Deps struct {
	SubmitAuth  func(auth.Info) bool
	OnlineCount func() int
	Broadcast   func(from, message string)
}
