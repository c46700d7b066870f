package session

import (
	"encoding/json"
	"time"

	"github.com/Bond-009/siderite/internal/chunk"
	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/wire"
)

// spawnRadius is the half-width, in chunk columns, of the ring sent in the
// Play-entry burst: a 6x6 grid centered on spawn, wide enough that a 1.8
// client's default render distance doesn't immediately ask for more before
// the world source is wired up above this package.
const spawnRadius = 3

func (p *Protocol) handlePlay(id int32, r *wire.Reader, deps Deps) error {
	switch id {
	case constants.OpcodePlayKeepAliveSB:
		return p.handleKeepAlive(r)
	case constants.OpcodePlayChatMessage:
		return p.handleChatMessage(r, deps)
	case constants.OpcodePlayUseEntity,
		constants.OpcodePlayPlayer,
		constants.OpcodePlayPlayerPosition,
		constants.OpcodePlayPlayerLook,
		constants.OpcodePlayPlayerPositionLook,
		constants.OpcodePlayPlayerDigging,
		constants.OpcodePlayBlockPlacement,
		constants.OpcodePlayHeldItemChange,
		constants.OpcodePlayAnimation,
		constants.OpcodePlayEntityAction,
		constants.OpcodePlayCloseWindow,
		constants.OpcodePlayClickWindow,
		constants.OpcodePlayCreativeInvAction,
		constants.OpcodePlayPlayerAbilitiesSB,
		constants.OpcodePlayClientStatus,
		constants.OpcodePlayPluginMessageSB:
		// Accepted and ignored: movement, inventory, and cosmetic packets
		// have no observable effect without a world/entity model behind
		// this package. The payload is already fully consumed by the
		// framer; nothing left to decode field-by-field for a no-op.
		return nil
	case constants.OpcodePlayClientSettings:
		return p.handleClientSettings(r)
	default:
		return protocolerr.Newf(protocolerr.Malformed, "unexpected packet id 0x%02x in Play", id)
	}
}

func (p *Protocol) handleKeepAlive(r *wire.Reader) error {
	id, err := r.VarInt()
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if id != p.pendingKeepAlive {
		// A stale or forged keep-alive id is silently ignored rather than
		// disconnected: vanilla clients occasionally echo a superseded id
		// under packet reordering, and failing the connection over it is
		// needlessly harsh.
		return nil
	}
	p.lastKeepAliveRecv = time.Now()
	return nil
}

func (p *Protocol) handleChatMessage(r *wire.Reader, deps Deps) error {
	msg, err := r.String()
	if err != nil {
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if len(msg) == 0 || len(msg) > 256 {
		return protocolerr.Newf(protocolerr.Malformed, "chat message length %d out of bounds", len(msg))
	}
	if deps.Broadcast != nil {
		deps.Broadcast(p.Username(), msg)
	}
	return nil
}

func (p *Protocol) handleClientSettings(r *wire.Reader) error {
	if _, err := r.String(); err != nil { // locale
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if _, err := r.UByte(); err != nil { // view distance
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if _, err := r.VarInt(); err != nil { // chat mode
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if _, err := r.Bool(); err != nil { // chat colors
		return protocolerr.New(protocolerr.Malformed, err)
	}
	if _, err := r.UByte(); err != nil { // displayed skin parts bitmask
		return protocolerr.New(protocolerr.Malformed, err)
	}
	// Every field here is advisory client preference with no effect on
	// server-side behavior at this layer; parsed only so the packet's
	// bytes are fully consumed before the next one is framed.
	return nil
}

// SendChatMessage queues a chat-box-position chat message built from a
// plain-text chat component, used for relaying other players' messages
// and server-originated notices alike.
func (p *Protocol) SendChatMessage(text string) error {
	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return protocolerr.New(protocolerr.Io, err)
	}

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayChatCB)
	w.String(string(body))
	w.UByte(0) // position: chat box
	return p.push(w.Bytes())
}

// SendKeepAlive issues a new keep-alive challenge if the period has
// elapsed, advancing pendingKeepAlive so handleKeepAlive can match the
// client's echo.
func (p *Protocol) SendKeepAlive(now time.Time) error {
	if now.Sub(p.lastKeepAliveSent) < constants.KeepAlivePeriodMillis*time.Millisecond {
		return nil
	}
	p.lastKeepAliveSent = now
	p.pendingKeepAlive++

	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayKeepAliveCB)
	w.VarInt(p.pendingKeepAlive)
	return p.push(w.Bytes())
}

// CheckTimeout reports whether the connection has gone silent long enough
// to be dropped for failing to answer keep-alives.
func (p *Protocol) CheckTimeout(now time.Time) bool {
	return now.Sub(p.lastKeepAliveRecv) > constants.KeepAliveTimeoutSecs*time.Second
}

// sendPlayEntryBurst queues every packet a 1.8 client expects immediately
// after Login Success: Join Game, spawn/world metadata, a ring of chunk
// columns around spawn, and the player's own position.
func (p *Protocol) sendPlayEntryBurst() error {
	if err := p.sendJoinGame(); err != nil {
		return err
	}
	if err := p.sendServerDifficulty(); err != nil {
		return err
	}
	if err := p.sendSpawnPosition(0, 64, 0); err != nil {
		return err
	}
	if err := p.sendPlayerAbilities(); err != nil {
		return err
	}
	if err := p.sendSpawnChunks(); err != nil {
		return err
	}
	if err := p.sendTimeUpdate(0); err != nil {
		return err
	}
	return p.sendPlayerPositionLook(0.5, 64, 0.5, 0, 0)
}

func (p *Protocol) sendJoinGame() error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayJoinGame)
	w.Int(1)       // entity id
	w.UByte(0)     // gamemode: survival
	w.UByte(0)     // dimension: overworld (signed byte on the wire; 0 fits either)
	w.UByte(0)     // difficulty: peaceful
	w.UByte(uint8(p.cfg.MaxPlayers))
	w.String("default") // level type
	w.Bool(false)        // reduced debug info
	return p.push(w.Bytes())
}

func (p *Protocol) sendServerDifficulty() error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayServerDifficulty)
	w.UByte(0) // peaceful
	return p.push(w.Bytes())
}

func (p *Protocol) sendSpawnPosition(x, y, z int32) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlaySpawnPosition)
	w.Position(x, y, z)
	return p.push(w.Bytes())
}

func (p *Protocol) sendPlayerAbilities() error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayPlayerAbilitiesCB)
	w.UByte(0) // flags: not invulnerable, not flying, can't fly, not creative
	w.Float(0.05)
	w.Float(0.1)
	return p.push(w.Bytes())
}

func (p *Protocol) sendTimeUpdate(worldAge int64) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayTimeUpdate)
	w.Long(worldAge)
	w.Long(0) // time of day
	return p.push(w.Bytes())
}

func (p *Protocol) sendPlayerPositionLook(x, y, z float64, yaw, pitch float32) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayPlayerPosLookCB)
	w.Double(x)
	w.Double(y)
	w.Double(z)
	w.Float(yaw)
	w.Float(pitch)
	w.UByte(0) // all fields absolute
	return p.push(w.Bytes())
}

// sendSpawnChunks emits a 2*spawnRadius-wide square of flat chunk columns
// (chunk coordinates -spawnRadius to spawnRadius-1 on each axis), each a
// four-block stone floor under air, enough for the client to leave the
// loading screen even before a real world source feeds this package.
func (p *Protocol) sendSpawnChunks() error {
	for cx := -spawnRadius; cx < spawnRadius; cx++ {
		for cz := -spawnRadius; cz < spawnRadius; cz++ {
			if err := p.sendChunkColumn(int32(cx), int32(cz), groundColumn()); err != nil {
				return err
			}
		}
	}
	return nil
}

func groundColumn() *chunk.Column {
	col := &chunk.Column{}
	ground := chunk.NewAirSection()
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for y := 0; y < 4; y++ {
				ground.BlockTypes[x+z*16+y*256] = 1 // stone
			}
		}
	}
	col.Sections[0] = ground
	for i := range col.BiomeMap {
		col.BiomeMap[i] = 1 // plains
	}
	return col
}

func (p *Protocol) sendChunkColumn(chunkX, chunkZ int32, col *chunk.Column) error {
	w := wire.NewWriter()
	w.VarInt(constants.OpcodePlayChunkData)
	w.Int(chunkX)
	w.Int(chunkZ)
	w.Bool(true) // ground-up continuous
	w.UShort(col.PrimaryBitMask())
	w.RawBytes(chunk.Write(col))
	return p.push(w.Bytes())
}
