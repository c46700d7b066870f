// Package constants holds protocol-level constants for the Minecraft
// Java Edition v47 (1.8.x) wire protocol.
package constants

// ProtocolVersion47 is the protocol number advertised by 1.8.x clients.
const ProtocolVersion47 = 47

// VersionName47 is the human-readable version string reported in status responses.
const VersionName47 = "1.8.9"

// Connection states, mirrored 1:1 with the protocol's Handshaking/Status/Login/Play split.
const (
	StateHandshaking = iota
	StateStatus
	StateLogin
	StatePlay
	StateDisconnected
)

// Handshake next_state values.
const (
	HandshakeNextStatus = 1
	HandshakeNextLogin  = 2
)

// Status packet ids (both directions share the id space per-state).
const (
	OpcodeStatusRequest = 0x00
	OpcodeStatusPing    = 0x01
)

// Login client→server packet ids.
const (
	OpcodeLoginStart        = 0x00
	OpcodeEncryptionResp    = 0x01
)

// Login server→client packet ids.
const (
	OpcodeLoginDisconnect = 0x00
	OpcodeEncryptionReq   = 0x01
	OpcodeLoginSuccess    = 0x02
	OpcodeSetCompression  = 0x03
)

// Play client→server packet ids that the core recognizes.
const (
	OpcodePlayKeepAliveSB        = 0x00
	OpcodePlayChatMessage        = 0x01
	OpcodePlayUseEntity          = 0x02
	OpcodePlayPlayer             = 0x03
	OpcodePlayPlayerPosition     = 0x04
	OpcodePlayPlayerLook         = 0x05
	OpcodePlayPlayerPositionLook = 0x06
	OpcodePlayPlayerDigging      = 0x07
	OpcodePlayBlockPlacement     = 0x08
	OpcodePlayHeldItemChange     = 0x09
	OpcodePlayAnimation          = 0x0A
	OpcodePlayEntityAction       = 0x0B
	OpcodePlayCloseWindow        = 0x0D
	OpcodePlayClickWindow        = 0x0E
	OpcodePlayCreativeInvAction  = 0x10
	OpcodePlayPlayerAbilitiesSB  = 0x13
	OpcodePlayClientSettings     = 0x15
	OpcodePlayClientStatus       = 0x16
	OpcodePlayPluginMessageSB    = 0x17
)

// Play server→client packet ids emitted by the core.
const (
	OpcodePlayKeepAliveCB        = 0x00
	OpcodePlayJoinGame           = 0x01
	OpcodePlayChatCB             = 0x02
	OpcodePlayTimeUpdate         = 0x03
	OpcodePlaySpawnPosition      = 0x05
	OpcodePlayPlayerPosLookCB    = 0x08
	OpcodePlaySpawnPlayer        = 0x0C
	OpcodePlayChunkData          = 0x21
	OpcodePlayChangeGameState    = 0x2B
	OpcodePlayPlayerListItem     = 0x38
	OpcodePlayPlayerAbilitiesCB  = 0x39
	OpcodePlayDisconnect         = 0x40
	OpcodePlayServerDifficulty   = 0x41
	OpcodePlayResourcePackSend   = 0x48
)

// RSA handshake constants.
const (
	RSAKeyBits        = 1024
	RSAPublicExponent = 65537
)

// AES/CFB8 shared-secret and verify-token sizes.
const (
	SharedSecretSize = 16
	VerifyTokenSize  = 4
)

// Framing limits.
const (
	// MaxReceiveRing is the inbound ring buffer capacity (spec: ~32 KiB).
	MaxReceiveRing = 32 * 1024
	// MaxReadPerTick bounds bytes read from the socket per non-blocking read (spec: 512).
	MaxReadPerTick = 512
	// MaxVarIntBytes bounds the length of an encoded i32 varint.
	MaxVarIntBytes = 5
	// MaxStringLength guards ReadString against OOM (wiki.vg convention: 32767 UTF-8 bytes, *4 worst case).
	MaxStringLength = 32767 * 4
)

// Timing constants.
const (
	KeepAlivePeriodMillis = 2000
	KeepAliveTimeoutSecs  = 30
	SchedulerTickPeriod   = 50 // milliseconds, 20 Hz
)

// Chunk geometry.
const (
	SectionCount      = 16
	SectionBlockCount = 4096
	NibbleArraySize   = SectionBlockCount / 2
	BiomeMapSize      = 256
	SectionWireSize   = SectionBlockCount*2 + NibbleArraySize + NibbleArraySize
)

// DefaultMaxPlayers mirrors the teacher's config.DefaultLoginServer style
// of baked-in sane defaults.
const (
	DefaultMaxPlayers = 20
)
