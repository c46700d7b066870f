package wire

// LegacyPingMarker is the first byte of a 1.4-1.6 "server list ping",
// which predates the varint-framed protocol entirely.
const LegacyPingMarker = 0xFE

// IsLegacyPing reports whether the first byte peeked off a freshly
// accepted connection indicates a legacy (pre-1.7) ping rather than the
// normal varint-framed Handshake packet.
func IsLegacyPing(first byte) bool {
	return first == LegacyPingMarker
}

// DrainLegacyPing consumes the nonstandard legacy ping payload from raw
// (payload byte 0x01, an MC|PingHost plugin channel, protocol version,
// hostname, port) so that bytes belonging to a legacy client never reach
// the varint parser. The original siderite implementation never replies;
// this port preserves that behavior — legacy clients simply see the
// connection close.
func DrainLegacyPing(raw []byte) {
	// Nothing to extract: the core does not serve 1.4-1.6 clients, it only
	// needs to recognize and discard the handshake so a legacy probe can't
	// desynchronize the varint parser on a later, well-formed connection.
	_ = raw
}
