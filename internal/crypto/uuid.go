package crypto

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// offlinePrefix mirrors the vanilla server's deterministic id for players
// that never touched the session service.
const offlinePrefix = "OfflinePlayer:"

// OfflineUUID derives a stable, version-3 (MD5) UUID for a username, the
// same scheme vanilla offline-mode servers use (Java's
// UUID.nameUUIDFromBytes: a plain MD5 digest of the name bytes, with no
// namespace prefix) so that a given name always maps to the same id
// across restarts.
func OfflineUUID(username string) uuid.UUID {
	sum := md5.Sum([]byte(offlinePrefix + username))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC4122 variant
	return uuid.UUID(sum)
}
