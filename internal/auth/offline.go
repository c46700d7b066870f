package auth

import (
	"github.com/google/uuid"

	"github.com/Bond-009/siderite/internal/crypto"
)

func offlineUUID(username string) uuid.UUID {
	return crypto.OfflineUUID(username)
}
