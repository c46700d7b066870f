package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/Bond-009/siderite/internal/constants"
)

// ServerKeyPair holds the RSA-1024 key pair used for the Login state's
// shared-secret exchange, plus the DER encoding of the public key the
// protocol sends verbatim in Encryption Request and hashes into the
// session-service digest.
type ServerKeyPair struct {
	PrivateKey   *rsa.PrivateKey
	PublicKeyDER []byte
}

// GenerateServerKeyPair generates a fresh RSA-1024 key pair with the
// standard public exponent and caches its DER encoding.
func GenerateServerKeyPair() (*ServerKeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, constants.RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}
	priv.Precompute()

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}

	return &ServerKeyPair{
		PrivateKey:   priv,
		PublicKeyDER: der,
	}, nil
}

// DecryptSharedSecret unwraps a PKCS#1 v1.5-padded ciphertext (either the
// 16-byte shared secret or the 4-byte verify token echoed back by the
// client in Encryption Response).
func (kp *ServerKeyPair) DecryptSharedSecret(ciphertext []byte) ([]byte, error) {
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, kp.PrivateKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("RSA decrypt: %w", err)
	}
	return plain, nil
}
