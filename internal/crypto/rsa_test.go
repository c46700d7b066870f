package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerKeyPair_DecryptSharedSecret(t *testing.T) {
	kp, err := GenerateServerKeyPair()
	require.NoError(t, err)
	require.NotEmpty(t, kp.PublicKeyDER)

	secret := make([]byte, 16)
	_, err = rand.Read(secret)
	require.NoError(t, err)

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &kp.PrivateKey.PublicKey, secret)
	require.NoError(t, err)

	decrypted, err := kp.DecryptSharedSecret(ciphertext)
	require.NoError(t, err)
	require.Equal(t, secret, decrypted)
}
