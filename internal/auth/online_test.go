package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionServiceValidator_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bond_009", r.URL.Query().Get("username"))
		require.Equal(t, "deadbeef", r.URL.Query().Get("serverId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"299ced23a2083ef399e3206968219434","name":"Bond_009","properties":[]}`))
	}))
	defer srv.Close()

	v := NewSessionServiceValidator(srv.URL)
	hash := "deadbeef"
	res, err := v.Validate("Bond_009", &hash)
	require.NoError(t, err)
	require.Equal(t, "Bond_009", res.Username)
	require.Equal(t, "299ced23-a208-3ef3-99e3-206968219434", res.UUID.String())
}

func TestSessionServiceValidator_NotAuthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	v := NewSessionServiceValidator(srv.URL)
	hash := "deadbeef"
	_, err := v.Validate("Bond_009", &hash)
	require.Error(t, err)
}

func TestSessionServiceValidator_RequiresServerIDHash(t *testing.T) {
	v := NewSessionServiceValidator(DefaultSessionServiceURL)
	_, err := v.Validate("Bond_009", nil)
	require.Error(t, err)
}
