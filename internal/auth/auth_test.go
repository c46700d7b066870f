package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOfflineValidator_Fixture(t *testing.T) {
	res, err := OfflineValidator{}.Validate("Bond_009", nil)
	require.NoError(t, err)
	require.Equal(t, "299ced23-a208-3ef3-99e3-206968219434", res.UUID.String())
}

func TestAuthenticator_FIFO(t *testing.T) {
	a := New(OfflineValidator{}, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	for i, name := range []string{"alice", "bob", "carol"} {
		require.True(t, a.Submit(Info{ClientID: uint32(i), Username: name}))
	}

	got := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case res := <-a.Responses():
			require.NoError(t, res.Err)
			got = append(got, res.Username)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for authenticator response")
		}
	}

	require.Equal(t, []string{"alice", "bob", "carol"}, got)
}
