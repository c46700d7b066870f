package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/Bond-009/siderite/internal/auth"
	"github.com/Bond-009/siderite/internal/session"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterUnregisterCount(t *testing.T) {
	s := New(session.Deps{})
	c1, _ := newPipeConnection(t, 1)
	c2, _ := newPipeConnection(t, 2)

	s.Register(c1)
	s.Register(c2)
	require.Equal(t, 2, s.Count())
	require.Same(t, c1, s.Get(c1.ID()))

	s.Unregister(c1.ID())
	require.Equal(t, 1, s.Count())
	require.Nil(t, s.Get(c1.ID()))
}

func TestScheduler_CountPlayingAndPlayingIDs(t *testing.T) {
	s := New(session.Deps{})
	c1, _ := newPipeConnection(t, 1)
	s.Register(c1)

	require.Equal(t, 0, s.CountPlaying())
	require.Empty(t, s.PlayingIDs())

	require.NoError(t, c1.proto.CompleteAuth(auth.Result{Username: "Bond_009", UUID: [16]byte{4}}))

	require.Equal(t, 1, s.CountPlaying())
	require.Equal(t, []uint32{c1.ID()}, s.PlayingIDs())
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s := New(session.Deps{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
