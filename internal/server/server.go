// Package server wires the connection acceptor, the protocol scheduler,
// and the authenticator into one running Minecraft-compatible core, the
// way the teacher's gameserver.Server composes a ClientManager, a
// Handler, and an accept loop around a single net.Listener.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/Bond-009/siderite/internal/auth"
	"github.com/Bond-009/siderite/internal/config"
	"github.com/Bond-009/siderite/internal/crypto"
	"github.com/Bond-009/siderite/internal/scheduler"
	"github.com/Bond-009/siderite/internal/session"
	"github.com/Bond-009/siderite/internal/wire"
)

// Server accepts TCP connections, speaks the legacy-ping/handshake
// preamble, and hands every surviving connection to the scheduler for
// its protocol lifetime.
type Server struct {
	cfg     config.Server
	keyPair *crypto.ServerKeyPair

	authenticator *auth.Authenticator
	scheduler     *scheduler.ConnectionScheduler

	nextID   atomic.Uint32
	listener net.Listener
	favicon  string
}

// loadFaviconDataURI reads a 64x64 PNG from path and returns it as the
// data URI vanilla clients expect in the Status response, or "" if path
// is empty or unreadable.
func loadFaviconDataURI(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reading favicon failed, status responses will omit it", "path", path, "error", err)
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

// New builds a Server from cfg, generating a fresh RSA key pair and
// wiring an Authenticator backed by validator (an auth.OfflineValidator
// in offline mode, or an Yggdrasil-backed implementation supplied by
// whatever embeds this core in online mode).
func New(cfg config.Server, validator auth.Validator) (*Server, error) {
	keyPair, err := crypto.GenerateServerKeyPair()
	if err != nil {
		return nil, fmt.Errorf("generating server key pair: %w", err)
	}

	s := &Server{
		cfg:           cfg,
		keyPair:       keyPair,
		authenticator: auth.New(validator, cfg.MaxPlayers*2),
	}
	s.favicon = loadFaviconDataURI(cfg.FaviconPath)

	s.scheduler = scheduler.New(session.Deps{
		SubmitAuth:  s.authenticator.Submit,
		OnlineCount: func() int { return s.scheduler.CountPlaying() },
		Broadcast:   s.broadcastChat,
	})
	return s, nil
}

// Run starts listening on cfg.BindAddress:cfg.Port and blocks until ctx
// is canceled or a fatal accept error occurs.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = ln

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("server listening", "address", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("accept failed", "error", err)
			continue
		}
		go s.handleAccept(conn)
	}
}

// RunScheduler runs the connection scheduler's tick loop until ctx is
// canceled. Split from Run so main can supervise both with an
// errgroup.
func (s *Server) RunScheduler(ctx context.Context) error {
	return s.scheduler.Run(ctx)
}

// RunAuthenticator runs the authenticator's worker loop and the
// response-dispatch loop that completes each connection's login once
// its validation resolves, until ctx is canceled.
func (s *Server) RunAuthenticator(ctx context.Context) error {
	go s.dispatchAuthResponses(ctx)
	return s.authenticator.Run(ctx)
}

func (s *Server) dispatchAuthResponses(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-s.authenticator.Responses():
			s.completeAuth(res)
		}
	}
}

func (s *Server) completeAuth(res auth.Result) {
	conn := s.scheduler.Get(res.ClientID)
	if conn == nil {
		return // connection already gone
	}

	if res.Err != nil {
		slog.Info("authentication failed", "username", res.Username, "error", res.Err)
		_ = conn.Protocol().SendDisconnect("Failed to verify username")
		return
	}

	if s.scheduler.CountPlaying() >= s.cfg.MaxPlayers {
		_ = conn.Protocol().SendDisconnect("The server is currently full.")
		return
	}

	if err := conn.Protocol().CompleteAuth(res); err != nil {
		slog.Debug("completing auth failed", "username", res.Username, "error", err)
	}
}

func (s *Server) broadcastChat(from, message string) {
	line := fmt.Sprintf("<%s> %s", from, message)
	for _, id := range s.scheduler.PlayingIDs() {
		conn := s.scheduler.Get(id)
		if conn == nil {
			continue
		}
		if err := conn.Protocol().SendChatMessage(line); err != nil {
			slog.Debug("broadcast to connection failed", "conn", id, "error", err)
		}
	}
}

func (s *Server) handleAccept(conn net.Conn) {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	first := make([]byte, 1)
	if _, err := conn.Read(first); err != nil {
		conn.Close()
		return
	}
	if wire.IsLegacyPing(first[0]) {
		rest := make([]byte, 256)
		n, _ := conn.Read(rest)
		wire.DrainLegacyPing(append(first, rest[:n]...))
		conn.Close()
		return
	}

	id := s.nextID.Add(1)
	proto := session.NewProtocol(id, s.keyPair, session.Config{
		OnlineMode:           s.cfg.OnlineMode,
		CompressionThreshold: int32(s.cfg.CompressionThreshold),
		MOTD:                 s.cfg.MOTD,
		MaxPlayers:           s.cfg.MaxPlayers,
		FaviconDataURI:       s.favicon,
	})
	if err := proto.FeedInbound(first); err != nil {
		conn.Close()
		return
	}

	c := scheduler.NewConnection(id, conn, proto)
	s.scheduler.Register(c)
	slog.Debug("accepted connection", "conn", id, "remote", conn.RemoteAddr())
}
