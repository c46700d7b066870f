// Package scheduler ticks every live connection at a fixed rate rather
// than dedicating a goroutine to each socket's protocol logic: a single
// goroutine walks the registry every SchedulerTickPeriod, feeding
// whatever bytes a background reader has buffered into that
// connection's session.Protocol and flushing whatever it queued back
// out. Writes reuse the teacher's net.Buffers batching but run on the
// scheduler goroutine itself (there is no per-connection writer); reads
// replace its one-goroutine-blocks-on-Read-per-client path with a
// background reader per connection feeding the non-blocking tick the
// protocol's keep-alive/timeout bookkeeping assumes.
package scheduler

import (
	"log/slog"
	"net"
	"time"

	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/protocolerr"
	"github.com/Bond-009/siderite/internal/session"
)

// inboundQueueSize bounds how many reads can outrun the scheduler tick
// before the reader goroutine blocks, applying backpressure to a slow
// or malicious client without an unbounded goroutine-local buffer.
const inboundQueueSize = 64

// Connection pairs a socket with its protocol state machine and the
// background reader feeding it.
type Connection struct {
	id    uint32
	conn  net.Conn
	proto *session.Protocol

	inbound chan []byte
	readErr chan error
}

// NewConnection wraps conn with a fresh Connection and starts its
// background reader goroutine. The reader's only job is turning a
// blocking socket into a channel of chunks the tick loop can drain
// without blocking; all protocol decoding still happens on the
// scheduler goroutine.
func NewConnection(id uint32, conn net.Conn, proto *session.Protocol) *Connection {
	c := &Connection{
		id:      id,
		conn:    conn,
		proto:   proto,
		inbound: make(chan []byte, inboundQueueSize),
		readErr: make(chan error, 1),
	}
	go c.readLoop()
	return c
}

func (c *Connection) readLoop() {
	buf := make([]byte, constants.MaxReadPerTick)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			c.inbound <- chunk
		}
		if err != nil {
			c.readErr <- err
			close(c.inbound)
			return
		}
	}
}

// ID returns the connection's registry key.
func (c *Connection) ID() uint32 { return c.id }

// Protocol returns the connection's state machine.
func (c *Connection) Protocol() *session.Protocol { return c.proto }

// Close tears down the underlying socket; the reader goroutine exits on
// its next failed Read.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// tick drains whatever the reader has buffered, advances the protocol,
// issues a keep-alive if due, and flushes any queued outbound frames.
// It returns a non-nil error when the connection should be removed
// from the scheduler and closed.
func (c *Connection) tick(now time.Time, deps session.Deps) error {
drain:
	for {
		select {
		case chunk, ok := <-c.inbound:
			if !ok {
				select {
				case err := <-c.readErr:
					return protocolerr.New(protocolerr.Io, err)
				default:
					return protocolerr.Newf(protocolerr.Io, "connection closed")
				}
			}
			if err := c.proto.FeedInbound(chunk); err != nil {
				return err
			}
		default:
			break drain
		}
	}

	if err := c.proto.ProcessData(deps); err != nil {
		// A handler may have already queued a Disconnect packet (e.g. a
		// verify-token mismatch) before returning the error; flush it
		// before tearing the connection down.
		_ = c.flush()
		return err
	}

	if c.proto.State() == session.StatePlay {
		if err := c.proto.SendKeepAlive(now); err != nil {
			return err
		}
		if c.proto.CheckTimeout(now) {
			_ = c.proto.SendDisconnect("Timed out!")
			_ = c.flush()
			return protocolerr.Newf(protocolerr.Io, "keep-alive timeout")
		}
	}

	return c.flush()
}

func (c *Connection) flush() error {
	frames := c.proto.DrainOutbound()
	if len(frames) == 0 {
		return nil
	}

	bufs := make(net.Buffers, len(frames))
	copy(bufs, frames)
	if _, err := bufs.WriteTo(c.conn); err != nil {
		return protocolerr.New(protocolerr.Io, err)
	}
	return nil
}

// disconnect writes a best-effort Disconnect/Login Disconnect packet for
// user-visible error kinds before the caller closes the socket.
func (c *Connection) disconnect(cause error) {
	perr, ok := cause.(*protocolerr.Error)
	if !ok || !perr.Kind.Disconnectable() {
		return
	}

	if err := c.proto.SendDisconnect(perr.Error()); err != nil {
		slog.Debug("failed to queue disconnect packet", "conn", c.id, "error", err)
		return
	}
	_ = c.flush()
}
