// Package auth runs the asynchronous authentication-ticket exchange: a
// single worker goroutine drains a FIFO queue of login attempts and calls
// out to a pluggable Validator so the I/O scheduler's tick never
// blocks on a network round trip to the session service.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Info is one pending authentication attempt, queued by a Protocol as
// soon as it knows the client's username (and, in online mode, the
// server-id hash it handed the client for the Mojang join-check).
type Info struct {
	ClientID uint32
	Username string
	// ServerIDHash is nil in offline mode, where no session-service round
	// trip happens.
	ServerIDHash *string
}

// Result carries the outcome of one Info back to whichever connection
// submitted it.
type Result struct {
	ClientID   uint32
	Username   string
	UUID       uuid.UUID
	Properties []byte // raw JSON properties array, nil unless an online validator sets it
	Err        error
}

// Validator resolves a username (and, online, a server-id hash) to the
// canonical username/uuid/properties triple. This package provides
// OfflineValidator (no network access) and SessionServiceValidator (an
// HTTP client for a Mojang/Yggdrasil compatible session service); any
// other implementation can be plugged in the same way.
type Validator interface {
	Validate(username string, serverIDHash *string) (Result, error)
}

// OfflineValidator satisfies Validator without any network access,
// deriving a stable uuid from the username alone.
type OfflineValidator struct{}

// Validate implements Validator by deriving the offline uuid; it never
// fails.
func (OfflineValidator) Validate(username string, _ *string) (Result, error) {
	return Result{
		Username: username,
		UUID:     offlineUUID(username),
	}, nil
}

// Authenticator is the single-goroutine worker that serializes all
// session-validator calls, so a slow or stalled session-service request
// can never stall the connection scheduler.
type Authenticator struct {
	validator Validator
	requests  chan Info
	responses chan Result
}

// New returns an Authenticator backed by validator, with FIFO request and
// response queues sized to queueSize.
func New(validator Validator, queueSize int) *Authenticator {
	return &Authenticator{
		validator: validator,
		requests:  make(chan Info, queueSize),
		responses: make(chan Result, queueSize),
	}
}

// Submit enqueues info for validation. Returns false without blocking if
// the request queue is saturated — the caller should treat that the same
// as an AuthFailed response.
func (a *Authenticator) Submit(info Info) bool {
	select {
	case a.requests <- info:
		return true
	default:
		return false
	}
}

// Responses returns the channel the owner drains to learn the outcome of
// previously submitted requests.
func (a *Authenticator) Responses() <-chan Result {
	return a.responses
}

// Run processes requests in FIFO order until ctx is canceled.
func (a *Authenticator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case info, ok := <-a.requests:
			if !ok {
				return nil
			}
			a.handle(info)
		}
	}
}

func (a *Authenticator) handle(info Info) {
	res, err := a.validator.Validate(info.Username, info.ServerIDHash)
	res.ClientID = info.ClientID
	if err != nil {
		res.Err = fmt.Errorf("validating %q: %w", info.Username, err)
	}

	select {
	case a.responses <- res:
	default:
		// Response queue saturated: the owning connection is almost
		// certainly gone already (it would have polled Responses() by
		// now), so dropping here is preferable to blocking the one
		// authenticator goroutine indefinitely.
	}
}
