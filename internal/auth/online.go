package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionServiceURL is Mojang's production hasJoined endpoint.
const DefaultSessionServiceURL = "https://sessionserver.mojang.com/session/minecraft/hasJoined"

// SessionServiceValidator implements Validator against a Mojang/Yggdrasil
// compatible session service, the online-mode join check vanilla servers
// perform after the Encryption Response handshake completes. There is no
// session-service client in the example pack to ground this on, and no
// protocol concern here (framing, crypto, serialization) that an
// ecosystem library would meaningfully simplify over a single signed GET
// request — this is the one place the core reaches for net/http instead
// of a third-party client.
type SessionServiceValidator struct {
	baseURL string
	client  *http.Client
}

// NewSessionServiceValidator returns a validator querying baseURL (pass
// DefaultSessionServiceURL in production; tests substitute an httptest
// server).
func NewSessionServiceValidator(baseURL string) *SessionServiceValidator {
	return &SessionServiceValidator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type hasJoinedResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Properties json.RawMessage `json:"properties"`
}

// Validate performs the hasJoined round trip. serverIDHash must be
// non-nil — a nil hash means the caller skipped the encryption handshake,
// which online mode never allows.
func (v *SessionServiceValidator) Validate(username string, serverIDHash *string) (Result, error) {
	if serverIDHash == nil {
		return Result{}, fmt.Errorf("online mode requires a server id hash")
	}

	q := url.Values{}
	q.Set("username", username)
	q.Set("serverId", *serverIDHash)

	resp, err := v.client.Get(v.baseURL + "?" + q.Encode())
	if err != nil {
		return Result{}, fmt.Errorf("session service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return Result{}, fmt.Errorf("session service rejected %q: not authenticated", username)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("session service returned status %d", resp.StatusCode)
	}

	var body hasJoinedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decoding session service response: %w", err)
	}

	id, err := uuid.Parse(body.ID)
	if err != nil {
		return Result{}, fmt.Errorf("parsing session uuid %q: %w", body.ID, err)
	}

	return Result{
		Username:   body.Name,
		UUID:       id,
		Properties: body.Properties,
	}, nil
}
