// Package session holds the server-side authentication fact: which browser
// session belongs to which authenticated principal, governed by a sliding
// inactivity window. The stream gateway consults this store on every request,
// so a destroyed session is refused service immediately.
package session

import (
	"context"
	"errors"

	"PosFM/model"
)

// ErrNoSession 会话不存在或已因不活动而过期
var ErrNoSession = errors.New("session: no such session")

// Store manages server sessions keyed by an opaque session ID.
type Store interface {
	// Create registers sid as belonging to principalID. Re-creating an
	// existing sid overwrites it (idempotent per principal).
	Create(ctx context.Context, sid, principalID string) error

	// Verify returns the session for sid and slides its inactivity window.
	// Returns ErrNoSession when the session is absent or expired.
	Verify(ctx context.Context, sid string) (*model.ServerSession, error)

	// Destroy removes the session. Destroying an absent session is not an
	// error; the removal is observable by the very next Verify call.
	Destroy(ctx context.Context, sid string) error
}
