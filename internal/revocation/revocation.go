// Package revocation records signed-out session tokens until they expire.
package revocation

import (
	"context"
	"time"
)

// Store remembers revoked token IDs (the JWT "jti" claim). An entry only
// needs to live until the token's own expiry.
type Store interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}
