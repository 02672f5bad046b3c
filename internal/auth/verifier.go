package auth

import "context"

// Verifier validates a bearer token issued by the identity provider and
// returns the provider subject it was issued to. Implementations must reject
// expired, malformed, or foreign tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}
