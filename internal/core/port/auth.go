package port

import (
	"context"

	"todos/pkg/auth"
)

// TokenVerifier turns an Authorization header value into verified claims,
// or fails with one of the auth sentinel errors.
type TokenVerifier interface {
	Verify(ctx context.Context, authHeader string) (auth.Claims, error)
}
