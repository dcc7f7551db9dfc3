package tokens

import "context"

// Repository stores the persisted session token.
//
// Get returns "" (and no error) when no token has been saved; absence is a
// normal state, not a failure.
type Repository interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
