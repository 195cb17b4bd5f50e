package auth

import "context"

// Service signs dashboard users in. Login checks the credentials against the
// stored account and returns a signed JWT whose subject is the user id.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}
