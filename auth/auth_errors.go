package auth

import "errors"

var (
	MissingTokensErr  = errors.New("login response is missing tokens")
	MissingProfileErr = errors.New("login response is missing the user")
)
