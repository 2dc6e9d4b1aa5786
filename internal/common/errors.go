// Package common defines shared constants and sentinel errors used across
// the credential store. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound         = errors.New("not found")
	ErrorUsernameExists   = errors.New("username already exists")
	ErrorIdentifierExists = errors.New("identifier already issued")

	// service specific errors
	ErrorInternal          = errors.New("internal error")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorHashing           = errors.New("password hashing failed")
	ErrorUnknownIdentifier = errors.New("unknown identifier")

	// auth errors (invalid or malformed token)
	ErrorInvalidToken = errors.New("invalid token")
)
