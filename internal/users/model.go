package users

import "time"

// User is one registered account. The record is immutable after creation;
// the only lifecycle transitions are create and delete.
type User struct {
	// ID is the opaque caller-facing handle: a UUIDv4 assigned once at
	// creation and never reused, so it can be bound to sessions
	// independently of the username.
	ID string

	// UserName is the unique human-chosen login, used as the lookup key
	// for verification.
	UserName string

	// PasswordHash is the PHC-encoded output of the key-derivation
	// function. The plaintext password is never stored.
	PasswordHash string

	CreatedAt time.Time
}
