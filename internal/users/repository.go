package users

import (
	"context"
)

// Repository is the storage backend for user records. Implementations keep
// two views of the same records, by identifier and by username, and must
// mutate them together: after any completed call a record is reachable from
// both views or from neither.
type Repository interface {
	// Add inserts a new record into both views as one logical step.
	// Returns common.ErrorUsernameExists if the username is taken and
	// common.ErrorIdentifierExists if the identifier was ever issued
	// before; in either case nothing is stored.
	Add(ctx context.Context, user *User) error

	// GetByUserName returns the record for the given username, or
	// common.ErrorNotFound.
	GetByUserName(ctx context.Context, userName string) (*User, error)

	// GetByID returns the record for the given identifier, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// DeleteByID removes the record from both views together and returns
	// the removed record. Returns common.ErrorNotFound for an unknown
	// identifier. A record present in one view but missing from the other
	// is an internal-consistency fault and surfaces as a wrapped
	// common.ErrorInternal.
	DeleteByID(ctx context.Context, id string) (*User, error)
}
