package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/credstore/internal/common"
)

// InMemoryRepository keeps all records in two maps: byID is the primary
// ownership view, byName the secondary lookup view. The issued set remembers
// every identifier this repository has ever accepted, so identifiers are
// never reused even after deletion.
//
// The repository is single-owner and does no locking of its own; concurrent
// callers must go through SerializedService or an equivalent boundary.
type InMemoryRepository struct {
	byID   map[string]*User
	byName map[string]*User
	issued map[string]struct{}
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:   make(map[string]*User),
		byName: make(map[string]*User),
		issued: make(map[string]struct{}),
	}
}

func (r *InMemoryRepository) Add(ctx context.Context, user *User) error {
	if _, ok := r.byName[user.UserName]; ok {
		return common.ErrorUsernameExists
	}
	if _, ok := r.issued[user.ID]; ok {
		return common.ErrorIdentifierExists
	}

	// both views point at the same record
	r.byID[user.ID] = user
	r.byName[user.UserName] = user
	r.issued[user.ID] = struct{}{}

	return nil
}

func (r *InMemoryRepository) GetByUserName(ctx context.Context, userName string) (*User, error) {
	user, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) DeleteByID(ctx context.Context, id string) (*User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if _, ok := r.byName[user.UserName]; !ok {
		// the record was reachable by id but not by username: the two
		// views have diverged, which no completed operation may produce
		return nil, fmt.Errorf("%w: user %s missing from username index", common.ErrorInternal, id)
	}

	delete(r.byID, id)
	delete(r.byName, user.UserName)

	return user, nil
}

// Counts reports the number of entries in each view. Used by tests to check
// that the views stay in lockstep.
func (r *InMemoryRepository) Counts() (byID, byName int) {
	return len(r.byID), len(r.byName)
}
