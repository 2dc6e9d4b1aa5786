// Package users implements the credential store: registration, credential
// verification, and account removal over a pluggable storage backend.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/passhash"
)

// Service owns the password protocol on top of a Repository: salted hashing
// at registration, constant-time verification at login.
type Service struct {
	repo   Repository
	hasher *passhash.Hasher

	// decoy is a hash of a random throwaway password. Login verifies the
	// supplied password against it when the username is unknown, so both
	// negative paths pay the key-derivation cost and the response timing
	// does not reveal whether the account exists.
	decoy string
}

// NewService constructs a Service over the given backend.
func NewService(repo Repository, hasher *passhash.Hasher) (*Service, error) {
	throwaway, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("generating decoy password: %w", err)
	}

	decoy, err := hasher.Hash(throwaway)
	if err != nil {
		return nil, fmt.Errorf("hashing decoy password: %w", err)
	}

	return &Service{repo: repo, hasher: hasher, decoy: decoy}, nil
}

// Register creates a new account. The username must be free; the password is
// hashed with a fresh random salt and only the hash is stored. On success the
// returned record carries the newly issued identifier.
//
// Returns common.ErrorUsernameExists if the username is taken and
// common.ErrorHashing if the key-derivation primitive fails; in both cases
// nothing is stored and no identifier is consumed.
func (s *Service) Register(ctx context.Context, userName, password string) (*User, error) {

	_, err := s.repo.GetByUserName(ctx, userName)
	if err == nil {
		return nil, common.ErrorUsernameExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("looking up username: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorHashing, err)
	}

	user := &User{
		ID:           uuid.NewString(),
		UserName:     userName,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Add(ctx, user); err != nil {
		if errors.Is(err, common.ErrorUsernameExists) {
			return nil, common.ErrorUsernameExists
		}
		return nil, fmt.Errorf("storing user: %w", err)
	}

	return user, nil
}

// Login verifies the supplied credentials and returns the account identifier
// on success. Unknown usernames, wrong passwords, and unreadable stored
// hashes all yield the same common.ErrorUnauthorized; callers learn nothing
// about why verification failed. The store is not mutated.
func (s *Service) Login(ctx context.Context, userName, password string) (string, error) {

	user, err := s.repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same KDF cost as the found path
			_, _ = s.hasher.Verify(s.decoy, password)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil || !ok {
		return "", common.ErrorUnauthorized
	}

	return user.ID, nil
}

// Unregister removes the account with the given identifier from both lookup
// views together. A stale or invalid identifier is a recoverable
// common.ErrorUnknownIdentifier, never a crash.
func (s *Service) Unregister(ctx context.Context, userID string) error {

	_, err := s.repo.DeleteByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnknownIdentifier
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	return nil
}
