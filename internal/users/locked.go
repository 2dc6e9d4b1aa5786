package users

import (
	"context"
	"sync"
)

// SerializedService wraps a Service behind a mutex so that concurrent
// callers observe the dual-index invariant atomically: two concurrent
// registrations of the same username cannot both succeed, and a login
// concurrent with a removal cannot report success for the removed account.
//
// The underlying Service and its repository stay single-owner; this wrapper
// is the serialization boundary a shared deployment is expected to use.
type SerializedService struct {
	mu sync.Mutex
	s  *Service
}

func NewSerializedService(s *Service) *SerializedService {
	return &SerializedService{s: s}
}

func (l *SerializedService) Register(ctx context.Context, userName, password string) (*User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Register(ctx, userName, password)
}

func (l *SerializedService) Login(ctx context.Context, userName, password string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Login(ctx, userName, password)
}

func (l *SerializedService) Unregister(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Unregister(ctx, userID)
}
