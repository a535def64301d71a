package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"notoc/models"
)

// PendingStore holds at most one parsed-but-unresolved transaction per user
// while the bot waits for a disambiguation answer. Starting a new message
// replaces whatever was pending, so a stale keyboard can never commit an
// outdated transaction: its token no longer matches.
type PendingStore struct {
	mu    sync.Mutex
	slots map[int64]*models.PendingTransaction
}

// NewPendingStore creates an empty pending store.
func NewPendingStore() *PendingStore {
	return &PendingStore{
		slots: make(map[int64]*models.PendingTransaction),
	}
}

// Put stores the pending transaction for its user, replacing any previous
// one, and returns the token that must accompany the user's answer.
func (s *PendingStore) Put(pending *models.PendingTransaction) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending.Token = uuid.NewString()
	pending.CreatedAt = time.Now()
	s.slots[pending.UserID] = pending
	return pending.Token
}

// Take removes and returns the user's pending transaction if the token
// matches the one issued by Put. A mismatched token returns nil and leaves
// the slot untouched.
func (s *PendingStore) Take(userID int64, token string) *models.PendingTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.slots[userID]
	if !ok || pending.Token != token {
		return nil
	}
	delete(s.slots, userID)
	return pending
}

// Clear drops the user's pending transaction, if any.
func (s *PendingStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, userID)
}
