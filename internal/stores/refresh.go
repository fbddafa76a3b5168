package stores

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RefreshRecord binds an opaque refresh token to the identity and role
// captured at minting time. A later role change on the identity does not
// retroactively affect an already-issued record. ExpiresAt is absolute
// epoch milliseconds.
type RefreshRecord struct {
	Username  string
	Role      string
	ExpiresAt int64
}

// RefreshStore is the in-memory mapping from opaque refresh-token strings
// to their bound records. All methods are safe for concurrent use; each
// operation is an atomic read-modify-write on the token key.
type RefreshStore struct {
	mu      sync.Mutex
	records map[string]RefreshRecord
	ttl     time.Duration
	now     func() int64
}

// NewRefreshStore creates an empty store whose records expire ttl after
// minting.
func NewRefreshStore(ttl time.Duration) *RefreshStore {
	return &RefreshStore{
		records: make(map[string]RefreshRecord),
		ttl:     ttl,
		now:     epochMillis,
	}
}

func epochMillis() int64 {
	return time.Now().UnixMilli()
}

// Mint generates a new opaque random token bound to username+role and
// inserts its record. The token space is 128-bit random; collisions are
// not checked.
func (s *RefreshStore) Mint(username, role string) string {
	token := uuid.NewString()
	record := RefreshRecord{
		Username:  username,
		Role:      role,
		ExpiresAt: s.now() + s.ttl.Milliseconds(),
	}

	s.mu.Lock()
	s.records[token] = record
	s.mu.Unlock()

	return token
}

// Redeem looks the token up without consuming it; rotation deletes at the
// call-site after a successful redemption. Expired records are purged on
// read and reported as absent, independent of the periodic sweep.
func (s *RefreshStore) Redeem(token string) (RefreshRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[token]
	if !ok {
		return RefreshRecord{}, false
	}
	if s.now() > record.ExpiresAt {
		delete(s.records, token)
		return RefreshRecord{}, false
	}

	return record, true
}

// Revoke removes the token unconditionally. Revoking an absent token is a
// no-op, not an error.
func (s *RefreshStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.records, token)
	s.mu.Unlock()
}

// RevokeAll removes every record bound to username ("log out everywhere").
func (s *RefreshStore) RevokeAll(username string) {
	s.mu.Lock()
	for token, record := range s.records {
		if record.Username == username {
			delete(s.records, token)
		}
	}
	s.mu.Unlock()
}

// Sweep removes every expired record. Called by the periodic reclaimer.
func (s *RefreshStore) Sweep() {
	now := s.now()

	s.mu.Lock()
	for token, record := range s.records {
		if now > record.ExpiresAt {
			delete(s.records, token)
		}
	}
	s.mu.Unlock()
}

// Len reports the number of live records.
func (s *RefreshStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
