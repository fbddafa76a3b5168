package stores

import "sync"

// Blacklist is the set of token identifiers (jti claims) invalidated
// before their natural expiry. Presence means "reject this token even if
// its signature verifies and it has not expired."
//
// Entries carry no individual expiry; the reclaimer clears the whole set
// on an interval no shorter than the access-token lifetime, by which time
// every blacklisted token has expired on its own.
type Blacklist struct {
	mu   sync.Mutex
	jtis map[string]struct{}
}

// NewBlacklist creates an empty blacklist.
func NewBlacklist() *Blacklist {
	return &Blacklist{jtis: make(map[string]struct{})}
}

// Add inserts a token identifier.
func (b *Blacklist) Add(jti string) {
	b.mu.Lock()
	b.jtis[jti] = struct{}{}
	b.mu.Unlock()
}

// Contains reports whether the identifier has been blacklisted.
func (b *Blacklist) Contains(jti string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.jtis[jti]
	return ok
}

// Clear drops the entire set.
func (b *Blacklist) Clear() {
	b.mu.Lock()
	b.jtis = make(map[string]struct{})
	b.mu.Unlock()
}

// Len reports the number of blacklisted identifiers.
func (b *Blacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.jtis)
}
