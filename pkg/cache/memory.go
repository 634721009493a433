package cache

import (
	"sync"
	"sync/atomic"

	"github.com/ameblo/vouch/core"
)

// MemoryChallengeStore implements an in-memory OTP challenge store.
//
// It is process-local. See core.ChallengeStore for the scaling caveat.
type MemoryChallengeStore struct {
	challenges map[string]*core.Challenge // key: email
	mu         sync.RWMutex
	maxSize    int

	// counters
	hits      int64
	misses    int64
	puts      int64
	deletes   int64
	evictions int64
}

var _ core.ChallengeStoreWithStats = (*MemoryChallengeStore)(nil)

// NewMemoryChallengeStore creates a new in-memory challenge store
func NewMemoryChallengeStore(c core.ChallengeStoreConfig) *MemoryChallengeStore {
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &MemoryChallengeStore{
		challenges: make(map[string]*core.Challenge),
		maxSize:    c.MaxSize,
	}
}

// Get returns the pending challenge for the email, or ErrChallengeNotFound.
// The store does no expiry sweeping of its own; the caller owns the expiry
// check. Stale entries are bounded by the capacity cap and by overwrites.
func (s *MemoryChallengeStore) Get(email string) (*core.Challenge, error) {
	s.mu.RLock()
	challenge, exists := s.challenges[email]
	s.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&s.misses, 1)
		return nil, core.ErrChallengeNotFound
	}

	atomic.AddInt64(&s.hits, 1)
	return challenge, nil
}

// Put stores a challenge, unconditionally replacing any existing one for
// that email.
func (s *MemoryChallengeStore) Put(email string, challenge *core.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Simple eviction if full
	if _, exists := s.challenges[email]; !exists && len(s.challenges) >= s.maxSize {
		for k := range s.challenges {
			delete(s.challenges, k)
			atomic.AddInt64(&s.evictions, 1)
			break
		}
	}

	s.challenges[email] = challenge

	atomic.AddInt64(&s.puts, 1)
	return nil
}

// Delete removes the challenge for the email, if any
func (s *MemoryChallengeStore) Delete(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existed := s.challenges[email]; existed {
		delete(s.challenges, email)
		atomic.AddInt64(&s.deletes, 1)
	}
	return nil
}

// Clear removes all pending challenges
func (s *MemoryChallengeStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = make(map[string]*core.Challenge)
	return nil
}

// Len returns the number of stored challenges, expired entries included
func (s *MemoryChallengeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.challenges)
}

// Stats returns store statistics
func (s *MemoryChallengeStore) Stats() core.ChallengeStats {
	return core.ChallengeStats{
		Hits:      atomic.LoadInt64(&s.hits),
		Misses:    atomic.LoadInt64(&s.misses),
		Puts:      atomic.LoadInt64(&s.puts),
		Deletes:   atomic.LoadInt64(&s.deletes),
		Evictions: atomic.LoadInt64(&s.evictions),
		Size:      s.Len(),
	}
}
