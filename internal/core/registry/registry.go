// Package registry holds the authority's live tokens in memory.
//
// Tokens are never persisted: a process restart invalidates every token the
// registry ever minted. Entries are spread over independently locked shards so
// concurrent logins and validations rarely contend.
package registry

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/99minutos/auth-system/internal/core/domain"
)

const (
	// TokenPrefix marks values minted by this registry.
	TokenPrefix = "tok_"

	tokenBytes        = 32
	defaultShardCount = 32
)

type shard struct {
	mu     sync.RWMutex
	tokens map[string]domain.Token
}

// Registry maps opaque token values to the user they were minted for.
type Registry struct {
	shards []*shard
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL makes every minted token expire after ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithShardCount overrides the number of shards.
func WithShardCount(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.shards = newShards(n)
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		shards: newShards(defaultShardCount),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{tokens: make(map[string]domain.Token)}
	}
	return shards
}

// Mint records a fresh token for userID and returns it.
func (r *Registry) Mint(userID int64) (domain.Token, error) {
	value, err := generate()
	if err != nil {
		return domain.Token{}, fmt.Errorf("mint token: %w", err)
	}

	now := r.now().UTC()
	tok := domain.Token{Value: value, UserID: userID, IssuedAt: now}
	if r.ttl > 0 {
		tok.ExpiresAt = now.Add(r.ttl)
	}

	s := r.shardFor(value)
	s.mu.Lock()
	s.tokens[value] = tok
	s.mu.Unlock()

	return tok, nil
}

// Lookup returns the user id a live token was minted for. Unknown, revoked,
// expired and malformed values are all reported as not found.
func (r *Registry) Lookup(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}

	s := r.shardFor(value)
	s.mu.RLock()
	tok, ok := s.tokens[value]
	s.mu.RUnlock()

	if !ok || tok.Expired(r.now()) {
		return 0, false
	}
	return tok.UserID, true
}

// Revoke removes a token. It reports whether a live token was removed.
func (r *Registry) Revoke(value string) bool {
	if value == "" {
		return false
	}

	s := r.shardFor(value)
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[value]
	if !ok {
		return false
	}
	delete(s.tokens, value)
	return !tok.Expired(r.now())
}

// Sweep drops expired tokens and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.ttl == 0 {
		return 0
	}

	now := r.now()
	removed := 0
	for _, s := range r.shards {
		s.mu.Lock()
		for value, tok := range s.tokens {
			if tok.Expired(now) {
				delete(s.tokens, value)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled. onSweep, when non-nil,
// receives the number of removed tokens and the remaining count.
func (r *Registry) Run(ctx context.Context, interval time.Duration, onSweep func(removed, live int)) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := r.Sweep()
			if onSweep != nil {
				onSweep(removed, r.Len())
			}
		}
	}
}

// Len returns the number of stored tokens, expired ones not yet swept included.
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.RLock()
		n += len(s.tokens)
		s.mu.RUnlock()
	}
	return n
}

func (r *Registry) shardFor(value string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return r.shards[h.Sum32()%uint32(len(r.shards))]
}

func generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
