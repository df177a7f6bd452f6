package registry

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMintAndLookup(t *testing.T) {
	r := New()

	tok, err := r.Mint(42)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok.Value, TokenPrefix))
	assert.Len(t, tok.Value, len(TokenPrefix)+43)
	assert.Equal(t, int64(42), tok.UserID)
	assert.True(t, tok.ExpiresAt.IsZero(), "no TTL configured")

	userID, ok := r.Lookup(tok.Value)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestLookup_Unknown(t *testing.T) {
	r := New()
	_, _ = r.Mint(1)

	for _, v := range []string{"", "garbage", TokenPrefix, "Bearer x"} {
		_, ok := r.Lookup(v)
		assert.False(t, ok, "value %q", v)
	}
}

func TestMint_DistinctForSameUser(t *testing.T) {
	r := New()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tok, err := r.Mint(7)
		require.NoError(t, err)
		_, dup := seen[tok.Value]
		require.False(t, dup, "duplicate token minted")
		seen[tok.Value] = struct{}{}
	}
	assert.Equal(t, 1000, r.Len())
}

func TestNewRegistryStartsEmpty(t *testing.T) {
	first := New()
	tok, err := first.Mint(1)
	require.NoError(t, err)

	// A restarted authority builds a fresh registry.
	restarted := New()
	_, ok := restarted.Lookup(tok.Value)
	assert.False(t, ok)
}

func TestRevoke(t *testing.T) {
	r := New()
	tok, err := r.Mint(3)
	require.NoError(t, err)

	assert.True(t, r.Revoke(tok.Value))
	_, ok := r.Lookup(tok.Value)
	assert.False(t, ok)
	assert.False(t, r.Revoke(tok.Value), "second revoke is a no-op")
	assert.False(t, r.Revoke(""))
}

func TestExpiryAndSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := New(WithTTL(time.Minute), WithClock(clock.Now), WithShardCount(4))

	old, err := r.Mint(1)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Minute), old.ExpiresAt)

	clock.Advance(30 * time.Second)
	fresh, err := r.Mint(2)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	_, ok := r.Lookup(old.Value)
	assert.False(t, ok, "token expires exactly at ExpiresAt")
	_, ok = r.Lookup(fresh.Value)
	assert.True(t, ok)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestSweep_NoTTL(t *testing.T) {
	r := New()
	_, _ = r.Mint(1)
	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRun_StopsOnCancel(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := New(WithTTL(time.Millisecond), WithClock(clock.Now))
	_, _ = r.Mint(1)
	clock.Advance(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 8)
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond, func(removed, _ int) {
			select {
			case swept <- removed:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentMintLookup(t *testing.T) {
	r := New(WithShardCount(8))

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tok, err := r.Mint(userID)
				if err != nil {
					t.Errorf("mint: %v", err)
					return
				}
				got, ok := r.Lookup(tok.Value)
				if !ok || got != userID {
					t.Errorf("lookup(%s) = %d,%v want %d", tok.Value, got, ok, userID)
					return
				}
				if i%10 == 0 {
					r.Revoke(tok.Value)
				}
			}
		}(int64(g))
	}
	wg.Wait()

	assert.Equal(t, 16*180, r.Len())
}
