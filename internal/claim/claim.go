// Package claim guards a settlement so only one worker pays out a match at a time.
package claim

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrClaimHeld = errors.New("claim_held")

// Guard hands out short-lived exclusive claims on a key. The returned release
// func is safe to call more than once.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Local is an in-process Guard for single-instance deployments and tests.
type Local struct {
	mu     sync.Mutex
	now    func() time.Time
	held   map[string]localClaim
	nextID uint64
}

type localClaim struct {
	id        uint64
	expiresAt time.Time
}

func NewLocal() *Local {
	return &Local{now: time.Now, held: make(map[string]localClaim)}
}

func (l *Local) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if c, ok := l.held[key]; ok && now.Before(c.expiresAt) {
		return nil, ErrClaimHeld
	}
	l.nextID++
	id := l.nextID
	l.held[key] = localClaim{id: id, expiresAt: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if c, ok := l.held[key]; ok && c.id == id {
				delete(l.held, key)
			}
		})
	}, nil
}

func settlementKey(matchID string) string {
	return "settle:" + matchID
}

// AcquireSettlement claims the payout of one match.
func AcquireSettlement(ctx context.Context, g Guard, matchID string, ttl time.Duration) (func(), error) {
	return g.Acquire(ctx, settlementKey(matchID), ttl)
}
