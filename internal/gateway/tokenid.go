package gateway

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/logger"
)

const (
	// tokenIDUpperBound is the exclusive cap for random candidates
	tokenIDUpperBound = 1_000_000_000
	// tokenIDProbes is how many random candidates are checked before falling back
	tokenIDProbes = 10
)

// OwnerProber is the gateway subset the allocator needs
type OwnerProber interface {
	Owner(ctx context.Context, tokenID int64) (string, error)
}

// TokenIDAllocator picks unused token IDs by probing the ledger.
type TokenIDAllocator struct {
	prober OwnerProber
	clock  adapter.Clock
	randN  func(n int64) int64
}

// NewTokenIDAllocator creates an allocator over the given owner prober
func NewTokenIDAllocator(prober OwnerProber, clock adapter.Clock) *TokenIDAllocator {
	return &TokenIDAllocator{
		prober: prober,
		clock:  clock,
		randN:  rand.Int63n,
	}
}

// GenerateTokenID returns a token ID not currently minted. Random
// candidates in [1, 1e9) are probed against ownerOf; a revert means the
// ID is free. After ten taken candidates the allocator falls back to a
// millisecond timestamp plus a small random offset, without probing.
func (a *TokenIDAllocator) GenerateTokenID(ctx context.Context) (int64, error) {
	for i := 0; i < tokenIDProbes; i++ {
		candidate := a.randN(tokenIDUpperBound-1) + 1

		_, err := a.prober.Owner(ctx, candidate)
		if err == nil {
			// Owned, keep probing
			continue
		}
		if domain.IsKind(err, domain.ErrKindNotFound) {
			return candidate, nil
		}
		return 0, err
	}

	fallback := a.clock.Now().UnixMilli() + a.randN(1000)
	logger.Warn("token id probes exhausted, using timestamp fallback",
		zap.Int64("token_id", fallback))
	return fallback, nil
}
