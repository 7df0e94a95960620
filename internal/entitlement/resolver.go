package entitlement

import (
	"context"
	"fmt"
	"strings"
)

// Store persists free-tier usage counters.
type Store interface {
	// Ensure returns the current counter for a user, initializing it to
	// zero if absent. Re-initializing an existing row is a no-op.
	Ensure(ctx context.Context, userID string) (int, error)
	// Increment adds exactly one to the counter.
	Increment(ctx context.Context, userID string) error
}

// Resolver turns a caller identity into an Entitlement. The raw plan
// claim from the identity provider is normalized here, at the edge;
// nothing downstream ever sees the untyped claim.
type Resolver struct {
	store Store
}

// NewResolver constructs a Resolver with an in-memory store.
func NewResolver() *Resolver {
	return &Resolver{store: newMemoryStore()}
}

// NewResolverWithStore constructs a Resolver backed by the given store.
func NewResolverWithStore(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the caller's tier and consumed quota. Premium callers
// skip the usage store entirely. Identity failures are terminal.
func (r *Resolver) Resolve(ctx context.Context, userID, planClaim string) (Entitlement, error) {
	if strings.TrimSpace(userID) == "" {
		return Entitlement{}, ErrIdentityUnavailable
	}

	tier := normalizeTier(planClaim)
	if tier == TierPremium {
		return Entitlement{UserID: userID, Tier: TierPremium, Used: 0}, nil
	}

	used, err := r.store.Ensure(ctx, userID)
	if err != nil {
		return Entitlement{}, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	return Entitlement{UserID: userID, Tier: TierFree, Used: used}, nil
}

// Increment charges one unit of free-tier usage. Called by the
// generation pipeline only after a creation has been persisted.
func (r *Resolver) Increment(ctx context.Context, userID string) error {
	return r.store.Increment(ctx, userID)
}

func normalizeTier(planClaim string) Tier {
	if strings.EqualFold(strings.TrimSpace(planClaim), string(TierPremium)) {
		return TierPremium
	}
	return TierFree
}
