package entitlement

// Tier is a caller's entitlement class.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Entitlement is the per-request snapshot of who the caller is and how
// much free quota they have consumed. Premium callers always report
// zero usage; their counter is never read or written.
type Entitlement struct {
	UserID string `json:"userId"`
	Tier   Tier   `json:"tier"`
	Used   int    `json:"used"`
}

// IsPremium reports whether the caller is exempt from ceilings.
func (e Entitlement) IsPremium() bool {
	return e.Tier == TierPremium
}
