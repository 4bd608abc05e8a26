package entities

import "time"

// WhitelistItem is one membership record binding an identity (wallet address,
// email, or social handle, per Kind) to a dispenser.
type WhitelistItem struct {
	ID          string
	DispenserID string
	Kind        WhitelistKind
	Value       string
	CreatedAt   time.Time
}

// Handle is the durable per-(dispenser, social handle) identity record used by
// reclaim dispensers. Binding LinkID on first redemption enforces
// at-most-one-claim-per-identity.
type Handle struct {
	ID             string
	DispenserID    string
	Handle         string
	Provider       ReclaimProvider
	AlreadyClaimed bool
	LinkID         string
	SessionID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
