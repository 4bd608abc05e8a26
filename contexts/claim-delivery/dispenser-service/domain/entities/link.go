package entities

import "time"

// DispenserLink is one pool slot: a pre-encrypted claim link at a sequence
// position within its dispenser. A slot is stamped with exactly one consumer
// identity at allocation time and never unstamped.
type DispenserLink struct {
	ID                 string
	DispenserID        string
	LinkNumber         int
	EncryptedClaimLink string
	ScanID             string
	Receiver           string
	ReclaimSessionID   string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Consumed reports whether the slot has been bound to a requester.
func (l DispenserLink) Consumed() bool {
	return l.ScanID != "" || l.Receiver != "" || l.ReclaimSessionID != ""
}
