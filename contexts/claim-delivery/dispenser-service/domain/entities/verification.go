package entities

import "time"

type VerificationStatus string

const (
	VerificationStatusPending VerificationStatus = "pending"
	VerificationStatusSuccess VerificationStatus = "success"
	VerificationStatusFailed  VerificationStatus = "failed"
)

// ReclaimVerification records the outcome of one social-proof verification
// round, keyed by the provider-issued session id. Failure is stored as data so
// a later poll can read it after the webhook round trip has completed.
type ReclaimVerification struct {
	SessionID string
	Status    VerificationStatus
	Cause     string
	Message   string
	Handle    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReclaimProof is the raw attestation document posted back by the identity
// provider. Context is a nested JSON string carrying provider-specific
// extracted parameters.
type ReclaimProof struct {
	Identifier string           `json:"identifier"`
	ClaimData  ReclaimClaimData `json:"claimData"`
	Signatures []string         `json:"signatures"`
}

type ReclaimClaimData struct {
	Provider   string `json:"provider"`
	Parameters string `json:"parameters"`
	Owner      string `json:"owner"`
	Timestamp  int64  `json:"timestampS"`
	Context    string `json:"context"`
	Identifier string `json:"identifier"`
	Epoch      int    `json:"epoch"`
}
