package ports

import (
	"context"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
)

type DispenserStore interface {
	CreateDispenser(ctx context.Context, dispenser entities.Dispenser) error
	GetDispenser(ctx context.Context, dispenserID string) (entities.Dispenser, error)
	GetDispenserByMultiscanQRID(ctx context.Context, multiscanQRID string) (entities.Dispenser, error)
	ListDispensersByCreator(ctx context.Context, creatorAddress string) ([]entities.Dispenser, error)
	UpdateDispenser(ctx context.Context, dispenser entities.Dispenser) error
	// AdvancePopped atomically increments the dispenser's popped counter and
	// returns the new value. This is the only write path for the counter; a
	// read-then-update pair here would reintroduce the double-allocation race.
	AdvancePopped(ctx context.Context, dispenserID string) (int, error)
}

type LinkStore interface {
	CreateLinks(ctx context.Context, links []entities.DispenserLink) error
	CountLinks(ctx context.Context, dispenserID string) (int, error)
	GetLinkByNumber(ctx context.Context, dispenserID string, linkNumber int) (entities.DispenserLink, bool, error)
	FindLinkByScanID(ctx context.Context, dispenserID, scanID string) (entities.DispenserLink, bool, error)
	FindLinkByReceiver(ctx context.Context, dispenserID, receiver string) (entities.DispenserLink, bool, error)
	FindLinkBySessionID(ctx context.Context, dispenserID, sessionID string) (entities.DispenserLink, bool, error)
	FindLinkByID(ctx context.Context, linkID string) (entities.DispenserLink, bool, error)
	UpdateLink(ctx context.Context, link entities.DispenserLink) error
	DeleteLinks(ctx context.Context, dispenserID string) error
}

type WhitelistStore interface {
	ReplaceWhitelist(ctx context.Context, dispenserID string, items []entities.WhitelistItem) error
	CountWhitelist(ctx context.Context, dispenserID string) (int, error)
	HasWhitelistValue(ctx context.Context, dispenserID string, kind entities.WhitelistKind, value string) (bool, error)
	ListWhitelistValues(ctx context.Context, dispenserID string, kind entities.WhitelistKind) ([]string, error)
}

type VerificationStore interface {
	// UpsertPendingVerification creates the verification row for the session or
	// resets an existing one to pending, clearing cause and message.
	UpsertPendingVerification(ctx context.Context, sessionID string) (entities.ReclaimVerification, error)
	GetVerification(ctx context.Context, sessionID string) (entities.ReclaimVerification, bool, error)
	UpdateVerification(ctx context.Context, verification entities.ReclaimVerification) error
}

type HandleStore interface {
	FindHandle(ctx context.Context, dispenserID, handle string) (entities.Handle, bool, error)
	CreateHandle(ctx context.Context, handle entities.Handle) error
	UpdateHandle(ctx context.Context, handle entities.Handle) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ProofVerifier validates the cryptographic structure of a reclaim proof.
// A nil return means the proof is authentic; any error means it is not.
type ProofVerifier interface {
	Verify(proof entities.ReclaimProof) error
}

// ScanNotifier pings the realtime socket server after a successful dynamic
// scan. Best effort: implementations log and swallow every failure.
type ScanNotifier interface {
	NotifyScan(ctx context.Context, socketID string)
}

// ClaimCount is one claimed-links tally reported by the external claim server.
type ClaimCount struct {
	ProxyAddress string
	Count        int
}

// ClaimedLinkReport is one completed claim row from the claim server report.
type ClaimedLinkReport struct {
	LinkID       string
	Receiver     string
	TokenAddress string
	TokenID      string
	TokenAmount  string
	TxHash       string
}

// ClaimCounter is the read-only surface of the external claim server.
type ClaimCounter interface {
	ClaimedCounts(ctx context.Context, proxyAddresses []string) ([]ClaimCount, error)
	ClaimedLinks(ctx context.Context, proxyAddress string) ([]ClaimedLinkReport, error)
}
