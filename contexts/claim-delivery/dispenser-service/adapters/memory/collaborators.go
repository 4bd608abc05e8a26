package memory

import (
	"context"
	"sync"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
	"drophub/contexts/claim-delivery/dispenser-service/ports"
)

// Verifier is a structural-only proof verifier for in-memory wiring. It
// accepts any proof that carries an identifier and at least one signature,
// without checking witness signatures.
type Verifier struct{}

func (Verifier) Verify(proof entities.ReclaimProof) error {
	if proof.Identifier == "" || len(proof.Signatures) == 0 {
		return domainerrors.ErrScanNotVerified
	}
	return nil
}

// Notifier records socket notifications instead of dialing a socket server.
// Safe for the fire-and-forget goroutine the pop flow uses.
type Notifier struct {
	mu        sync.Mutex
	socketIDs []string
}

func (n *Notifier) NotifyScan(_ context.Context, socketID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.socketIDs = append(n.socketIDs, socketID)
}

func (n *Notifier) SocketIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.socketIDs...)
}

// ClaimCounter reports fixed claim counts, keyed by proxy address.
type ClaimCounter struct {
	Counts map[string]int
}

func (c ClaimCounter) ClaimedCounts(_ context.Context, proxyAddresses []string) ([]ports.ClaimCount, error) {
	counts := make([]ports.ClaimCount, 0, len(proxyAddresses))
	for _, address := range proxyAddresses {
		counts = append(counts, ports.ClaimCount{ProxyAddress: address, Count: c.Counts[address]})
	}
	return counts, nil
}

func (c ClaimCounter) ClaimedLinks(_ context.Context, proxyAddress string) ([]ports.ClaimedLinkReport, error) {
	return []ports.ClaimedLinkReport{}, nil
}
