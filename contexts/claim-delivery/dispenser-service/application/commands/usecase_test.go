package commands

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"testing"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/adapters/memory"
	"drophub/contexts/claim-delivery/dispenser-service/application/cache"
	"drophub/contexts/claim-delivery/dispenser-service/application/policy"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"

	"github.com/ethereum/go-ethereum/crypto"
)

const scanSigPrefix = "signing claim link for"

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

func newUseCase(store *memory.Store, now time.Time) UseCase {
	return UseCase{
		Dispensers:    store,
		Links:         store,
		Whitelist:     store,
		Verifications: store,
		Handles:       store,
		Clock:         fixedClock{now: now},
		IDGen:         store,
		Verifier:      memory.Verifier{},
		Notifier:      &memory.Notifier{},
		Counters:      cache.NewPoppedCounters(),
		HandleCache:   cache.NewHandleWhitelist(),
		ReclaimApp:    ReclaimAppConfig{
			AppID:      "test-app",
			AppSecret:  "test-secret",
			ProviderID: "test-provider",
		},
		ScanSigPrefix: scanSigPrefix,
	}
}

func seedDispenser(t *testing.T, store *memory.Store, dispenser entities.Dispenser) entities.Dispenser {
	t.Helper()
	if err := store.CreateDispenser(context.Background(), dispenser); err != nil {
		t.Fatalf("seed dispenser: %v", err)
	}
	return dispenser
}

func seedLinks(t *testing.T, store *memory.Store, dispenserID string, count int) {
	t.Helper()
	now := time.Now().UTC()
	links := make([]entities.DispenserLink, 0, count)
	for i := 0; i < count; i++ {
		links = append(links, entities.DispenserLink{
			ID:                 "link-id-" + string(rune('a'+i)),
			DispenserID:        dispenserID,
			LinkNumber:         i + 1,
			EncryptedClaimLink: "encrypted-link-" + string(rune('a'+i)),
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if err := store.CreateLinks(context.Background(), links); err != nil {
		t.Fatalf("seed links: %v", err)
	}
}

func newSigningKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

// signPersonal produces an EIP-191 personal signature the way a wallet does,
// with V encoded as 27/28.
func signPersonal(t *testing.T, key *ecdsa.PrivateKey, msg string) string {
	t.Helper()
	sig, err := crypto.Sign(policy.PersonalDigest([]byte(msg)), key)
	if err != nil {
		t.Fatalf("sign message: %v", err)
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig)
}

func signScanID(t *testing.T, key *ecdsa.PrivateKey, scanID string) string {
	t.Helper()
	return signPersonal(t, key, scanSigPrefix+" "+scanID)
}
