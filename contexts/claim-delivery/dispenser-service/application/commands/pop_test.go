package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/adapters/memory"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

func TestPopAllocatesSlotsInOrder(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	key, qrAddress := newSigningKey(t)

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Title:          "Launch drop",
		Active:         true,
	})
	seedLinks(t, store, "disp-1", 3)

	for i, want := range []string{"encrypted-link-a", "encrypted-link-b", "encrypted-link-c"} {
		scanID := fmt.Sprintf("scan-%d", i)
		link, err := uc.Pop(context.Background(), PopCommand{
			MultiscanQRID: qrAddress,
			ScanID:        scanID,
			ScanIDSig:     signScanID(t, key, scanID),
		})
		if err != nil {
			t.Fatalf("pop %d failed: %v", i, err)
		}
		if link != want {
			t.Fatalf("pop %d: expected %s, got %s", i, want, link)
		}
	}
}

func TestPopReplaysLinkForSameScanID(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	key, qrAddress := newSigningKey(t)

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Active:         true,
	})
	seedLinks(t, store, "disp-1", 2)

	cmd := PopCommand{
		MultiscanQRID: qrAddress,
		ScanID:        "scan-1",
		ScanIDSig:     signScanID(t, key, "scan-1"),
	}
	first, err := uc.Pop(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first pop failed: %v", err)
	}
	second, err := uc.Pop(context.Background(), cmd)
	if err != nil {
		t.Fatalf("second pop failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected replayed link, got %s vs %s", first, second)
	}
	count, _ := store.CountLinks(context.Background(), "disp-1")
	if count != 2 {
		t.Fatalf("pool size changed: %d", count)
	}
	dispenser, _ := store.GetDispenser(context.Background(), "disp-1")
	if dispenser.Popped != 1 {
		t.Fatalf("expected one consumed slot, got %d", dispenser.Popped)
	}
}

func TestPopStockoutIsSticky(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	key, qrAddress := newSigningKey(t)

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Active:         true,
	})
	seedLinks(t, store, "disp-1", 1)

	if _, err := uc.Pop(context.Background(), PopCommand{
		MultiscanQRID: qrAddress,
		ScanID:        "scan-1",
		ScanIDSig:     signScanID(t, key, "scan-1"),
	}); err != nil {
		t.Fatalf("pop of last slot failed: %v", err)
	}
	for _, scanID := range []string{"scan-2", "scan-3"} {
		_, err := uc.Pop(context.Background(), PopCommand{
			MultiscanQRID: qrAddress,
			ScanID:        scanID,
			ScanIDSig:     signScanID(t, key, scanID),
		})
		if !errors.Is(err, domainerrors.ErrNoMoreClaims) {
			t.Fatalf("scan %s: expected ErrNoMoreClaims, got %v", scanID, err)
		}
	}
}

func TestPopGates(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name      string
		dispenser entities.Dispenser
		want      error
	}{
		{
			name:      "inactive",
			dispenser: entities.Dispenser{Active: false},
			want:      domainerrors.ErrDispenserInactive,
		},
		{
			name:      "not started",
			dispenser: entities.Dispenser{Active: true, TimeframeOn: true, ClaimStart: &future},
			want:      domainerrors.ErrDispenserNotStart,
		},
		{
			name:      "expired",
			dispenser: entities.Dispenser{Active: true, TimeframeOn: true, ClaimFinish: &past},
			want:      domainerrors.ErrDispenserExpired,
		},
		{
			name:      "reclaim dispenser",
			dispenser: entities.Dispenser{Active: true, Reclaim: true},
			want:      domainerrors.ErrPlainOnReclaim,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore()
			uc := newUseCase(store, now)
			key, qrAddress := newSigningKey(t)

			dispenser := tc.dispenser
			dispenser.ID = "disp-1"
			dispenser.MultiscanQRID = qrAddress
			seedDispenser(t, store, dispenser)
			seedLinks(t, store, "disp-1", 1)

			_, err := uc.Pop(context.Background(), PopCommand{
				MultiscanQRID: qrAddress,
				ScanID:        "scan-1",
				ScanIDSig:     signScanID(t, key, "scan-1"),
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPopRejectsForeignScanSignature(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	_, qrAddress := newSigningKey(t)
	attackerKey, _ := newSigningKey(t)

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Active:         true,
	})
	seedLinks(t, store, "disp-1", 1)

	_, err := uc.Pop(context.Background(), PopCommand{
		MultiscanQRID: qrAddress,
		ScanID:        "scan-1",
		ScanIDSig:     signScanID(t, attackerKey, "scan-1"),
	})
	if !errors.Is(err, domainerrors.ErrScanNotVerified) {
		t.Fatalf("expected ErrScanNotVerified, got %v", err)
	}
}

func TestPopAddressWhitelist(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	qrKey, qrAddress := newSigningKey(t)
	receiverKey, receiverAddress := newSigningKey(t)
	strangerKey, strangerAddress := newSigningKey(t)

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Active:         true,
		WhitelistOn:    true,
		WhitelistKind:  entities.WhitelistKindAddress,
	})
	seedLinks(t, store, "disp-1", 3)
	if err := store.ReplaceWhitelist(context.Background(), "disp-1", []entities.WhitelistItem{{
		ID:          "wl-1",
		DispenserID: "disp-1",
		Kind:        entities.WhitelistKindAddress,
		Value:       strings.ToLower(receiverAddress),
	}}); err != nil {
		t.Fatalf("seed whitelist: %v", err)
	}

	base := PopCommand{
		MultiscanQRID: qrAddress,
		ScanID:        "scan-1",
		ScanIDSig:     signScanID(t, qrKey, "scan-1"),
	}

	_, err := uc.Pop(context.Background(), base)
	if code := domainerrors.CodeOf(err); code != "RECEIVER_ADDRESS_REQUIRED" {
		t.Fatalf("expected RECEIVER_ADDRESS_REQUIRED, got %v", err)
	}

	bad := base
	bad.Receiver = receiverAddress
	bad.ReceiverSig = signPersonal(t, strangerKey, "scan-1")
	if _, err := uc.Pop(context.Background(), bad); !errors.Is(err, domainerrors.ErrReceiverNotVerified) {
		t.Fatalf("expected ErrReceiverNotVerified, got %v", err)
	}

	stranger := base
	stranger.Receiver = strangerAddress
	stranger.ReceiverSig = signPersonal(t, strangerKey, "scan-1")
	if _, err := uc.Pop(context.Background(), stranger); !errors.Is(err, domainerrors.ErrNotWhitelisted) {
		t.Fatalf("expected ErrNotWhitelisted, got %v", err)
	}

	listed := base
	listed.Receiver = receiverAddress
	listed.ReceiverSig = signPersonal(t, receiverKey, "scan-1")
	first, err := uc.Pop(context.Background(), listed)
	if err != nil {
		t.Fatalf("whitelisted pop failed: %v", err)
	}

	// The same wallet never consumes a second slot, even through a fresh scan.
	replay := listed
	replay.ScanID = "scan-2"
	replay.ScanIDSig = signScanID(t, qrKey, "scan-2")
	replay.ReceiverSig = signPersonal(t, receiverKey, "scan-2")
	second, err := uc.Pop(context.Background(), replay)
	if err != nil {
		t.Fatalf("wallet replay pop failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected wallet replay to return the original link, got %s vs %s", first, second)
	}
}

func TestPopConcurrentAllocatesEachSlotOnce(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	key, qrAddress := newSigningKey(t)

	const slots = 3
	const scans = 10

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Active:         true,
	})
	seedLinks(t, store, "disp-1", slots)

	var wg sync.WaitGroup
	results := make([]string, scans)
	errs := make([]error, scans)
	for i := 0; i < scans; i++ {
		scanID := fmt.Sprintf("scan-%d", i)
		sig := signScanID(t, key, scanID)
		wg.Add(1)
		go func(i int, scanID, sig string) {
			defer wg.Done()
			results[i], errs[i] = uc.Pop(context.Background(), PopCommand{
				MultiscanQRID: qrAddress,
				ScanID:        scanID,
				ScanIDSig:     sig,
			})
		}(i, scanID, sig)
	}
	wg.Wait()

	seen := make(map[string]int)
	stockouts := 0
	for i := 0; i < scans; i++ {
		switch {
		case errs[i] == nil:
			seen[results[i]]++
		case errors.Is(errs[i], domainerrors.ErrNoMoreClaims):
			stockouts++
		default:
			t.Fatalf("scan %d: unexpected error %v", i, errs[i])
		}
	}
	if len(seen) != slots {
		t.Fatalf("expected %d distinct links handed out, got %d", slots, len(seen))
	}
	for link, n := range seen {
		if n != 1 {
			t.Fatalf("link %s handed out %d times", link, n)
		}
	}
	if stockouts != scans-slots {
		t.Fatalf("expected %d stockouts, got %d", scans-slots, stockouts)
	}
}

func TestPopNotifiesSocketForDynamicDispenser(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(store, now)
	notifier := &memory.Notifier{}
	uc.Notifier = notifier
	key, qrAddress := newSigningKey(t)

	seedDispenser(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		MultiscanQRID:  qrAddress,
		Active:         true,
		Dynamic:        true,
	})
	seedLinks(t, store, "disp-1", 1)

	if _, err := uc.Pop(context.Background(), PopCommand{
		MultiscanQRID: qrAddress,
		ScanID:        "scan-1",
		ScanIDSig:     signScanID(t, key, "scan-1"),
		SocketID:      "socket-42",
	}); err != nil {
		t.Fatalf("pop failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		ids := notifier.SocketIDs()
		if len(ids) == 1 && ids[0] == "socket-42" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("socket notification never arrived, got %v", ids)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
