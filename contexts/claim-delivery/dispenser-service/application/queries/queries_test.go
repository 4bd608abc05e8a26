package queries

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/adapters/memory"
	"drophub/contexts/claim-delivery/dispenser-service/application/cache"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

func newQueries(store *memory.Store, claims memory.ClaimCounter) UseCase {
	return UseCase{
		Dispensers: store,
		Links:      store,
		Whitelist:  store,
		Claims:     claims,
		Counters:   cache.NewPoppedCounters(),
	}
}

func seed(t *testing.T, store *memory.Store, dispenser entities.Dispenser, links int) {
	t.Helper()
	if err := store.CreateDispenser(context.Background(), dispenser); err != nil {
		t.Fatalf("seed dispenser: %v", err)
	}
	now := time.Now().UTC()
	batch := make([]entities.DispenserLink, 0, links)
	for i := 0; i < links; i++ {
		batch = append(batch, entities.DispenserLink{
			ID:                 dispenser.ID + "-link-" + string(rune('a'+i)),
			DispenserID:        dispenser.ID,
			LinkNumber:         i + 1,
			EncryptedClaimLink: "enc",
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if links > 0 {
		if err := store.CreateLinks(context.Background(), batch); err != nil {
			t.Fatalf("seed links: %v", err)
		}
	}
}

func TestGetDispenserStats(t *testing.T) {
	store := memory.NewStore()
	uc := newQueries(store, memory.ClaimCounter{Counts: map[string]int{"0xproxy": 4}})
	seed(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
		WhitelistKind:  entities.WhitelistKindAddress,
	}, 5)
	if err := store.ReplaceWhitelist(context.Background(), "disp-1", []entities.WhitelistItem{
		{ID: "wl-1", DispenserID: "disp-1", Kind: entities.WhitelistKindAddress, Value: "0xa"},
		{ID: "wl-2", DispenserID: "disp-1", Kind: entities.WhitelistKindAddress, Value: "0xb"},
	}); err != nil {
		t.Fatalf("seed whitelist: %v", err)
	}

	stats, err := uc.GetDispenserStats(context.Background(), "0xCREATOR", "disp-1", "0xproxy")
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.LinksCount != 5 {
		t.Fatalf("expected 5 links, got %d", stats.LinksCount)
	}
	if stats.WhitelistCount != 2 {
		t.Fatalf("expected 2 whitelist entries, got %d", stats.WhitelistCount)
	}
	if stats.LinksClaimed != 4 {
		t.Fatalf("expected 4 claimed, got %d", stats.LinksClaimed)
	}
}

func TestGetDispenserStatsPrefersLiveCounter(t *testing.T) {
	store := memory.NewStore()
	uc := newQueries(store, memory.ClaimCounter{})
	seed(t, store, entities.Dispenser{
		ID:             "disp-1",
		CreatorAddress: "0xcreator",
	}, 3)

	// The allocation path keeps the cache ahead of the stored snapshot.
	uc.Counters.Hydrate("disp-1", 0)
	uc.Counters.Set("disp-1", 2)

	stats, err := uc.GetDispenserStats(context.Background(), "0xcreator", "disp-1", "")
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.LinksAssigned != 2 {
		t.Fatalf("expected cached assigned count 2, got %d", stats.LinksAssigned)
	}
}

func TestGetDispenserStatsForeignCreator(t *testing.T) {
	store := memory.NewStore()
	uc := newQueries(store, memory.ClaimCounter{})
	seed(t, store, entities.Dispenser{ID: "disp-1", CreatorAddress: "0xcreator"}, 0)

	_, err := uc.GetDispenserStats(context.Background(), "0xsomeoneelse", "disp-1", "")
	if !errors.Is(err, domainerrors.ErrCreatorNotVerified) {
		t.Fatalf("expected ErrCreatorNotVerified, got %v", err)
	}
}

func TestListDispenserStatsNewestFirst(t *testing.T) {
	store := memory.NewStore()
	uc := newQueries(store, memory.ClaimCounter{})
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	seed(t, store, entities.Dispenser{ID: "disp-old", CreatorAddress: "0xcreator", CreatedAt: base}, 1)
	seed(t, store, entities.Dispenser{ID: "disp-new", CreatorAddress: "0xcreator", CreatedAt: base.Add(time.Hour)}, 2)
	seed(t, store, entities.Dispenser{ID: "disp-other", CreatorAddress: "0xother", CreatedAt: base}, 0)

	stats, err := uc.ListDispenserStats(context.Background(), "0xcreator")
	if err != nil {
		t.Fatalf("list stats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 dispensers, got %d", len(stats))
	}
	if stats[0].Dispenser.ID != "disp-new" || stats[1].Dispenser.ID != "disp-old" {
		t.Fatalf("unexpected order: %s, %s", stats[0].Dispenser.ID, stats[1].Dispenser.ID)
	}
	if stats[0].LinksCount != 2 {
		t.Fatalf("expected 2 links on newest, got %d", stats[0].LinksCount)
	}
}

func TestLinksReport(t *testing.T) {
	store := memory.NewStore()
	uc := newQueries(store, memory.ClaimCounter{})
	seed(t, store, entities.Dispenser{ID: "disp-1", CreatorAddress: "0xcreator"}, 1)

	if _, err := uc.LinksReport(context.Background(), "0xother", "disp-1", "0xproxy"); !errors.Is(err, domainerrors.ErrCreatorNotVerified) {
		t.Fatalf("expected ErrCreatorNotVerified, got %v", err)
	}

	report, err := uc.LinksReport(context.Background(), "0xcreator", "disp-1", "0xproxy")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("expected empty report, got %d items", len(report))
	}
}

func TestGetClaimerSettingsVerificationURL(t *testing.T) {
	store := memory.NewStore()
	uc := newQueries(store, memory.ClaimCounter{})
	seed(t, store, entities.Dispenser{
		ID:                "disp-1",
		CreatorAddress:    "0xcreator",
		MultiscanQRID:     "0xqr",
		Reclaim:           true,
		ReclaimAppID:      "app-1",
		ReclaimProviderID: "provider-1",
	}, 0)

	settings, err := uc.GetClaimerSettings(context.Background(), "0xQR", "sess-1", "https://api.example.org/", "https://app.example.org")
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if !settings.Reclaim {
		t.Fatal("reclaim flag missing")
	}
	for _, fragment := range []string{
		"https://share.reclaimprotocol.org/verifier?",
		"applicationId=app-1",
		"providerId=provider-1",
		"sessionId=sess-1",
		"reclaim-proofs%2Fsess-1",
	} {
		if !strings.Contains(settings.VerificationURL, fragment) {
			t.Fatalf("verification url missing %q: %s", fragment, settings.VerificationURL)
		}
	}

	// No session id means no verification round has been opened yet.
	settings, err = uc.GetClaimerSettings(context.Background(), "0xqr", "", "https://api.example.org", "")
	if err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if settings.VerificationURL != "" {
		t.Fatalf("expected no verification url, got %s", settings.VerificationURL)
	}
}
