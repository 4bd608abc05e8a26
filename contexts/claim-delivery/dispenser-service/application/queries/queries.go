package queries

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	application "drophub/contexts/claim-delivery/dispenser-service/application"
	"drophub/contexts/claim-delivery/dispenser-service/application/cache"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
	"drophub/contexts/claim-delivery/dispenser-service/ports"
)

type UseCase struct {
	Dispensers ports.DispenserStore
	Links      ports.LinkStore
	Whitelist  ports.WhitelistStore
	Claims     ports.ClaimCounter
	Counters   *cache.PoppedCounters
	Logger     *slog.Logger
}

// DispenserStats is a dispenser plus the derived dashboard numbers.
type DispenserStats struct {
	Dispenser      entities.Dispenser
	LinksCount     int
	LinksAssigned  int
	LinksClaimed   int
	WhitelistCount int
}

// GetDispenserStats returns one owned dispenser with its pool counters.
// proxyAddress identifies the on-chain campaign proxy for the claimed-count
// lookup; the campaign linkage itself lives outside this module, so the
// caller supplies it and an empty value skips the claim-server round trip.
func (uc UseCase) GetDispenserStats(ctx context.Context, creatorAddress, dispenserID, proxyAddress string) (DispenserStats, error) {
	dispenser, err := uc.Dispensers.GetDispenser(ctx, strings.TrimSpace(dispenserID))
	if err != nil {
		return DispenserStats{}, err
	}
	if !strings.EqualFold(dispenser.CreatorAddress, strings.TrimSpace(creatorAddress)) {
		return DispenserStats{}, domainerrors.ErrCreatorNotVerified
	}
	return uc.collectStats(ctx, dispenser, proxyAddress)
}

// ListDispenserStats returns every dispenser owned by the creator, newest
// first, each with link and whitelist counts. Claimed counts are skipped for
// list views to keep the dashboard index cheap.
func (uc UseCase) ListDispenserStats(ctx context.Context, creatorAddress string) ([]DispenserStats, error) {
	dispensers, err := uc.Dispensers.ListDispensersByCreator(ctx, strings.ToLower(strings.TrimSpace(creatorAddress)))
	if err != nil {
		return nil, err
	}
	stats := make([]DispenserStats, 0, len(dispensers))
	for _, dispenser := range dispensers {
		entry, err := uc.collectStats(ctx, dispenser, "")
		if err != nil {
			return nil, err
		}
		stats = append(stats, entry)
	}
	return stats, nil
}

func (uc UseCase) collectStats(ctx context.Context, dispenser entities.Dispenser, proxyAddress string) (DispenserStats, error) {
	stats := DispenserStats{Dispenser: dispenser, LinksAssigned: dispenser.Popped}
	if cached, ok := uc.Counters.Get(dispenser.ID); ok {
		stats.LinksAssigned = cached
	}

	linksCount, err := uc.Links.CountLinks(ctx, dispenser.ID)
	if err != nil {
		return DispenserStats{}, err
	}
	stats.LinksCount = linksCount

	if dispenser.WhitelistKind != "" {
		whitelistCount, err := uc.Whitelist.CountWhitelist(ctx, dispenser.ID)
		if err != nil {
			return DispenserStats{}, err
		}
		stats.WhitelistCount = whitelistCount
	}

	if proxyAddress != "" && linksCount > 0 && uc.Claims != nil {
		counts, err := uc.Claims.ClaimedCounts(ctx, []string{proxyAddress})
		if err != nil {
			// The claim server is a best-effort collaborator for dashboard
			// numbers; a miss degrades to zero rather than failing the read.
			application.ResolveLogger(uc.Logger).Warn("claimed counts fetch failed",
				"event", "dispenser_claimed_counts_fetch_failed",
				"module", "claim-delivery/dispenser-service",
				"layer", "application",
				"dispenser_id", dispenser.ID,
				"proxy_address", proxyAddress,
				"error", err.Error(),
			)
		} else if len(counts) > 0 {
			stats.LinksClaimed = counts[0].Count
		}
	}
	return stats, nil
}

// LinksReport aggregates completed claims for an owned dispenser from the
// external claim server.
func (uc UseCase) LinksReport(ctx context.Context, creatorAddress, dispenserID, proxyAddress string) ([]ports.ClaimedLinkReport, error) {
	dispenser, err := uc.Dispensers.GetDispenser(ctx, strings.TrimSpace(dispenserID))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(dispenser.CreatorAddress, strings.TrimSpace(creatorAddress)) {
		return nil, domainerrors.ErrCreatorNotVerified
	}
	linksCount, err := uc.Links.CountLinks(ctx, dispenser.ID)
	if err != nil {
		return nil, err
	}
	if linksCount == 0 || proxyAddress == "" {
		return []ports.ClaimedLinkReport{}, nil
	}
	return uc.Claims.ClaimedLinks(ctx, proxyAddress)
}

// ClaimerSettings is the public subset of dispenser configuration shown to a
// claimant before any allocation.
type ClaimerSettings struct {
	AppTitle        string
	AppTitleOn      bool
	Reclaim         bool
	RedirectURL     string
	RedirectOn      bool
	WhitelistOn     bool
	WhitelistKind   entities.WhitelistKind
	PreviewSetting  entities.PreviewSetting
	VerificationURL string
}

// GetClaimerSettings resolves the public scan-code id. For reclaim dispensers
// it also builds the identity-provider verification request URL that the
// claimant app opens, embedding the callback back into this server.
func (uc UseCase) GetClaimerSettings(ctx context.Context, multiscanQRID, sessionID, serverURL, appURL string) (ClaimerSettings, error) {
	dispenser, err := uc.Dispensers.GetDispenserByMultiscanQRID(ctx, strings.ToLower(strings.TrimSpace(multiscanQRID)))
	if err != nil {
		return ClaimerSettings{}, err
	}
	settings := ClaimerSettings{
		AppTitle:       dispenser.AppTitle,
		AppTitleOn:     dispenser.AppTitleOn,
		Reclaim:        dispenser.Reclaim,
		RedirectURL:    dispenser.RedirectURL,
		RedirectOn:     dispenser.RedirectOn,
		WhitelistOn:    dispenser.WhitelistOn,
		WhitelistKind:  dispenser.WhitelistKind,
		PreviewSetting: dispenser.PreviewSetting,
	}
	if dispenser.Reclaim && sessionID != "" {
		settings.VerificationURL = buildVerificationURL(dispenser, sessionID, serverURL, appURL)
	}
	return settings, nil
}

func buildVerificationURL(dispenser entities.Dispenser, sessionID, serverURL, appURL string) string {
	callback := strings.TrimRight(serverURL, "/") +
		"/api/v2/claimer/dispensers/" + url.PathEscape(dispenser.MultiscanQRID) +
		"/reclaim-proofs/" + url.PathEscape(sessionID)

	params := url.Values{}
	params.Set("applicationId", dispenser.ReclaimAppID)
	params.Set("providerId", dispenser.ReclaimProviderID)
	params.Set("sessionId", sessionID)
	params.Set("callbackUrl", callback)
	if appURL != "" {
		params.Set("redirectUrl", strings.TrimRight(appURL, "/")+"/#/reclaim/"+url.PathEscape(dispenser.MultiscanQRID))
	}
	return "https://share.reclaimprotocol.org/verifier?" + params.Encode()
}
