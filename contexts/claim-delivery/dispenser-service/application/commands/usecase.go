package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "drophub/contexts/claim-delivery/dispenser-service/application"
	"drophub/contexts/claim-delivery/dispenser-service/application/cache"
	"drophub/contexts/claim-delivery/dispenser-service/application/policy"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
	"drophub/contexts/claim-delivery/dispenser-service/ports"
)

// ReclaimAppConfig holds the identity-provider application credentials stamped
// onto reclaim dispensers at creation time.
type ReclaimAppConfig struct {
	AppID      string
	AppSecret  string
	ProviderID string
}

type UseCase struct {
	Dispensers    ports.DispenserStore
	Links         ports.LinkStore
	Whitelist     ports.WhitelistStore
	Verifications ports.VerificationStore
	Handles       ports.HandleStore
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Verifier      ports.ProofVerifier
	Notifier      ports.ScanNotifier
	Counters      *cache.PoppedCounters
	HandleCache   *cache.HandleWhitelist
	ReclaimApp    ReclaimAppConfig
	ScanSigPrefix string
	Logger        *slog.Logger
}

func (uc UseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now()
}

// checkDispenserOpen is the activity + time-window gate shared by the plain
// pop path and the reclaim redeem path.
func (uc UseCase) checkDispenserOpen(dispenser entities.Dispenser) error {
	if !dispenser.Active {
		return domainerrors.ErrDispenserInactive
	}
	if dispenser.TimeframeOn {
		return policy.CheckTimeframe(uc.now(), dispenser.ClaimStart, dispenser.ClaimFinish)
	}
	return nil
}

func (uc UseCase) ownedDispenser(ctx context.Context, dispenserID, creatorAddress string) (entities.Dispenser, error) {
	dispenser, err := uc.Dispensers.GetDispenser(ctx, strings.TrimSpace(dispenserID))
	if err != nil {
		return entities.Dispenser{}, err
	}
	if !strings.EqualFold(dispenser.CreatorAddress, strings.TrimSpace(creatorAddress)) {
		return entities.Dispenser{}, domainerrors.ErrCreatorNotVerified
	}
	return dispenser, nil
}

func (uc UseCase) logInfo(event, msg string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "claim-delivery/dispenser-service",
		"layer", "application",
	)
	fields = append(fields, attrs...)
	application.ResolveLogger(uc.Logger).Info(msg, fields...)
}

func (uc UseCase) logWarn(event, msg string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "claim-delivery/dispenser-service",
		"layer", "application",
	)
	fields = append(fields, attrs...)
	application.ResolveLogger(uc.Logger).Warn(msg, fields...)
}
