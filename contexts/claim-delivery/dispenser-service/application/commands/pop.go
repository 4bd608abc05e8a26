package commands

import (
	"context"
	"strings"

	"drophub/contexts/claim-delivery/dispenser-service/application/policy"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

type PopCommand struct {
	MultiscanQRID string
	ScanID        string
	ScanIDSig     string
	Receiver      string
	ReceiverSig   string
	SocketID      string
}

// Pop allocates the next unclaimed slot of a dispenser to the scanning device
// and returns its encrypted claim link. Repeat scans by the same device (or
// the same whitelisted wallet) replay the original link without consuming a
// new slot.
func (uc UseCase) Pop(ctx context.Context, cmd PopCommand) (string, error) {
	multiscanQRID := strings.ToLower(strings.TrimSpace(cmd.MultiscanQRID))
	scanID := strings.TrimSpace(cmd.ScanID)
	receiver := strings.ToLower(strings.TrimSpace(cmd.Receiver))

	dispenser, err := uc.Dispensers.GetDispenserByMultiscanQRID(ctx, multiscanQRID)
	if err != nil {
		return "", err
	}
	if dispenser.Reclaim {
		return "", domainerrors.ErrPlainOnReclaim
	}
	if err := policy.VerifyScanSignature(uc.ScanSigPrefix, scanID, cmd.ScanIDSig, dispenser.MultiscanQRID); err != nil {
		uc.logWarn("dispenser_pop_scan_sig_rejected", "pop scan signature rejected",
			"dispenser_id", dispenser.ID,
			"scan_id", scanID,
		)
		return "", err
	}
	if err := uc.checkDispenserOpen(dispenser); err != nil {
		return "", err
	}

	// Replay: a device that already holds a slot gets the same link back.
	if previous, ok, err := uc.Links.FindLinkByScanID(ctx, dispenser.ID, scanID); err != nil {
		return "", err
	} else if ok {
		return previous.EncryptedClaimLink, nil
	}

	if dispenser.WhitelistOn && dispenser.WhitelistKind == entities.WhitelistKindAddress {
		if receiver == "" {
			return "", domainerrors.BadRequest("RECEIVER_ADDRESS_REQUIRED", "Receiver address is required.")
		}
		if err := policy.VerifyReceiverSignature(scanID, cmd.ReceiverSig, receiver); err != nil {
			return "", err
		}
		// Wallet-level replay: the same address never consumes two slots even
		// from different devices.
		if previous, ok, err := uc.Links.FindLinkByReceiver(ctx, dispenser.ID, receiver); err != nil {
			return "", err
		} else if ok {
			return previous.EncryptedClaimLink, nil
		}
		listed, err := uc.Whitelist.HasWhitelistValue(ctx, dispenser.ID, entities.WhitelistKindAddress, receiver)
		if err != nil {
			return "", err
		}
		if !listed {
			return "", domainerrors.ErrNotWhitelisted
		}
	}

	link, err := uc.allocateNextLink(ctx, dispenser)
	if err != nil {
		return "", err
	}

	link.ScanID = scanID
	link.Receiver = receiver
	link.UpdatedAt = uc.now()
	if err := uc.Links.UpdateLink(ctx, link); err != nil {
		return "", err
	}

	uc.logInfo("dispenser_link_popped", "dispenser link popped",
		"dispenser_id", dispenser.ID,
		"link_number", link.LinkNumber,
		"scan_id", scanID,
	)

	if dispenser.Dynamic && uc.Notifier != nil {
		go uc.Notifier.NotifyScan(context.WithoutCancel(ctx), cmd.SocketID)
	}
	return link.EncryptedClaimLink, nil
}

// allocateNextLink advances the persisted counter through the store's atomic
// increment-and-return primitive and fetches the slot at the new value. On a
// missing slot the advance is deliberately not rolled back: the stockout is
// sticky, which keeps concurrent requests from re-racing the same boundary at
// the cost of one lost slot if the miss was transient rather than real
// exhaustion.
func (uc UseCase) allocateNextLink(ctx context.Context, dispenser entities.Dispenser) (entities.DispenserLink, error) {
	uc.Counters.Hydrate(dispenser.ID, dispenser.Popped)

	popped, err := uc.Dispensers.AdvancePopped(ctx, dispenser.ID)
	if err != nil {
		return entities.DispenserLink{}, err
	}
	link, ok, err := uc.Links.GetLinkByNumber(ctx, dispenser.ID, popped)
	if err != nil {
		return entities.DispenserLink{}, err
	}
	if !ok {
		uc.Counters.Set(dispenser.ID, popped)
		uc.logWarn("dispenser_pool_exhausted", "dispenser pool exhausted",
			"dispenser_id", dispenser.ID,
			"popped", popped,
		)
		return entities.DispenserLink{}, domainerrors.ErrNoMoreClaims
	}
	uc.Counters.Set(dispenser.ID, popped)
	return link, nil
}
