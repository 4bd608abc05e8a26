package commands

import (
	"context"
	"strings"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

type LinkUpload struct {
	LinkID             string
	EncryptedClaimLink string
}

type UploadLinksCommand struct {
	CreatorAddress string
	DispenserID    string
	PreviewSetting entities.PreviewSetting
	Links          []LinkUpload
}

// UploadLinks seeds a dispenser's pool with its first batch of pre-encrypted
// claim links, numbered 1..N.
func (uc UseCase) UploadLinks(ctx context.Context, cmd UploadLinksCommand) error {
	dispenser, err := uc.ownedDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress)
	if err != nil {
		return err
	}
	if len(cmd.Links) == 0 {
		return domainerrors.BadRequest("ENCRYPTED_CLAIM_LINKS_REQUIRED", "Encrypted claim links are required.")
	}

	existing, err := uc.Links.CountLinks(ctx, dispenser.ID)
	if err != nil {
		return err
	}
	if existing > 0 {
		return domainerrors.ErrLinksAlreadyUploaded
	}
	if dispenser.ClaimStart != nil && dispenser.ClaimDurationMin > 0 {
		deadline := dispenser.ClaimStart.Add(time.Duration(dispenser.ClaimDurationMin) * time.Minute)
		if uc.now().After(deadline) {
			return domainerrors.ErrDispenserExpired
		}
	}

	if err := uc.insertLinks(ctx, dispenser.ID, cmd.Links, 0); err != nil {
		return err
	}
	uc.logInfo("dispenser_links_uploaded", "dispenser links uploaded",
		"dispenser_id", dispenser.ID,
		"links_count", len(cmd.Links),
	)
	return uc.applyPreviewSetting(ctx, dispenser, cmd.PreviewSetting)
}

// TopUpLinks appends a batch to an existing pool, continuing the slot
// numbering from the current pool size.
func (uc UseCase) TopUpLinks(ctx context.Context, cmd UploadLinksCommand) error {
	dispenser, err := uc.ownedDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress)
	if err != nil {
		return err
	}
	if len(cmd.Links) == 0 {
		return domainerrors.BadRequest("ENCRYPTED_CLAIM_LINKS_REQUIRED", "Encrypted claim links are required.")
	}

	offset, err := uc.Links.CountLinks(ctx, dispenser.ID)
	if err != nil {
		return err
	}
	if offset == 0 {
		return domainerrors.ErrClaimLinkNotFound
	}
	if err := uc.insertLinks(ctx, dispenser.ID, cmd.Links, offset); err != nil {
		return err
	}
	uc.logInfo("dispenser_links_topped_up", "dispenser links topped up",
		"dispenser_id", dispenser.ID,
		"links_count", len(cmd.Links),
		"index_offset", offset,
	)
	return uc.applyPreviewSetting(ctx, dispenser, cmd.PreviewSetting)
}

// ReplaceLinks swaps the whole pool. Only legal while no slot has been handed
// out; once the counter has moved the pool is immutable except for top-ups.
func (uc UseCase) ReplaceLinks(ctx context.Context, cmd UploadLinksCommand) error {
	dispenser, err := uc.ownedDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress)
	if err != nil {
		return err
	}
	if len(cmd.Links) == 0 {
		return domainerrors.BadRequest("ENCRYPTED_CLAIM_LINKS_REQUIRED", "Encrypted claim links are required.")
	}
	if dispenser.Popped > 0 {
		return domainerrors.ErrPoolAlreadyPopped
	}
	if err := uc.Links.DeleteLinks(ctx, dispenser.ID); err != nil {
		return err
	}
	if err := uc.insertLinks(ctx, dispenser.ID, cmd.Links, 0); err != nil {
		return err
	}
	uc.logInfo("dispenser_links_replaced", "dispenser links replaced",
		"dispenser_id", dispenser.ID,
		"links_count", len(cmd.Links),
	)
	return uc.applyPreviewSetting(ctx, dispenser, cmd.PreviewSetting)
}

func (uc UseCase) insertLinks(ctx context.Context, dispenserID string, uploads []LinkUpload, indexOffset int) error {
	now := uc.now()
	links := make([]entities.DispenserLink, 0, len(uploads))
	for i, upload := range uploads {
		linkID := strings.TrimSpace(upload.LinkID)
		if linkID == "" || strings.TrimSpace(upload.EncryptedClaimLink) == "" {
			return domainerrors.BadRequest("ENCRYPTED_CLAIM_LINKS_REQUIRED", "Encrypted claim links are required.")
		}
		links = append(links, entities.DispenserLink{
			ID:                 linkID,
			DispenserID:        dispenserID,
			LinkNumber:         indexOffset + i + 1,
			EncryptedClaimLink: upload.EncryptedClaimLink,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	return uc.Links.CreateLinks(ctx, links)
}

func (uc UseCase) applyPreviewSetting(ctx context.Context, dispenser entities.Dispenser, setting entities.PreviewSetting) error {
	if setting == "" || setting == dispenser.PreviewSetting {
		return nil
	}
	dispenser.PreviewSetting = setting
	dispenser.UpdatedAt = uc.now()
	return uc.Dispensers.UpdateDispenser(ctx, dispenser)
}
