package commands

import (
	"context"
	"strings"

	"drophub/contexts/claim-delivery/dispenser-service/application/reclaimproof"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

type ResolveProofCommand struct {
	MultiscanQRID string
	SessionID     string
	Proof         entities.ReclaimProof
}

// ResolveProof runs one verification round for a reclaim session: the proof
// is validated, the social handle extracted and recorded, the follow
// attestation checked when the dispenser demands one, and the whitelist
// consulted. The outcome lands on the verification row as data rather than an
// error, because the claimant reads it later through a decoupled poll.
func (uc UseCase) ResolveProof(ctx context.Context, cmd ResolveProofCommand) (entities.ReclaimVerification, error) {
	dispenser, err := uc.Dispensers.GetDispenserByMultiscanQRID(ctx, strings.ToLower(strings.TrimSpace(cmd.MultiscanQRID)))
	if err != nil {
		return entities.ReclaimVerification{}, err
	}
	if !dispenser.Reclaim {
		return entities.ReclaimVerification{}, domainerrors.ErrReclaimOnPlain
	}
	sessionID := strings.TrimSpace(cmd.SessionID)
	if sessionID == "" {
		return entities.ReclaimVerification{}, domainerrors.BadRequest("RECLAIM_SESSION_ID_REQUIRED", "Reclaim session id is required.")
	}

	verification, err := uc.Verifications.UpsertPendingVerification(ctx, sessionID)
	if err != nil {
		return entities.ReclaimVerification{}, err
	}

	if err := uc.Verifier.Verify(cmd.Proof); err != nil {
		uc.logWarn("reclaim_proof_rejected", "reclaim proof rejected",
			"dispenser_id", dispenser.ID,
			"session_id", sessionID,
			"error", err.Error(),
		)
		return uc.failVerification(ctx, verification, domainerrors.CauseInvalidProofsData, "Invalid proofs data.")
	}

	handle, err := reclaimproof.ExtractHandle(dispenser.ReclaimProvider, cmd.Proof.ClaimData.Context)
	if err != nil {
		// Unknown provider type is a dispenser misconfiguration, not a
		// verification outcome; surface it instead of storing a failure.
		return entities.ReclaimVerification{}, err
	}
	if handle == "" {
		return uc.failVerification(ctx, verification, domainerrors.CauseNoUserHandle, "No user handle found in proof.")
	}

	// The handle is recorded even when a later step fails, so support can see
	// who attempted the claim.
	handle = strings.ToLower(handle)
	verification.Handle = handle
	if err := uc.Verifications.UpdateVerification(ctx, verification); err != nil {
		return entities.ReclaimVerification{}, err
	}

	if dispenser.ReclaimFollowID != "" {
		following, followTarget := reclaimproof.ExtractFollow(cmd.Proof.ClaimData.Context)
		if !following {
			return uc.failVerification(ctx, verification, domainerrors.CauseShouldFollow, "User should follow the account to claim.")
		}
		if followTarget != dispenser.ReclaimFollowID {
			return uc.failVerification(ctx, verification, domainerrors.CauseWrongFollowTarget, "User should follow the correct account to claim.")
		}
	}

	if dispenser.WhitelistOn {
		listed, err := uc.handleWhitelisted(ctx, dispenser, handle)
		if err != nil {
			return entities.ReclaimVerification{}, err
		}
		if !listed {
			return uc.failVerification(ctx, verification, domainerrors.CauseNotWhitelisted, "User is not whitelisted.")
		}
	} else {
		// Open dispensers auto-register first-seen handles.
		if _, err := uc.findOrCreateHandle(ctx, dispenser, handle, sessionID); err != nil {
			return entities.ReclaimVerification{}, err
		}
	}

	verification.Status = entities.VerificationStatusSuccess
	verification.Cause = ""
	verification.Message = ""
	verification.UpdatedAt = uc.now()
	if err := uc.Verifications.UpdateVerification(ctx, verification); err != nil {
		return entities.ReclaimVerification{}, err
	}
	uc.logInfo("reclaim_verification_succeeded", "reclaim verification succeeded",
		"dispenser_id", dispenser.ID,
		"session_id", sessionID,
		"handle", handle,
	)
	return verification, nil
}

type RedeemReclaimLinkCommand struct {
	MultiscanQRID string
	SessionID     string
}

// RedeemReclaimLink releases a slot to a successfully verified session. The
// slot is bound to the durable handle record, so any later redemption for the
// same handle, from any session, replays the original link.
func (uc UseCase) RedeemReclaimLink(ctx context.Context, cmd RedeemReclaimLinkCommand) (string, error) {
	dispenser, err := uc.Dispensers.GetDispenserByMultiscanQRID(ctx, strings.ToLower(strings.TrimSpace(cmd.MultiscanQRID)))
	if err != nil {
		return "", err
	}
	if !dispenser.Reclaim {
		return "", domainerrors.ErrReclaimOnPlain
	}
	sessionID := strings.TrimSpace(cmd.SessionID)

	verification, found, err := uc.Verifications.GetVerification(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !found {
		// No verification round for this session; the only legitimate replay
		// left is a link already stamped with the session id.
		if previous, ok, err := uc.Links.FindLinkBySessionID(ctx, dispenser.ID, sessionID); err != nil {
			return "", err
		} else if ok {
			return previous.EncryptedClaimLink, nil
		}
		return "", domainerrors.ErrReclaimNotRedeemed
	}

	switch verification.Status {
	case entities.VerificationStatusSuccess:
	case entities.VerificationStatusFailed:
		cause := verification.Cause
		if cause == "" {
			cause = domainerrors.CauseInvalidProofsData
		}
		return "", domainerrors.Forbidden(cause, verification.Message)
	default:
		return "", domainerrors.Forbidden(domainerrors.CausePending, "Reclaim verification is still pending.")
	}

	handleRecord, err := uc.findOrCreateHandle(ctx, dispenser, verification.Handle, sessionID)
	if err != nil {
		return "", err
	}
	if handleRecord.AlreadyClaimed && handleRecord.LinkID != "" {
		previous, ok, err := uc.Links.FindLinkByID(ctx, handleRecord.LinkID)
		if err != nil {
			return "", err
		}
		if ok {
			return previous.EncryptedClaimLink, nil
		}
	}

	if err := uc.checkDispenserOpen(dispenser); err != nil {
		return "", err
	}
	link, err := uc.allocateNextLink(ctx, dispenser)
	if err != nil {
		return "", err
	}

	link.ReclaimSessionID = sessionID
	link.UpdatedAt = uc.now()
	if err := uc.Links.UpdateLink(ctx, link); err != nil {
		return "", err
	}

	handleRecord.AlreadyClaimed = true
	handleRecord.LinkID = link.ID
	handleRecord.SessionID = sessionID
	handleRecord.UpdatedAt = uc.now()
	if err := uc.Handles.UpdateHandle(ctx, handleRecord); err != nil {
		return "", err
	}

	uc.logInfo("reclaim_link_redeemed", "reclaim link redeemed",
		"dispenser_id", dispenser.ID,
		"session_id", sessionID,
		"handle", handleRecord.Handle,
		"link_number", link.LinkNumber,
	)
	return link.EncryptedClaimLink, nil
}

func (uc UseCase) failVerification(ctx context.Context, verification entities.ReclaimVerification, cause, message string) (entities.ReclaimVerification, error) {
	verification.Status = entities.VerificationStatusFailed
	verification.Cause = cause
	verification.Message = message
	verification.UpdatedAt = uc.now()
	if err := uc.Verifications.UpdateVerification(ctx, verification); err != nil {
		return entities.ReclaimVerification{}, err
	}
	return verification, nil
}

// handleWhitelisted consults the in-memory handle cache, hydrating it from
// the whitelist store the first time a dispenser is seen after startup.
func (uc UseCase) handleWhitelisted(ctx context.Context, dispenser entities.Dispenser, handle string) (bool, error) {
	if !uc.HandleCache.Loaded(dispenser.ID) {
		kind := dispenser.WhitelistKind
		if kind == "" {
			kind = entities.WhitelistKindTwitter
		}
		values, err := uc.Whitelist.ListWhitelistValues(ctx, dispenser.ID, kind)
		if err != nil {
			return false, err
		}
		uc.HandleCache.Load(dispenser.ID, values)
	}
	return uc.HandleCache.Contains(dispenser.ID, handle), nil
}

func (uc UseCase) findOrCreateHandle(ctx context.Context, dispenser entities.Dispenser, handle, sessionID string) (entities.Handle, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	record, found, err := uc.Handles.FindHandle(ctx, dispenser.ID, handle)
	if err != nil {
		return entities.Handle{}, err
	}
	if found {
		return record, nil
	}
	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Handle{}, err
	}
	record = entities.Handle{
		ID:          id,
		DispenserID: dispenser.ID,
		Handle:      handle,
		Provider:    dispenser.ReclaimProvider,
		SessionID:   sessionID,
		CreatedAt:   uc.now(),
		UpdatedAt:   uc.now(),
	}
	if err := uc.Handles.CreateHandle(ctx, record); err != nil {
		return entities.Handle{}, err
	}
	return record, nil
}
