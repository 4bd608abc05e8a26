package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/application/commands"
	"drophub/contexts/claim-delivery/dispenser-service/application/queries"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	httptransport "drophub/contexts/claim-delivery/dispenser-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	// ServerURL and AppURL feed the reclaim verification callback; they are
	// deployment facts, not per-request data.
	ServerURL string
	AppURL    string
	Logger    *slog.Logger
}

func (h Handler) CreateDispenserHandler(
	ctx context.Context,
	creatorAddress string,
	req httptransport.CreateDispenserRequest,
) (httptransport.CreateDispenserResponse, error) {
	dispenser, err := h.Commands.CreateDispenser(ctx, commands.CreateDispenserCommand{
		CreatorAddress:     creatorAddress,
		Title:              req.Title,
		Dynamic:            req.Dynamic,
		Reclaim:            req.Reclaim,
		AppTitle:           req.AppTitle,
		AppTitleOn:         req.AppTitleOn,
		ClaimStart:         unixTime(req.ClaimStart),
		ClaimFinish:        unixTime(req.ClaimFinish),
		ClaimDurationMin:   req.ClaimDurationMin,
		RedirectURL:        req.RedirectURL,
		RedirectOn:         req.RedirectOn,
		TimeframeOn:        req.TimeframeOn,
		MultiscanQRID:      req.MultiscanQRID,
		EncryptedQRSecret:  req.EncryptedQRSecret,
		EncryptedQREncCode: req.EncCode,
	})
	if err != nil {
		return httptransport.CreateDispenserResponse{}, err
	}
	return httptransport.CreateDispenserResponse{
		Success:   true,
		Dispenser: dispenserDTO(queries.DispenserStats{Dispenser: dispenser}),
	}, nil
}

func (h Handler) ListDispensersHandler(ctx context.Context, creatorAddress string) (httptransport.ListDispensersResponse, error) {
	stats, err := h.Queries.ListDispenserStats(ctx, creatorAddress)
	if err != nil {
		return httptransport.ListDispensersResponse{}, err
	}
	resp := httptransport.ListDispensersResponse{
		Success:    true,
		Dispensers: make([]httptransport.DispenserDTO, 0, len(stats)),
	}
	for _, entry := range stats {
		resp.Dispensers = append(resp.Dispensers, dispenserDTO(entry))
	}
	return resp, nil
}

func (h Handler) GetDispenserHandler(ctx context.Context, creatorAddress, dispenserID, proxyAddress string) (httptransport.DispenserResponse, error) {
	stats, err := h.Queries.GetDispenserStats(ctx, creatorAddress, dispenserID, proxyAddress)
	if err != nil {
		return httptransport.DispenserResponse{}, err
	}
	return httptransport.DispenserResponse{Success: true, Dispenser: dispenserDTO(stats)}, nil
}

func (h Handler) UpdateDispenserHandler(
	ctx context.Context,
	creatorAddress, dispenserID string,
	req httptransport.UpdateDispenserRequest,
) (httptransport.DispenserResponse, error) {
	dispenser, err := h.Commands.UpdateDispenser(ctx, commands.UpdateDispenserCommand{
		CreatorAddress:   creatorAddress,
		DispenserID:      dispenserID,
		Title:            req.Title,
		Archived:         req.Archived,
		AppTitle:         req.AppTitle,
		AppTitleOn:       req.AppTitleOn,
		ClaimStart:       unixTime(req.ClaimStart),
		ClaimFinish:      unixTime(req.ClaimFinish),
		ClaimDurationMin: req.ClaimDurationMin,
	})
	if err != nil {
		return httptransport.DispenserResponse{}, err
	}
	return httptransport.DispenserResponse{Success: true, Dispenser: dispenserDTO(queries.DispenserStats{Dispenser: dispenser})}, nil
}

func (h Handler) SetStatusHandler(ctx context.Context, creatorAddress, dispenserID string, req httptransport.ToggleRequest) (httptransport.DispenserResponse, error) {
	return h.toggleResponse(h.Commands.SetActive(ctx, commands.ToggleCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		Value:          req.Enabled,
	}))
}

func (h Handler) SetRedirectOnHandler(ctx context.Context, creatorAddress, dispenserID string, req httptransport.ToggleRequest) (httptransport.DispenserResponse, error) {
	return h.toggleResponse(h.Commands.SetRedirectOn(ctx, commands.ToggleCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		Value:          req.Enabled,
	}))
}

func (h Handler) SetWhitelistOnHandler(ctx context.Context, creatorAddress, dispenserID string, req httptransport.ToggleRequest) (httptransport.DispenserResponse, error) {
	return h.toggleResponse(h.Commands.SetWhitelistOn(ctx, commands.ToggleCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		Value:          req.Enabled,
	}))
}

func (h Handler) SetTimeframeOnHandler(ctx context.Context, creatorAddress, dispenserID string, req httptransport.ToggleRequest) (httptransport.DispenserResponse, error) {
	return h.toggleResponse(h.Commands.SetTimeframeOn(ctx, commands.ToggleCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		Value:          req.Enabled,
	}))
}

func (h Handler) SetRedirectURLHandler(ctx context.Context, creatorAddress, dispenserID string, req httptransport.RedirectURLRequest) (httptransport.DispenserResponse, error) {
	return h.toggleResponse(h.Commands.SetRedirectURL(ctx, commands.SetRedirectURLCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		RedirectURL:    req.RedirectURL,
	}))
}

func (h Handler) SetReclaimFollowHandler(ctx context.Context, creatorAddress, dispenserID string, req httptransport.ReclaimFollowRequest) (httptransport.DispenserResponse, error) {
	return h.toggleResponse(h.Commands.SetReclaimFollow(ctx, commands.SetReclaimFollowCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		FollowID:       req.FollowID,
	}))
}

func (h Handler) toggleResponse(dispenser entities.Dispenser, err error) (httptransport.DispenserResponse, error) {
	if err != nil {
		return httptransport.DispenserResponse{}, err
	}
	return httptransport.DispenserResponse{Success: true, Dispenser: dispenserDTO(queries.DispenserStats{Dispenser: dispenser})}, nil
}

func (h Handler) ReplaceWhitelistHandler(
	ctx context.Context,
	creatorAddress, dispenserID string,
	req httptransport.WhitelistRequest,
) (httptransport.WhitelistResponse, error) {
	_, err := h.Commands.ReplaceWhitelist(ctx, commands.ReplaceWhitelistCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		Kind:           entities.WhitelistKind(req.WhitelistType),
		Values:         req.Addresses,
		WhitelistOn:    true,
	})
	if err != nil {
		return httptransport.WhitelistResponse{}, err
	}
	return httptransport.WhitelistResponse{Success: true, WhitelistCount: len(req.Addresses)}, nil
}

func (h Handler) UploadLinksHandler(
	ctx context.Context,
	creatorAddress, dispenserID string,
	req httptransport.UploadLinksRequest,
) (httptransport.UploadLinksResponse, error) {
	cmd := commands.UploadLinksCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		PreviewSetting: entities.PreviewSetting(req.PreviewSetting),
		Links:          linkUploads(req.EncryptedClaimLinks),
	}
	var err error
	if req.TopUp {
		err = h.Commands.TopUpLinks(ctx, cmd)
	} else {
		err = h.Commands.UploadLinks(ctx, cmd)
	}
	if err != nil {
		return httptransport.UploadLinksResponse{}, err
	}
	return httptransport.UploadLinksResponse{Success: true, LinksAdded: len(cmd.Links)}, nil
}

func (h Handler) ReplaceLinksHandler(
	ctx context.Context,
	creatorAddress, dispenserID string,
	req httptransport.UploadLinksRequest,
) (httptransport.UploadLinksResponse, error) {
	cmd := commands.UploadLinksCommand{
		CreatorAddress: creatorAddress,
		DispenserID:    dispenserID,
		PreviewSetting: entities.PreviewSetting(req.PreviewSetting),
		Links:          linkUploads(req.EncryptedClaimLinks),
	}
	if err := h.Commands.ReplaceLinks(ctx, cmd); err != nil {
		return httptransport.UploadLinksResponse{}, err
	}
	return httptransport.UploadLinksResponse{Success: true, LinksAdded: len(cmd.Links)}, nil
}

func (h Handler) LinksReportHandler(ctx context.Context, creatorAddress, dispenserID, proxyAddress string) (httptransport.ReportResponse, error) {
	items, err := h.Queries.LinksReport(ctx, creatorAddress, dispenserID, proxyAddress)
	if err != nil {
		return httptransport.ReportResponse{}, err
	}
	resp := httptransport.ReportResponse{
		Success: true,
		Items:   make([]httptransport.ReportItemDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, httptransport.ReportItemDTO{
			LinkID:       item.LinkID,
			Receiver:     item.Receiver,
			TokenAddress: item.TokenAddress,
			TokenID:      item.TokenID,
			TokenAmount:  item.TokenAmount,
			TxHash:       item.TxHash,
		})
	}
	return resp, nil
}

func (h Handler) ClaimerSettingsHandler(ctx context.Context, multiscanQRID, sessionID string) (httptransport.ClaimerSettingsResponse, error) {
	settings, err := h.Queries.GetClaimerSettings(ctx, multiscanQRID, sessionID, h.ServerURL, h.AppURL)
	if err != nil {
		return httptransport.ClaimerSettingsResponse{}, err
	}
	return httptransport.ClaimerSettingsResponse{
		Success:         true,
		AppTitle:        settings.AppTitle,
		AppTitleOn:      settings.AppTitleOn,
		Reclaim:         settings.Reclaim,
		RedirectURL:     settings.RedirectURL,
		RedirectOn:      settings.RedirectOn,
		WhitelistOn:     settings.WhitelistOn,
		WhitelistType:   string(settings.WhitelistKind),
		PreviewSetting:  string(settings.PreviewSetting),
		VerificationURL: settings.VerificationURL,
	}, nil
}

func (h Handler) PopHandler(ctx context.Context, multiscanQRID string, req httptransport.PopRequest) (httptransport.PopResponse, error) {
	link, err := h.Commands.Pop(ctx, commands.PopCommand{
		MultiscanQRID: multiscanQRID,
		ScanID:        req.ScanID,
		ScanIDSig:     req.ScanIDSig,
		Receiver:      req.Receiver,
		ReceiverSig:   req.ReceiverSig,
		SocketID:      req.SocketID,
	})
	if err != nil {
		return httptransport.PopResponse{}, err
	}
	return httptransport.PopResponse{Success: true, EncryptedClaimLink: link}, nil
}

func (h Handler) ReclaimProofHandler(
	ctx context.Context,
	multiscanQRID, sessionID string,
	req httptransport.ReclaimProofRequest,
) (httptransport.ReclaimProofResponse, error) {
	proof := entities.ReclaimProof{
		Identifier: req.Identifier,
		Signatures: req.Signatures,
	}
	proof.ClaimData = entities.ReclaimClaimData{
		Provider:   req.ClaimData.Provider,
		Parameters: req.ClaimData.Parameters,
		Owner:      req.ClaimData.Owner,
		Timestamp:  req.ClaimData.Timestamp,
		Context:    req.ClaimData.Context,
		Identifier: req.ClaimData.Identifier,
		Epoch:      req.ClaimData.Epoch,
	}
	verification, err := h.Commands.ResolveProof(ctx, commands.ResolveProofCommand{
		MultiscanQRID: multiscanQRID,
		SessionID:     sessionID,
		Proof:         proof,
	})
	if err != nil {
		return httptransport.ReclaimProofResponse{}, err
	}
	return httptransport.ReclaimProofResponse{
		Success: verification.Status == entities.VerificationStatusSuccess,
		Status:  string(verification.Status),
		Cause:   verification.Cause,
		Message: verification.Message,
	}, nil
}

func (h Handler) RedeemReclaimHandler(ctx context.Context, multiscanQRID string, req httptransport.RedeemReclaimRequest) (httptransport.RedeemReclaimResponse, error) {
	link, err := h.Commands.RedeemReclaimLink(ctx, commands.RedeemReclaimLinkCommand{
		MultiscanQRID: multiscanQRID,
		SessionID:     req.SessionID,
	})
	if err != nil {
		return httptransport.RedeemReclaimResponse{}, err
	}
	return httptransport.RedeemReclaimResponse{Success: true, EncryptedClaimLink: link}, nil
}

func dispenserDTO(stats queries.DispenserStats) httptransport.DispenserDTO {
	d := stats.Dispenser
	return httptransport.DispenserDTO{
		ID:               d.ID,
		CreatorAddress:   d.CreatorAddress,
		MultiscanQRID:    d.MultiscanQRID,
		Title:            d.Title,
		Dynamic:          d.Dynamic,
		Reclaim:          d.Reclaim,
		Active:           d.Active,
		Archived:         d.Archived,
		PreviewSetting:   string(d.PreviewSetting),
		ClaimStart:       rfc3339OrNil(d.ClaimStart),
		ClaimFinish:      rfc3339OrNil(d.ClaimFinish),
		ClaimDurationMin: d.ClaimDurationMin,
		TimeframeOn:      d.TimeframeOn,
		WhitelistOn:      d.WhitelistOn,
		WhitelistType:    string(d.WhitelistKind),
		WhitelistCount:   stats.WhitelistCount,
		AppTitle:         d.AppTitle,
		AppTitleOn:       d.AppTitleOn,
		RedirectURL:      d.RedirectURL,
		RedirectOn:       d.RedirectOn,
		ReclaimProvider:  string(d.ReclaimProvider),
		ReclaimFollowID:  d.ReclaimFollowID,
		LinksCount:       stats.LinksCount,
		LinksAssigned:    stats.LinksAssigned,
		LinksClaimed:     stats.LinksClaimed,
		CreatedAt:        d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func linkUploads(items []httptransport.LinkUploadDTO) []commands.LinkUpload {
	uploads := make([]commands.LinkUpload, 0, len(items))
	for _, item := range items {
		uploads = append(uploads, commands.LinkUpload{
			LinkID:             item.LinkID,
			EncryptedClaimLink: item.EncryptedClaimLink,
		})
	}
	return uploads
}

func unixTime(seconds *int64) *time.Time {
	if seconds == nil {
		return nil
	}
	t := time.Unix(*seconds, 0).UTC()
	return &t
}

func rfc3339OrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
