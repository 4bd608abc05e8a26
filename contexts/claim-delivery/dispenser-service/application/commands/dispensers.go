package commands

import (
	"context"
	"strings"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

type CreateDispenserCommand struct {
	CreatorAddress     string
	Title              string
	Dynamic            bool
	Reclaim            bool
	AppTitle           string
	AppTitleOn         bool
	ClaimStart         *time.Time
	ClaimFinish        *time.Time
	ClaimDurationMin   int
	RedirectURL        string
	RedirectOn         bool
	TimeframeOn        bool
	MultiscanQRID      string
	EncryptedQRSecret  string
	EncryptedQREncCode string
}

func (uc UseCase) CreateDispenser(ctx context.Context, cmd CreateDispenserCommand) (entities.Dispenser, error) {
	creator := strings.ToLower(strings.TrimSpace(cmd.CreatorAddress))
	if creator == "" {
		return entities.Dispenser{}, domainerrors.BadRequest("CREATOR_ADDRESS_REQUIRED", "Creator address is not provided.")
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return entities.Dispenser{}, domainerrors.BadRequest("TITLE_REQUIRED", "Title is not provided.")
	}
	if err := validateWindow(cmd.ClaimStart, cmd.ClaimFinish); err != nil {
		return entities.Dispenser{}, err
	}

	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Dispenser{}, err
	}
	now := uc.now()
	dispenser := entities.Dispenser{
		ID:                 id,
		CreatorAddress:     creator,
		MultiscanQRID:      strings.ToLower(strings.TrimSpace(cmd.MultiscanQRID)),
		Title:              strings.TrimSpace(cmd.Title),
		EncryptedQRSecret:  cmd.EncryptedQRSecret,
		EncryptedQREncCode: cmd.EncryptedQREncCode,
		PreviewSetting:     entities.PreviewSettingToken,
		Active:             true,
		Dynamic:            cmd.Dynamic,
		Reclaim:            cmd.Reclaim,
		ClaimStart:         cmd.ClaimStart,
		ClaimFinish:        cmd.ClaimFinish,
		ClaimDurationMin:   cmd.ClaimDurationMin,
		TimeframeOn:        cmd.TimeframeOn,
		AppTitle:           strings.TrimSpace(cmd.AppTitle),
		AppTitleOn:         cmd.AppTitleOn,
		RedirectURL:        strings.TrimSpace(cmd.RedirectURL),
		RedirectOn:         cmd.RedirectOn,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if cmd.Reclaim {
		dispenser.ReclaimAppID = uc.ReclaimApp.AppID
		dispenser.ReclaimAppSecret = uc.ReclaimApp.AppSecret
		dispenser.ReclaimProviderID = uc.ReclaimApp.ProviderID
		dispenser.ReclaimProvider = entities.ReclaimProviderInstagram
	}

	if err := uc.Dispensers.CreateDispenser(ctx, dispenser); err != nil {
		return entities.Dispenser{}, err
	}
	uc.logInfo("dispenser_created", "dispenser created",
		"dispenser_id", dispenser.ID,
		"creator_address", creator,
		"reclaim", dispenser.Reclaim,
		"dynamic", dispenser.Dynamic,
	)
	return dispenser, nil
}

type UpdateDispenserCommand struct {
	CreatorAddress   string
	DispenserID      string
	Title            *string
	Archived         *bool
	AppTitle         *string
	AppTitleOn       *bool
	ClaimStart       *time.Time
	ClaimFinish      *time.Time
	ClaimDurationMin *int
}

// UpdateDispenser applies the dashboard settings patch. Nil fields are left
// untouched.
func (uc UseCase) UpdateDispenser(ctx context.Context, cmd UpdateDispenserCommand) (entities.Dispenser, error) {
	dispenser, err := uc.ownedDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress)
	if err != nil {
		return entities.Dispenser{}, err
	}

	if cmd.Title != nil {
		dispenser.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Archived != nil {
		dispenser.Archived = *cmd.Archived
	}
	if cmd.AppTitle != nil {
		dispenser.AppTitle = strings.TrimSpace(*cmd.AppTitle)
	}
	if cmd.AppTitleOn != nil {
		dispenser.AppTitleOn = *cmd.AppTitleOn
	}
	if cmd.ClaimStart != nil {
		dispenser.ClaimStart = cmd.ClaimStart
	}
	if cmd.ClaimFinish != nil {
		dispenser.ClaimFinish = cmd.ClaimFinish
	}
	if cmd.ClaimDurationMin != nil {
		dispenser.ClaimDurationMin = *cmd.ClaimDurationMin
	}
	if err := validateWindow(dispenser.ClaimStart, dispenser.ClaimFinish); err != nil {
		return entities.Dispenser{}, err
	}

	dispenser.UpdatedAt = uc.now()
	if err := uc.Dispensers.UpdateDispenser(ctx, dispenser); err != nil {
		return entities.Dispenser{}, err
	}
	return dispenser, nil
}

type ToggleCommand struct {
	CreatorAddress string
	DispenserID    string
	Value          bool
}

func (uc UseCase) SetActive(ctx context.Context, cmd ToggleCommand) (entities.Dispenser, error) {
	return uc.patchDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress, func(d *entities.Dispenser) {
		d.Active = cmd.Value
	})
}

func (uc UseCase) SetRedirectOn(ctx context.Context, cmd ToggleCommand) (entities.Dispenser, error) {
	return uc.patchDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress, func(d *entities.Dispenser) {
		d.RedirectOn = cmd.Value
	})
}

func (uc UseCase) SetWhitelistOn(ctx context.Context, cmd ToggleCommand) (entities.Dispenser, error) {
	return uc.patchDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress, func(d *entities.Dispenser) {
		d.WhitelistOn = cmd.Value
	})
}

func (uc UseCase) SetTimeframeOn(ctx context.Context, cmd ToggleCommand) (entities.Dispenser, error) {
	return uc.patchDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress, func(d *entities.Dispenser) {
		d.TimeframeOn = cmd.Value
	})
}

type SetRedirectURLCommand struct {
	CreatorAddress string
	DispenserID    string
	RedirectURL    string
}

func (uc UseCase) SetRedirectURL(ctx context.Context, cmd SetRedirectURLCommand) (entities.Dispenser, error) {
	return uc.patchDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress, func(d *entities.Dispenser) {
		d.RedirectURL = strings.TrimSpace(cmd.RedirectURL)
	})
}

type SetReclaimFollowCommand struct {
	CreatorAddress string
	DispenserID    string
	FollowID       string
}

// SetReclaimFollow updates the social account the reclaim proof must attest
// to following.
func (uc UseCase) SetReclaimFollow(ctx context.Context, cmd SetReclaimFollowCommand) (entities.Dispenser, error) {
	dispenser, err := uc.ownedDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress)
	if err != nil {
		return entities.Dispenser{}, err
	}
	if !dispenser.Reclaim {
		return entities.Dispenser{}, domainerrors.ErrReclaimOnPlain
	}
	dispenser.ReclaimFollowID = strings.TrimSpace(cmd.FollowID)
	dispenser.UpdatedAt = uc.now()
	if err := uc.Dispensers.UpdateDispenser(ctx, dispenser); err != nil {
		return entities.Dispenser{}, err
	}
	return dispenser, nil
}

type ReplaceWhitelistCommand struct {
	CreatorAddress string
	DispenserID    string
	Kind           entities.WhitelistKind
	Values         []string
	WhitelistOn    bool
}

// ReplaceWhitelist swaps the dispenser's whitelist wholesale and reloads the
// in-memory handle cache so reclaim gating sees the new set immediately.
func (uc UseCase) ReplaceWhitelist(ctx context.Context, cmd ReplaceWhitelistCommand) (entities.Dispenser, error) {
	switch cmd.Kind {
	case entities.WhitelistKindAddress, entities.WhitelistKindEmail, entities.WhitelistKindTwitter:
	default:
		return entities.Dispenser{}, domainerrors.ErrInvalidWhitelistKind
	}
	dispenser, err := uc.ownedDispenser(ctx, cmd.DispenserID, cmd.CreatorAddress)
	if err != nil {
		return entities.Dispenser{}, err
	}

	now := uc.now()
	items := make([]entities.WhitelistItem, 0, len(cmd.Values))
	values := make([]string, 0, len(cmd.Values))
	for _, value := range cmd.Values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		id, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Dispenser{}, err
		}
		items = append(items, entities.WhitelistItem{
			ID:          id,
			DispenserID: dispenser.ID,
			Kind:        cmd.Kind,
			Value:       value,
			CreatedAt:   now,
		})
		values = append(values, value)
	}
	if err := uc.Whitelist.ReplaceWhitelist(ctx, dispenser.ID, items); err != nil {
		return entities.Dispenser{}, err
	}
	// Reload unconditionally: reclaim gating reads this cache for every
	// handle-bearing kind and hydrates it only once per dispenser.
	uc.HandleCache.Load(dispenser.ID, values)

	dispenser.WhitelistOn = cmd.WhitelistOn
	dispenser.WhitelistKind = cmd.Kind
	dispenser.UpdatedAt = now
	if err := uc.Dispensers.UpdateDispenser(ctx, dispenser); err != nil {
		return entities.Dispenser{}, err
	}
	uc.logInfo("dispenser_whitelist_replaced", "dispenser whitelist replaced",
		"dispenser_id", dispenser.ID,
		"whitelist_type", string(cmd.Kind),
		"items_count", len(items),
	)
	return dispenser, nil
}

func (uc UseCase) patchDispenser(ctx context.Context, dispenserID, creatorAddress string, mutate func(*entities.Dispenser)) (entities.Dispenser, error) {
	dispenser, err := uc.ownedDispenser(ctx, dispenserID, creatorAddress)
	if err != nil {
		return entities.Dispenser{}, err
	}
	mutate(&dispenser)
	dispenser.UpdatedAt = uc.now()
	if err := uc.Dispensers.UpdateDispenser(ctx, dispenser); err != nil {
		return entities.Dispenser{}, err
	}
	return dispenser, nil
}

func validateWindow(start, finish *time.Time) error {
	if start != nil && finish != nil && !start.Before(*finish) {
		return domainerrors.ErrInvalidClaimStart
	}
	return nil
}
