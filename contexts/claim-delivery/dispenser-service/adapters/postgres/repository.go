package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateDispenser(ctx context.Context, dispenser entities.Dispenser) error {
	row := dispenserModelFromEntity(dispenser)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.BadRequest("DISPENSER_ALREADY_EXISTS", "Dispenser with this multiscan QR id already exists.")
		}
		return r.logError("dispenser_insert_failed", err, "dispenser_id", dispenser.ID)
	}
	return nil
}

func (r *Repository) GetDispenser(ctx context.Context, dispenserID string) (entities.Dispenser, error) {
	var row dispenserModel
	err := r.db.WithContext(ctx).
		Where("dispenser_id = ?", strings.TrimSpace(dispenserID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Dispenser{}, domainerrors.ErrDispenserNotFound
		}
		return entities.Dispenser{}, r.logError("dispenser_lookup_failed", err, "dispenser_id", dispenserID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetDispenserByMultiscanQRID(ctx context.Context, multiscanQRID string) (entities.Dispenser, error) {
	var row dispenserModel
	err := r.db.WithContext(ctx).
		Where("LOWER(multiscan_qr_id) = ?", strings.ToLower(strings.TrimSpace(multiscanQRID))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Dispenser{}, domainerrors.ErrDispenserNotFound
		}
		return entities.Dispenser{}, r.logError("dispenser_lookup_failed", err, "multiscan_qr_id", multiscanQRID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDispensersByCreator(ctx context.Context, creatorAddress string) ([]entities.Dispenser, error) {
	var rows []dispenserModel
	err := r.db.WithContext(ctx).
		Where("LOWER(creator_address) = ?", strings.ToLower(strings.TrimSpace(creatorAddress))).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("dispenser_list_failed", err, "creator_address", creatorAddress)
	}

	items := make([]entities.Dispenser, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateDispenser(ctx context.Context, dispenser entities.Dispenser) error {
	// Popped is deliberately absent: AdvancePopped is its only writer.
	result := r.db.WithContext(ctx).
		Model(&dispenserModel{}).
		Where("dispenser_id = ?", strings.TrimSpace(dispenser.ID)).
		Updates(map[string]any{
			"title":              strings.TrimSpace(dispenser.Title),
			"preview_setting":    string(dispenser.PreviewSetting),
			"active":             dispenser.Active,
			"archived":           dispenser.Archived,
			"claim_start":        timePtrUTC(dispenser.ClaimStart),
			"claim_finish":       timePtrUTC(dispenser.ClaimFinish),
			"claim_duration_min": dispenser.ClaimDurationMin,
			"timeframe_on":       dispenser.TimeframeOn,
			"whitelist_on":       dispenser.WhitelistOn,
			"whitelist_kind":     string(dispenser.WhitelistKind),
			"app_title":          dispenser.AppTitle,
			"app_title_on":       dispenser.AppTitleOn,
			"redirect_url":       dispenser.RedirectURL,
			"redirect_on":        dispenser.RedirectOn,
			"reclaim_provider":   string(dispenser.ReclaimProvider),
			"reclaim_follow_id":  dispenser.ReclaimFollowID,
			"updated_at":         dispenser.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("dispenser_update_failed", result.Error, "dispenser_id", dispenser.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDispenserNotFound
	}
	return nil
}

func (r *Repository) AdvancePopped(ctx context.Context, dispenserID string) (int, error) {
	// Single-statement increment-and-return; concurrent pops each observe a
	// distinct counter value.
	var popped int
	err := r.db.WithContext(ctx).
		Raw(
			"UPDATE dispensers SET popped = popped + 1, updated_at = NOW() WHERE dispenser_id = ? RETURNING popped",
			strings.TrimSpace(dispenserID),
		).
		Scan(&popped).
		Error
	if err != nil {
		return 0, r.logError("dispenser_advance_popped_failed", err, "dispenser_id", dispenserID)
	}
	if popped == 0 {
		return 0, domainerrors.ErrDispenserNotFound
	}
	return popped, nil
}

func (r *Repository) CreateLinks(ctx context.Context, links []entities.DispenserLink) error {
	if len(links) == 0 {
		return nil
	}
	rows := make([]dispenserLinkModel, 0, len(links))
	for _, link := range links {
		rows = append(rows, linkModelFromEntity(link))
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, 500).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateLinks
		}
		return r.logError("links_insert_failed", err, "dispenser_id", links[0].DispenserID)
	}
	return nil
}

func (r *Repository) CountLinks(ctx context.Context, dispenserID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dispenserLinkModel{}).
		Where("dispenser_id = ?", strings.TrimSpace(dispenserID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("links_count_failed", err, "dispenser_id", dispenserID)
	}
	return int(count), nil
}

func (r *Repository) GetLinkByNumber(ctx context.Context, dispenserID string, linkNumber int) (entities.DispenserLink, bool, error) {
	return r.findLink(ctx, "dispenser_id = ? AND link_number = ?", strings.TrimSpace(dispenserID), linkNumber)
}

func (r *Repository) FindLinkByScanID(ctx context.Context, dispenserID, scanID string) (entities.DispenserLink, bool, error) {
	return r.findLink(ctx, "dispenser_id = ? AND scan_id = ?", strings.TrimSpace(dispenserID), scanID)
}

func (r *Repository) FindLinkByReceiver(ctx context.Context, dispenserID, receiver string) (entities.DispenserLink, bool, error) {
	return r.findLink(ctx, "dispenser_id = ? AND LOWER(receiver) = ?", strings.TrimSpace(dispenserID), strings.ToLower(receiver))
}

func (r *Repository) FindLinkBySessionID(ctx context.Context, dispenserID, sessionID string) (entities.DispenserLink, bool, error) {
	return r.findLink(ctx, "dispenser_id = ? AND reclaim_session_id = ?", strings.TrimSpace(dispenserID), sessionID)
}

func (r *Repository) FindLinkByID(ctx context.Context, linkID string) (entities.DispenserLink, bool, error) {
	return r.findLink(ctx, "link_id = ?", strings.TrimSpace(linkID))
}

func (r *Repository) findLink(ctx context.Context, query string, args ...any) (entities.DispenserLink, bool, error) {
	var row dispenserLinkModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DispenserLink{}, false, nil
		}
		return entities.DispenserLink{}, false, r.logError("link_lookup_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpdateLink(ctx context.Context, link entities.DispenserLink) error {
	result := r.db.WithContext(ctx).
		Model(&dispenserLinkModel{}).
		Where("link_id = ?", strings.TrimSpace(link.ID)).
		Updates(map[string]any{
			"scan_id":            link.ScanID,
			"receiver":           link.Receiver,
			"reclaim_session_id": link.ReclaimSessionID,
			"updated_at":         link.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("link_update_failed", result.Error, "link_id", link.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrClaimLinkNotFound
	}
	return nil
}

func (r *Repository) DeleteLinks(ctx context.Context, dispenserID string) error {
	err := r.db.WithContext(ctx).
		Where("dispenser_id = ?", strings.TrimSpace(dispenserID)).
		Delete(&dispenserLinkModel{}).
		Error
	if err != nil {
		return r.logError("links_delete_failed", err, "dispenser_id", dispenserID)
	}
	return nil
}

func (r *Repository) ReplaceWhitelist(ctx context.Context, dispenserID string, items []entities.WhitelistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispenser_id = ?", strings.TrimSpace(dispenserID)).Delete(&whitelistItemModel{}).Error; err != nil {
			return r.logError("whitelist_delete_failed", err, "dispenser_id", dispenserID)
		}
		if len(items) == 0 {
			return nil
		}
		rows := make([]whitelistItemModel, 0, len(items))
		for _, item := range items {
			rows = append(rows, whitelistItemModelFromEntity(item))
		}
		if err := tx.CreateInBatches(&rows, 500).Error; err != nil {
			return r.logError("whitelist_insert_failed", err, "dispenser_id", dispenserID)
		}
		return nil
	})
}

func (r *Repository) CountWhitelist(ctx context.Context, dispenserID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&whitelistItemModel{}).
		Where("dispenser_id = ?", strings.TrimSpace(dispenserID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("whitelist_count_failed", err, "dispenser_id", dispenserID)
	}
	return int(count), nil
}

func (r *Repository) HasWhitelistValue(ctx context.Context, dispenserID string, kind entities.WhitelistKind, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&whitelistItemModel{}).
		Where("dispenser_id = ? AND kind = ? AND LOWER(value) = ?",
			strings.TrimSpace(dispenserID), string(kind), strings.ToLower(strings.TrimSpace(value))).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("whitelist_lookup_failed", err, "dispenser_id", dispenserID)
	}
	return count > 0, nil
}

func (r *Repository) ListWhitelistValues(ctx context.Context, dispenserID string, kind entities.WhitelistKind) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&whitelistItemModel{}).
		Where("dispenser_id = ? AND kind = ?", strings.TrimSpace(dispenserID), string(kind)).
		Pluck("value", &values).
		Error
	if err != nil {
		return nil, r.logError("whitelist_list_failed", err, "dispenser_id", dispenserID)
	}
	return values, nil
}

func (r *Repository) UpsertPendingVerification(ctx context.Context, sessionID string) (entities.ReclaimVerification, error) {
	sessionID = strings.TrimSpace(sessionID)
	now := time.Now().UTC()

	var row reclaimVerificationModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&row).
		Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = reclaimVerificationModel{
			SessionID: sessionID,
			Status:    string(entities.VerificationStatusPending),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			if !isUniqueViolation(err) {
				return entities.ReclaimVerification{}, r.logError("verification_insert_failed", err, "session_id", sessionID)
			}
			// Lost a concurrent insert race; fall through to the reset path.
		} else {
			return row.toEntity(), nil
		}
	case err != nil:
		return entities.ReclaimVerification{}, r.logError("verification_lookup_failed", err, "session_id", sessionID)
	}

	result := r.db.WithContext(ctx).
		Model(&reclaimVerificationModel{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"status":     string(entities.VerificationStatusPending),
			"cause":      "",
			"message":    "",
			"updated_at": now,
		})
	if result.Error != nil {
		return entities.ReclaimVerification{}, r.logError("verification_reset_failed", result.Error, "session_id", sessionID)
	}

	verification := row.toEntity()
	verification.Status = entities.VerificationStatusPending
	verification.Cause = ""
	verification.Message = ""
	verification.UpdatedAt = now
	return verification, nil
}

func (r *Repository) GetVerification(ctx context.Context, sessionID string) (entities.ReclaimVerification, bool, error) {
	var row reclaimVerificationModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ReclaimVerification{}, false, nil
		}
		return entities.ReclaimVerification{}, false, r.logError("verification_lookup_failed", err, "session_id", sessionID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpdateVerification(ctx context.Context, verification entities.ReclaimVerification) error {
	result := r.db.WithContext(ctx).
		Model(&reclaimVerificationModel{}).
		Where("session_id = ?", strings.TrimSpace(verification.SessionID)).
		Updates(map[string]any{
			"status":     string(verification.Status),
			"cause":      verification.Cause,
			"message":    verification.Message,
			"handle":     verification.Handle,
			"updated_at": verification.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("verification_update_failed", result.Error, "session_id", verification.SessionID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVerificationNotFound
	}
	return nil
}

func (r *Repository) FindHandle(ctx context.Context, dispenserID, handle string) (entities.Handle, bool, error) {
	var row handleModel
	err := r.db.WithContext(ctx).
		Where("dispenser_id = ? AND LOWER(handle) = ?", strings.TrimSpace(dispenserID), strings.ToLower(strings.TrimSpace(handle))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Handle{}, false, nil
		}
		return entities.Handle{}, false, r.logError("handle_lookup_failed", err, "dispenser_id", dispenserID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateHandle(ctx context.Context, handle entities.Handle) error {
	row := handleModelFromEntity(handle)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// A concurrent webhook round already registered the handle.
			return nil
		}
		return r.logError("handle_insert_failed", err, "dispenser_id", handle.DispenserID)
	}
	return nil
}

func (r *Repository) UpdateHandle(ctx context.Context, handle entities.Handle) error {
	result := r.db.WithContext(ctx).
		Model(&handleModel{}).
		Where("handle_id = ?", strings.TrimSpace(handle.ID)).
		Updates(map[string]any{
			"already_claimed": handle.AlreadyClaimed,
			"link_id":         handle.LinkID,
			"session_id":      handle.SessionID,
			"updated_at":      handle.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("handle_update_failed", result.Error, "handle_id", handle.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVerificationNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "claim-delivery/dispenser-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("dispenser repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type dispenserModel struct {
	DispenserID        string     `gorm:"column:dispenser_id;primaryKey"`
	CreatorAddress     string     `gorm:"column:creator_address"`
	MultiscanQRID      string     `gorm:"column:multiscan_qr_id"`
	Title              string     `gorm:"column:title"`
	EncryptedQRSecret  string     `gorm:"column:encrypted_qr_secret"`
	EncryptedQREncCode string     `gorm:"column:encrypted_qr_enc_code"`
	PreviewSetting     string     `gorm:"column:preview_setting"`
	Popped             int        `gorm:"column:popped"`
	Active             bool       `gorm:"column:active"`
	Archived           bool       `gorm:"column:archived"`
	Dynamic            bool       `gorm:"column:dynamic"`
	Reclaim            bool       `gorm:"column:reclaim"`
	ClaimStart         *time.Time `gorm:"column:claim_start"`
	ClaimFinish        *time.Time `gorm:"column:claim_finish"`
	ClaimDurationMin   int        `gorm:"column:claim_duration_min"`
	TimeframeOn        bool       `gorm:"column:timeframe_on"`
	WhitelistOn        bool       `gorm:"column:whitelist_on"`
	WhitelistKind      string     `gorm:"column:whitelist_kind"`
	AppTitle           string     `gorm:"column:app_title"`
	AppTitleOn         bool       `gorm:"column:app_title_on"`
	RedirectURL        string     `gorm:"column:redirect_url"`
	RedirectOn         bool       `gorm:"column:redirect_on"`
	ReclaimAppID       string     `gorm:"column:reclaim_app_id"`
	ReclaimAppSecret   string     `gorm:"column:reclaim_app_secret"`
	ReclaimProviderID  string     `gorm:"column:reclaim_provider_id"`
	ReclaimProvider    string     `gorm:"column:reclaim_provider"`
	ReclaimFollowID    string     `gorm:"column:reclaim_follow_id"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (dispenserModel) TableName() string {
	return "dispensers"
}

func dispenserModelFromEntity(dispenser entities.Dispenser) dispenserModel {
	return dispenserModel{
		DispenserID:        strings.TrimSpace(dispenser.ID),
		CreatorAddress:     strings.ToLower(strings.TrimSpace(dispenser.CreatorAddress)),
		MultiscanQRID:      strings.ToLower(strings.TrimSpace(dispenser.MultiscanQRID)),
		Title:              strings.TrimSpace(dispenser.Title),
		EncryptedQRSecret:  dispenser.EncryptedQRSecret,
		EncryptedQREncCode: dispenser.EncryptedQREncCode,
		PreviewSetting:     string(dispenser.PreviewSetting),
		Popped:             dispenser.Popped,
		Active:             dispenser.Active,
		Archived:           dispenser.Archived,
		Dynamic:            dispenser.Dynamic,
		Reclaim:            dispenser.Reclaim,
		ClaimStart:         timePtrUTC(dispenser.ClaimStart),
		ClaimFinish:        timePtrUTC(dispenser.ClaimFinish),
		ClaimDurationMin:   dispenser.ClaimDurationMin,
		TimeframeOn:        dispenser.TimeframeOn,
		WhitelistOn:        dispenser.WhitelistOn,
		WhitelistKind:      string(dispenser.WhitelistKind),
		AppTitle:           dispenser.AppTitle,
		AppTitleOn:         dispenser.AppTitleOn,
		RedirectURL:        dispenser.RedirectURL,
		RedirectOn:         dispenser.RedirectOn,
		ReclaimAppID:       dispenser.ReclaimAppID,
		ReclaimAppSecret:   dispenser.ReclaimAppSecret,
		ReclaimProviderID:  dispenser.ReclaimProviderID,
		ReclaimProvider:    string(dispenser.ReclaimProvider),
		ReclaimFollowID:    dispenser.ReclaimFollowID,
		CreatedAt:          dispenser.CreatedAt.UTC(),
		UpdatedAt:          dispenser.UpdatedAt.UTC(),
	}
}

func (m dispenserModel) toEntity() entities.Dispenser {
	return entities.Dispenser{
		ID:                 m.DispenserID,
		CreatorAddress:     m.CreatorAddress,
		MultiscanQRID:      m.MultiscanQRID,
		Title:              m.Title,
		EncryptedQRSecret:  m.EncryptedQRSecret,
		EncryptedQREncCode: m.EncryptedQREncCode,
		PreviewSetting:     entities.PreviewSetting(m.PreviewSetting),
		Popped:             m.Popped,
		Active:             m.Active,
		Archived:           m.Archived,
		Dynamic:            m.Dynamic,
		Reclaim:            m.Reclaim,
		ClaimStart:         m.ClaimStart,
		ClaimFinish:        m.ClaimFinish,
		ClaimDurationMin:   m.ClaimDurationMin,
		TimeframeOn:        m.TimeframeOn,
		WhitelistOn:        m.WhitelistOn,
		WhitelistKind:      entities.WhitelistKind(m.WhitelistKind),
		AppTitle:           m.AppTitle,
		AppTitleOn:         m.AppTitleOn,
		RedirectURL:        m.RedirectURL,
		RedirectOn:         m.RedirectOn,
		ReclaimAppID:       m.ReclaimAppID,
		ReclaimAppSecret:   m.ReclaimAppSecret,
		ReclaimProviderID:  m.ReclaimProviderID,
		ReclaimProvider:    entities.ReclaimProvider(m.ReclaimProvider),
		ReclaimFollowID:    m.ReclaimFollowID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type dispenserLinkModel struct {
	LinkID             string    `gorm:"column:link_id;primaryKey"`
	DispenserID        string    `gorm:"column:dispenser_id;index"`
	LinkNumber         int       `gorm:"column:link_number"`
	EncryptedClaimLink string    `gorm:"column:encrypted_claim_link"`
	ScanID             string    `gorm:"column:scan_id"`
	Receiver           string    `gorm:"column:receiver"`
	ReclaimSessionID   string    `gorm:"column:reclaim_session_id"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (dispenserLinkModel) TableName() string {
	return "dispenser_links"
}

func linkModelFromEntity(link entities.DispenserLink) dispenserLinkModel {
	return dispenserLinkModel{
		LinkID:             strings.TrimSpace(link.ID),
		DispenserID:        strings.TrimSpace(link.DispenserID),
		LinkNumber:         link.LinkNumber,
		EncryptedClaimLink: link.EncryptedClaimLink,
		ScanID:             link.ScanID,
		Receiver:           link.Receiver,
		ReclaimSessionID:   link.ReclaimSessionID,
		CreatedAt:          link.CreatedAt.UTC(),
		UpdatedAt:          link.UpdatedAt.UTC(),
	}
}

func (m dispenserLinkModel) toEntity() entities.DispenserLink {
	return entities.DispenserLink{
		ID:                 m.LinkID,
		DispenserID:        m.DispenserID,
		LinkNumber:         m.LinkNumber,
		EncryptedClaimLink: m.EncryptedClaimLink,
		ScanID:             m.ScanID,
		Receiver:           m.Receiver,
		ReclaimSessionID:   m.ReclaimSessionID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type whitelistItemModel struct {
	ItemID      string    `gorm:"column:item_id;primaryKey"`
	DispenserID string    `gorm:"column:dispenser_id;index"`
	Kind        string    `gorm:"column:kind"`
	Value       string    `gorm:"column:value"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (whitelistItemModel) TableName() string {
	return "dispenser_whitelist_items"
}

func whitelistItemModelFromEntity(item entities.WhitelistItem) whitelistItemModel {
	return whitelistItemModel{
		ItemID:      strings.TrimSpace(item.ID),
		DispenserID: strings.TrimSpace(item.DispenserID),
		Kind:        string(item.Kind),
		Value:       strings.ToLower(strings.TrimSpace(item.Value)),
		CreatedAt:   item.CreatedAt.UTC(),
	}
}

type reclaimVerificationModel struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Status    string    `gorm:"column:status"`
	Cause     string    `gorm:"column:cause"`
	Message   string    `gorm:"column:message"`
	Handle    string    `gorm:"column:handle"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reclaimVerificationModel) TableName() string {
	return "reclaim_verifications"
}

func (m reclaimVerificationModel) toEntity() entities.ReclaimVerification {
	return entities.ReclaimVerification{
		SessionID: m.SessionID,
		Status:    entities.VerificationStatus(m.Status),
		Cause:     m.Cause,
		Message:   m.Message,
		Handle:    m.Handle,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type handleModel struct {
	HandleID       string    `gorm:"column:handle_id;primaryKey"`
	DispenserID    string    `gorm:"column:dispenser_id;index"`
	Handle         string    `gorm:"column:handle"`
	Provider       string    `gorm:"column:provider"`
	AlreadyClaimed bool      `gorm:"column:already_claimed"`
	LinkID         string    `gorm:"column:link_id"`
	SessionID      string    `gorm:"column:session_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (handleModel) TableName() string {
	return "reclaim_handles"
}

func handleModelFromEntity(handle entities.Handle) handleModel {
	return handleModel{
		HandleID:       strings.TrimSpace(handle.ID),
		DispenserID:    strings.TrimSpace(handle.DispenserID),
		Handle:         strings.ToLower(strings.TrimSpace(handle.Handle)),
		Provider:       string(handle.Provider),
		AlreadyClaimed: handle.AlreadyClaimed,
		LinkID:         handle.LinkID,
		SessionID:      handle.SessionID,
		CreatedAt:      handle.CreatedAt.UTC(),
		UpdatedAt:      handle.UpdatedAt.UTC(),
	}
}

func (m handleModel) toEntity() entities.Handle {
	return entities.Handle{
		ID:             m.HandleID,
		DispenserID:    m.DispenserID,
		Handle:         m.Handle,
		Provider:       entities.ReclaimProvider(m.Provider),
		AlreadyClaimed: m.AlreadyClaimed,
		LinkID:         m.LinkID,
		SessionID:      m.SessionID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func timePtrUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
