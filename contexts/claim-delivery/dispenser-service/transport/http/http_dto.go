package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DispenserDTO struct {
	ID               string  `json:"id"`
	CreatorAddress   string  `json:"creator_address"`
	MultiscanQRID    string  `json:"multiscan_qr_id"`
	Title            string  `json:"title"`
	Dynamic          bool    `json:"dynamic"`
	Reclaim          bool    `json:"reclaim"`
	Active           bool    `json:"active"`
	Archived         bool    `json:"archived"`
	PreviewSetting   string  `json:"preview_setting"`
	ClaimStart       *string `json:"claim_start"`
	ClaimFinish      *string `json:"claim_finish"`
	ClaimDurationMin int     `json:"claim_duration"`
	TimeframeOn      bool    `json:"timeframe_on"`
	WhitelistOn      bool    `json:"whitelist_on"`
	WhitelistType    string  `json:"whitelist_type,omitempty"`
	WhitelistCount   int     `json:"whitelist_count"`
	AppTitle         string  `json:"app_title,omitempty"`
	AppTitleOn       bool    `json:"app_title_on"`
	RedirectURL      string  `json:"redirect_url,omitempty"`
	RedirectOn       bool    `json:"redirect_on"`
	ReclaimProvider  string  `json:"reclaim_provider_type,omitempty"`
	ReclaimFollowID  string  `json:"instagram_follow_id,omitempty"`
	LinksCount       int     `json:"links_count"`
	LinksAssigned    int     `json:"links_assigned"`
	LinksClaimed     int     `json:"links_claimed"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type CreateDispenserRequest struct {
	Title             string `json:"title"`
	Dynamic           bool   `json:"dynamic"`
	Reclaim           bool   `json:"reclaim"`
	MultiscanQRID     string `json:"multiscan_qr_id"`
	EncryptedQRSecret string `json:"encrypted_multiscan_qr_secret"`
	EncCode           string `json:"encrypted_multiscan_qr_enc_code"`
	ClaimStart        *int64 `json:"claim_start"`
	ClaimFinish       *int64 `json:"claim_finish"`
	ClaimDurationMin  int    `json:"claim_duration"`
	AppTitle          string `json:"app_title,omitempty"`
	AppTitleOn        bool   `json:"app_title_on,omitempty"`
	RedirectURL       string `json:"redirect_url,omitempty"`
	RedirectOn        bool   `json:"redirect_on,omitempty"`
	TimeframeOn       bool   `json:"timeframe_on,omitempty"`
}

type CreateDispenserResponse struct {
	Success   bool         `json:"success"`
	Dispenser DispenserDTO `json:"dispenser"`
}

type UpdateDispenserRequest struct {
	Title            *string `json:"title"`
	ClaimStart       *int64  `json:"claim_start"`
	ClaimFinish      *int64  `json:"claim_finish"`
	ClaimDurationMin *int    `json:"claim_duration"`
	AppTitle         *string `json:"app_title"`
	AppTitleOn       *bool   `json:"app_title_on"`
	Archived         *bool   `json:"archived"`
}

type DispenserResponse struct {
	Success   bool         `json:"success"`
	Dispenser DispenserDTO `json:"dispenser"`
}

type ListDispensersResponse struct {
	Success    bool           `json:"success"`
	Dispensers []DispenserDTO `json:"dispensers"`
}

type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

type RedirectURLRequest struct {
	RedirectURL string `json:"redirect_url"`
}

type ReclaimFollowRequest struct {
	FollowID string `json:"instagram_follow_id"`
}

type LinkUploadDTO struct {
	LinkID             string `json:"link_id"`
	EncryptedClaimLink string `json:"encrypted_claim_link"`
}

type UploadLinksRequest struct {
	EncryptedClaimLinks []LinkUploadDTO `json:"encrypted_claim_links"`
	PreviewSetting      string          `json:"preview_setting,omitempty"`
	TopUp               bool            `json:"top_up,omitempty"`
}

type UploadLinksResponse struct {
	Success    bool `json:"success"`
	LinksCount int  `json:"links_count"`
	LinksAdded int  `json:"links_added"`
}

type WhitelistRequest struct {
	WhitelistType string   `json:"whitelist_type"`
	Addresses     []string `json:"addresses"`
}

type WhitelistResponse struct {
	Success        bool `json:"success"`
	WhitelistCount int  `json:"whitelist_count"`
}

type ReportItemDTO struct {
	LinkID       string `json:"link_id"`
	Receiver     string `json:"receiver"`
	TokenAddress string `json:"token_address,omitempty"`
	TokenID      string `json:"token_id,omitempty"`
	TokenAmount  string `json:"token_amount,omitempty"`
	TxHash       string `json:"tx_hash,omitempty"`
}

type ReportResponse struct {
	Success bool            `json:"success"`
	Items   []ReportItemDTO `json:"items"`
}

type PopRequest struct {
	ScanID      string `json:"scan_id"`
	ScanIDSig   string `json:"scan_id_sig"`
	Receiver    string `json:"receiver,omitempty"`
	ReceiverSig string `json:"receiver_sig,omitempty"`
	SocketID    string `json:"socket_id,omitempty"`
}

type PopResponse struct {
	Success            bool   `json:"success"`
	EncryptedClaimLink string `json:"encrypted_claim_link"`
}

type ClaimerSettingsResponse struct {
	Success         bool   `json:"success"`
	AppTitle        string `json:"app_title,omitempty"`
	AppTitleOn      bool   `json:"app_title_on"`
	Reclaim         bool   `json:"reclaim"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	RedirectOn      bool   `json:"redirect_on"`
	WhitelistOn     bool   `json:"whitelist_on"`
	WhitelistType   string `json:"whitelist_type,omitempty"`
	PreviewSetting  string `json:"preview_setting"`
	VerificationURL string `json:"verification_url,omitempty"`
}

type ReclaimProofRequest struct {
	Identifier string `json:"identifier"`
	ClaimData  struct {
		Provider   string `json:"provider"`
		Parameters string `json:"parameters"`
		Owner      string `json:"owner"`
		Timestamp  int64  `json:"timestampS"`
		Context    string `json:"context"`
		Identifier string `json:"identifier"`
		Epoch      int    `json:"epoch"`
	} `json:"claimData"`
	Signatures []string `json:"signatures"`
}

type ReclaimProofResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Cause   string `json:"cause,omitempty"`
	Message string `json:"message,omitempty"`
}

type RedeemReclaimRequest struct {
	SessionID string `json:"session_id"`
}

type RedeemReclaimResponse struct {
	Success            bool   `json:"success"`
	EncryptedClaimLink string `json:"encrypted_claim_link"`
}
