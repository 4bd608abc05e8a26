package entities

import "time"

type WhitelistKind string

const (
	WhitelistKindAddress WhitelistKind = "address"
	WhitelistKindEmail   WhitelistKind = "email"
	WhitelistKindTwitter WhitelistKind = "twitter"
)

type ReclaimProvider string

const (
	ReclaimProviderInstagram ReclaimProvider = "instagram"
	ReclaimProviderX         ReclaimProvider = "x"
	ReclaimProviderEmail     ReclaimProvider = "email"
)

type PreviewSetting string

const (
	PreviewSettingStub   PreviewSetting = "stub"
	PreviewSettingToken  PreviewSetting = "token"
	PreviewSettingCustom PreviewSetting = "custom"
)

// Dispenser is one campaign-facing pool of pre-encrypted claim links plus its
// allocation rules. Popped mutates only through the allocation path.
type Dispenser struct {
	ID                 string
	CreatorAddress     string
	MultiscanQRID      string
	Title              string
	EncryptedQRSecret  string
	EncryptedQREncCode string
	PreviewSetting     PreviewSetting
	Popped             int
	Active             bool
	Archived           bool
	Dynamic            bool
	Reclaim            bool
	ClaimStart         *time.Time
	ClaimFinish        *time.Time
	ClaimDurationMin   int
	TimeframeOn        bool
	WhitelistOn        bool
	WhitelistKind      WhitelistKind
	AppTitle           string
	AppTitleOn         bool
	RedirectURL        string
	RedirectOn         bool
	ReclaimAppID       string
	ReclaimAppSecret   string
	ReclaimProviderID  string
	ReclaimProvider    ReclaimProvider
	ReclaimFollowID    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
