package errors

import "errors"

// Error classes. Every coded error unwraps to exactly one of these so HTTP
// mapping can branch on class while callers branch on the specific value.
var (
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Coded carries a stable machine-readable cause code alongside the human
// message. Codes are part of the external contract and never change.
type Coded struct {
	Class   error
	Code    string
	Message string
}

func (e *Coded) Error() string { return e.Message }

func (e *Coded) Unwrap() error { return e.Class }

func BadRequest(code, message string) *Coded {
	return &Coded{Class: ErrBadRequest, Code: code, Message: message}
}

func Forbidden(code, message string) *Coded {
	return &Coded{Class: ErrForbidden, Code: code, Message: message}
}

func NotFound(code, message string) *Coded {
	return &Coded{Class: ErrNotFound, Code: code, Message: message}
}

func Validation(code, message string) *Coded {
	return &Coded{Class: ErrValidation, Code: code, Message: message}
}

// CodeOf extracts the cause code from a coded error, or "" for plain errors.
func CodeOf(err error) string {
	var coded *Coded
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// Stable errors shared across the module. Values double as sentinels: compare
// with errors.Is against the value for the exact condition, or against a class
// for the family.
var (
	ErrDispenserNotFound    = NotFound("DISPENSER_NOT_FOUND", "Dispenser not found.")
	ErrClaimLinkNotFound    = NotFound("CLAIM_LINK_NOT_FOUND", "Claim link not found.")
	ErrVerificationNotFound = NotFound("RECLAIM_VERIFICATION_NOT_FOUND", "Reclaim verification not found.")

	ErrCreatorNotVerified   = Forbidden("CREATOR_ADDRESS_NOT_VERIFIED", "User address does not match dispenser creator address.")
	ErrDispenserInactive    = Forbidden("DISPENSER_IS_INACTIVE", "Dispenser is not active.")
	ErrDispenserNotStart    = Forbidden("DISPENSER_NOT_STARTED", "Claim has not started yet.")
	ErrDispenserExpired     = Forbidden("DISPENSER_EXPIRED", "Claim is over.")
	ErrNoMoreClaims         = Forbidden("NO_MORE_CLAIMS_AVAILABLE", "No more claims available.")
	ErrNotWhitelisted       = Forbidden("USER_NOT_WHITE_LISTED", "User is not whitelisted.")
	ErrScanNotVerified      = Forbidden("SCAN_ID_NOT_VERIFIED", "Scan id signature is not verified.")
	ErrReceiverNotVerified  = Forbidden("RECEIVER_NOT_VERIFIED", "Receiver signature is not verified.")
	ErrLinksAlreadyUploaded = Forbidden("CLAIM_LINKS_ALREADY_UPLOADED", "Claim links have already been uploaded.")
	ErrPoolAlreadyPopped    = Forbidden("POOL_ALREADY_POPPED", "Pool cannot be replaced after links were assigned.")
	ErrReclaimOnPlain       = Forbidden("RECLAIM_ACTION_FOR_NON_RECLAIM_DISPENSER", "Reclaim action for non-reclaim dispenser.")
	ErrPlainOnReclaim       = Forbidden("NON_RECLAIM_ACTION_FOR_RECLAIM_DISPENSER", "Non-reclaim action for reclaim dispenser.")
	ErrReclaimNotRedeemed   = Forbidden("RECLAIM_DROP_WAS_NOT_REDEEMED_YET", "Reclaim drop was not redeemed yet.")

	ErrDuplicateLinks       = Validation("UPLOADING_DUPLICATE_LINKS_IS_FORBIDDEN", "Uploading duplicate links is forbidden.")
	ErrInvalidWhitelistKind = Validation("INVALID_WHITELIST_TYPE", "Invalid whitelist type.")

	ErrInvalidClaimStart   = BadRequest("INVALID_CLAIM_START", "Claim start must be earlier than claim finish.")
	ErrProviderTypeInvalid = BadRequest("PROVIDER_TYPE_IS_INCORRECT", "Provider type is incorrect.")
)

// Verification failure cause codes stored on the reclaim verification row.
const (
	CauseInvalidProofsData = "INVALID_PROOFS_DATA"
	CauseNoUserHandle      = "NO_USER_HANDLE_IN_PROOF"
	CauseNotWhitelisted    = "USER_NOT_WHITE_LISTED"
	CausePending           = "RECLAIM_VERIFICATION_PENDING"
	CauseShouldFollow      = "USER_SHOULD_FOLLOW"
	CauseWrongFollowTarget = "USER_SHOULD_FOLLOW_CORRECT_ACCOUNT"
)
