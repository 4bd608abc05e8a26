// Package reclaimproof maps provider-specific proof context fields onto the
// social handle the rest of the module keys on.
package reclaimproof

import (
	"encoding/json"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
)

// handleFields is the closed provider table. Adding a provider means adding a
// row here; call sites never change.
var handleFields = map[entities.ReclaimProvider]string{
	entities.ReclaimProviderInstagram: "trusted_username",
	entities.ReclaimProviderX:         "screen_name",
	entities.ReclaimProviderEmail:     "email",
}

type proofContext struct {
	ExtractedParameters map[string]string `json:"extractedParameters"`
}

// ExtractHandle pulls the provider's handle field out of the proof's nested
// context document. An unrecognized provider is a dispenser configuration
// error and is rejected outright; a recognized provider whose context lacks
// the field yields an empty handle for the caller to record as a verification
// failure.
func ExtractHandle(provider entities.ReclaimProvider, rawContext string) (string, error) {
	field, ok := handleFields[provider]
	if !ok {
		return "", domainerrors.ErrProviderTypeInvalid
	}
	if rawContext == "" {
		return "", nil
	}
	var parsed proofContext
	if err := json.Unmarshal([]byte(rawContext), &parsed); err != nil {
		return "", nil
	}
	return parsed.ExtractedParameters[field], nil
}

// ExtractFollow reads the follow attestation a provider embeds next to the
// handle: whether the claimant follows an account, and which account that is.
// The following flag arrives as the string "true" on the wire.
func ExtractFollow(rawContext string) (following bool, accountID string) {
	if rawContext == "" {
		return false, ""
	}
	var parsed proofContext
	if err := json.Unmarshal([]byte(rawContext), &parsed); err != nil {
		return false, ""
	}
	return parsed.ExtractedParameters["following"] == "true", parsed.ExtractedParameters["id"]
}
