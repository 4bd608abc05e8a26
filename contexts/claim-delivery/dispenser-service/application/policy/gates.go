package policy

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// CheckTimeframe rejects allocation outside the dispenser's claim window.
// Either bound may be unset: no start means the window is open immediately,
// no finish means it never expires.
func CheckTimeframe(now time.Time, claimStart, claimFinish *time.Time) error {
	if claimStart != nil && now.Before(*claimStart) {
		return domainerrors.ErrDispenserNotStart
	}
	if claimFinish != nil && now.After(*claimFinish) {
		return domainerrors.ErrDispenserExpired
	}
	return nil
}

// VerifyScanSignature recovers the signer of the personal message
// "<prefix> <scanId>" and requires it to be the dispenser's multiscan QR
// address. Proves the caller scanned a QR holding the matching secret key.
func VerifyScanSignature(prefix, scanID, signatureHex, multiscanQRID string) error {
	recovered, err := recoverPersonalSigner(fmt.Sprintf("%s %s", prefix, scanID), signatureHex)
	if err != nil {
		return domainerrors.ErrScanNotVerified
	}
	if !strings.EqualFold(recovered, multiscanQRID) {
		return domainerrors.ErrScanNotVerified
	}
	return nil
}

// VerifyReceiverSignature binds a wallet address to a whitelist assertion: the
// receiver must have signed the scan id with their own key.
func VerifyReceiverSignature(scanID, signatureHex, receiver string) error {
	recovered, err := recoverPersonalSigner(scanID, signatureHex)
	if err != nil {
		return domainerrors.ErrReceiverNotVerified
	}
	if !strings.EqualFold(recovered, receiver) {
		return domainerrors.ErrReceiverNotVerified
	}
	return nil
}

// recoverPersonalSigner returns the hex address that produced an EIP-191
// personal_sign signature over msg.
func recoverPersonalSigner(msg, signatureHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signatureHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}
	// Wallets emit V as 27/28; crypto.SigToPub expects 0/1.
	if sig[64] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] -= 27
	}
	digest := PersonalDigest([]byte(msg))
	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// PersonalDigest hashes data the way eth_sign / personal_sign does.
func PersonalDigest(data []byte) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(data), data)
	return crypto.Keccak256([]byte(prefixed))
}
