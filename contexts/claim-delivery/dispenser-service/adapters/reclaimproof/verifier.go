package reclaimproofadapter

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"drophub/contexts/claim-delivery/dispenser-service/application/policy"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"

	"github.com/ethereum/go-ethereum/crypto"
)

// Verifier checks the witness signatures on a reclaim attestation. Each
// signature is an EIP-191 personal signature over the serialized claim:
// identifier, owner, timestamp and epoch joined by newlines.
type Verifier struct {
	// witnesses is the lowercase set of accepted witness addresses. Empty
	// means any recoverable signer is accepted (structural verification
	// only), which matches single-witness deployments where the witness set
	// rotates server side.
	witnesses map[string]struct{}
}

func NewVerifier(witnessAddresses []string) *Verifier {
	witnesses := make(map[string]struct{}, len(witnessAddresses))
	for _, address := range witnessAddresses {
		address = strings.ToLower(strings.TrimSpace(address))
		if address != "" {
			witnesses[address] = struct{}{}
		}
	}
	return &Verifier{witnesses: witnesses}
}

func (v *Verifier) Verify(proof entities.ReclaimProof) error {
	if strings.TrimSpace(proof.Identifier) == "" {
		return errors.New("proof has no identifier")
	}
	if !strings.EqualFold(proof.Identifier, proof.ClaimData.Identifier) {
		return errors.New("proof identifier does not match claim data")
	}
	if strings.TrimSpace(proof.ClaimData.Owner) == "" {
		return errors.New("claim data has no owner")
	}
	if len(proof.Signatures) == 0 {
		return errors.New("proof has no signatures")
	}

	message := strings.Join([]string{
		strings.ToLower(proof.ClaimData.Identifier),
		strings.ToLower(proof.ClaimData.Owner),
		strconv.FormatInt(proof.ClaimData.Timestamp, 10),
		strconv.Itoa(proof.ClaimData.Epoch),
	}, "\n")
	digest := policy.PersonalDigest([]byte(message))

	for i, signatureHex := range proof.Signatures {
		signer, err := recoverSigner(digest, signatureHex)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		if len(v.witnesses) > 0 {
			if _, ok := v.witnesses[strings.ToLower(signer)]; !ok {
				return fmt.Errorf("signature %d: signer %s is not a known witness", i, signer)
			}
		}
	}
	return nil
}

func recoverSigner(digest []byte, signatureHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signatureHex), "0x"))
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}
	if sig[64] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] -= 27
	}
	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}
