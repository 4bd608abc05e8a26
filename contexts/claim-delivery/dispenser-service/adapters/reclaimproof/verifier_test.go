package reclaimproofadapter

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"drophub/contexts/claim-delivery/dispenser-service/application/policy"
	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"

	"github.com/ethereum/go-ethereum/crypto"
)

func witnessProof(t *testing.T, key *ecdsa.PrivateKey) entities.ReclaimProof {
	t.Helper()
	proof := entities.ReclaimProof{Identifier: "0xProofID"}
	proof.ClaimData.Identifier = "0xproofid"
	proof.ClaimData.Owner = "0xOwner"
	proof.ClaimData.Timestamp = 1767225600
	proof.ClaimData.Epoch = 3

	message := strings.Join([]string{
		strings.ToLower(proof.ClaimData.Identifier),
		strings.ToLower(proof.ClaimData.Owner),
		strconv.FormatInt(proof.ClaimData.Timestamp, 10),
		strconv.Itoa(proof.ClaimData.Epoch),
	}, "\n")
	sig, err := crypto.Sign(policy.PersonalDigest([]byte(message)), key)
	if err != nil {
		t.Fatalf("sign proof: %v", err)
	}
	sig[64] += 27
	proof.Signatures = []string{"0x" + hex.EncodeToString(sig)}
	return proof
}

func TestVerifyAcceptsKnownWitness(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	witness := crypto.PubkeyToAddress(key.PublicKey).Hex()

	verifier := NewVerifier([]string{witness})
	if err := verifier.Verify(witnessProof(t, key)); err != nil {
		t.Fatalf("witness signature rejected: %v", err)
	}
}

func TestVerifyRejectsUnknownWitness(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	verifier := NewVerifier([]string{"0x0000000000000000000000000000000000000001"})
	if err := verifier.Verify(witnessProof(t, key)); err == nil {
		t.Fatal("expected unknown witness to be rejected")
	}
}

func TestVerifyEmptyWitnessSetAcceptsAnySigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	verifier := NewVerifier(nil)
	if err := verifier.Verify(witnessProof(t, key)); err != nil {
		t.Fatalf("structural verification rejected recoverable signature: %v", err)
	}
}

func TestVerifyStructuralRejections(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	verifier := NewVerifier(nil)

	noIdentifier := witnessProof(t, key)
	noIdentifier.Identifier = ""
	if err := verifier.Verify(noIdentifier); err == nil {
		t.Fatal("expected missing identifier to be rejected")
	}

	mismatch := witnessProof(t, key)
	mismatch.ClaimData.Identifier = "0xother"
	if err := verifier.Verify(mismatch); err == nil {
		t.Fatal("expected identifier mismatch to be rejected")
	}

	noOwner := witnessProof(t, key)
	noOwner.ClaimData.Owner = ""
	if err := verifier.Verify(noOwner); err == nil {
		t.Fatal("expected missing owner to be rejected")
	}

	noSignatures := witnessProof(t, key)
	noSignatures.Signatures = nil
	if err := verifier.Verify(noSignatures); err == nil {
		t.Fatal("expected missing signatures to be rejected")
	}

	garbage := witnessProof(t, key)
	garbage.Signatures = []string{"0xnothex"}
	if err := verifier.Verify(garbage); err == nil {
		t.Fatal("expected undecodable signature to be rejected")
	}
}
