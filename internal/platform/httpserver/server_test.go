package httpserver

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dispenserservice "drophub/contexts/claim-delivery/dispenser-service"
	"drophub/contexts/claim-delivery/dispenser-service/application/policy"
	dispenserhttp "drophub/contexts/claim-delivery/dispenser-service/transport/http"
	"drophub/internal/platform/auth"

	"github.com/ethereum/go-ethereum/crypto"
)

const testScanSigPrefix = "signing claim link for"

func newTestServer(t *testing.T) (http.Handler, *auth.Verifier) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	module := dispenserservice.NewInMemoryModule(logger)
	verifier := auth.NewVerifier("test-jwt-secret")
	server := New(module, verifier, logger, ":0")
	return server.Handler(), verifier
}

func bearerToken(t *testing.T, verifier *auth.Verifier, creatorAddress string) string {
	t.Helper()
	token, err := verifier.IssueToken(creatorAddress, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

func scanSignature(t *testing.T, key *ecdsa.PrivateKey, scanID string) string {
	t.Helper()
	digest := policy.PersonalDigest([]byte(testScanSigPrefix + " " + scanID))
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		t.Fatalf("sign scan id: %v", err)
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig)
}

func TestDashboardRequiresBearerToken(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v2/dashboard/dispensers", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody[dispenserhttp.ErrorResponse](t, rec)
	if body.Code != "AUTHORIZATION_REQUIRED" {
		t.Fatalf("expected AUTHORIZATION_REQUIRED, got %s", body.Code)
	}
}

func TestDispenserLifecycleOverHTTP(t *testing.T) {
	handler, verifier := newTestServer(t)
	token := bearerToken(t, verifier, "0xCreator")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	qrAddress := crypto.PubkeyToAddress(key.PublicKey).Hex()

	rec := doJSON(t, handler, http.MethodPost, "/api/v2/dashboard/dispensers", token, dispenserhttp.CreateDispenserRequest{
		Title:         "HTTP drop",
		MultiscanQRID: qrAddress,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[dispenserhttp.CreateDispenserResponse](t, rec)
	if created.Dispenser.ID == "" {
		t.Fatal("create returned no dispenser id")
	}
	if created.Dispenser.MultiscanQRID != strings.ToLower(qrAddress) {
		t.Fatalf("multiscan qr id not normalized: %s", created.Dispenser.MultiscanQRID)
	}
	dispenserID := created.Dispenser.ID

	rec = doJSON(t, handler, http.MethodPost, "/api/v2/dashboard/dispensers/"+dispenserID+"/links", token, dispenserhttp.UploadLinksRequest{
		EncryptedClaimLinks: []dispenserhttp.LinkUploadDTO{
			{LinkID: "l1", EncryptedClaimLink: "enc-l1"},
			{LinkID: "l2", EncryptedClaimLink: "enc-l2"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload links: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v2/dashboard/dispensers", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	list := decodeBody[dispenserhttp.ListDispensersResponse](t, rec)
	if len(list.Dispensers) != 1 || list.Dispensers[0].LinksCount != 2 {
		t.Fatalf("unexpected dashboard list: %+v", list.Dispensers)
	}

	// Deactivated dispensers refuse pops.
	rec = doJSON(t, handler, http.MethodPatch, "/api/v2/dashboard/dispensers/"+dispenserID+"/status", token, dispenserhttp.ToggleRequest{Enabled: false})
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d", rec.Code)
	}
	popReq := dispenserhttp.PopRequest{
		ScanID:    "scan-1",
		ScanIDSig: scanSignature(t, key, "scan-1"),
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/v2/claimer/dispensers/"+qrAddress+"/pop", "", popReq)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("pop while inactive: expected 403, got %d (%s)", rec.Code, rec.Body.String())
	}
	if body := decodeBody[dispenserhttp.ErrorResponse](t, rec); body.Code != "DISPENSER_IS_INACTIVE" {
		t.Fatalf("expected DISPENSER_IS_INACTIVE, got %s", body.Code)
	}

	rec = doJSON(t, handler, http.MethodPatch, "/api/v2/dashboard/dispensers/"+dispenserID+"/status", token, dispenserhttp.ToggleRequest{Enabled: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("reactivate: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v2/claimer/dispensers/"+qrAddress+"/pop", "", popReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("pop: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	popped := decodeBody[dispenserhttp.PopResponse](t, rec)
	if popped.EncryptedClaimLink != "enc-l1" {
		t.Fatalf("expected first slot, got %s", popped.EncryptedClaimLink)
	}

	// The same scan replays the same link.
	rec = doJSON(t, handler, http.MethodPost, "/api/v2/claimer/dispensers/"+qrAddress+"/pop", "", popReq)
	replayed := decodeBody[dispenserhttp.PopResponse](t, rec)
	if replayed.EncryptedClaimLink != popped.EncryptedClaimLink {
		t.Fatalf("expected replay, got %s", replayed.EncryptedClaimLink)
	}
}

func TestPopUnknownDispenser(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v2/claimer/dispensers/0xunknown/pop", "", dispenserhttp.PopRequest{
		ScanID:    "scan-1",
		ScanIDSig: "0x00",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody[dispenserhttp.ErrorResponse](t, rec); body.Code != "DISPENSER_NOT_FOUND" {
		t.Fatalf("expected DISPENSER_NOT_FOUND, got %s", body.Code)
	}
}

func TestReclaimFlowOverHTTP(t *testing.T) {
	handler, verifier := newTestServer(t)
	token := bearerToken(t, verifier, "0xcreator")

	rec := doJSON(t, handler, http.MethodPost, "/api/v2/dashboard/dispensers", token, dispenserhttp.CreateDispenserRequest{
		Title:         "Follower drop",
		MultiscanQRID: "0xreclaimqr",
		Reclaim:       true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	dispenserID := decodeBody[dispenserhttp.CreateDispenserResponse](t, rec).Dispenser.ID

	rec = doJSON(t, handler, http.MethodPost, "/api/v2/dashboard/dispensers/"+dispenserID+"/links", token, dispenserhttp.UploadLinksRequest{
		EncryptedClaimLinks: []dispenserhttp.LinkUploadDTO{{LinkID: "l1", EncryptedClaimLink: "enc-l1"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload links: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v2/claimer/dispensers/0xreclaimqr/settings?session_id=sess-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	settings := decodeBody[dispenserhttp.ClaimerSettingsResponse](t, rec)
	if !settings.Reclaim {
		t.Fatal("settings missing reclaim flag")
	}
	if !strings.Contains(settings.VerificationURL, "sessionId=sess-1") {
		t.Fatalf("verification url missing session: %s", settings.VerificationURL)
	}

	proof := dispenserhttp.ReclaimProofRequest{
		Identifier: "0xproof",
		Signatures: []string{"0xsig"},
	}
	proof.ClaimData.Identifier = "0xproof"
	proof.ClaimData.Owner = "0xowner"
	proof.ClaimData.Context = `{"extractedParameters":{"trusted_username":"alice"}}`

	rec = doJSON(t, handler, http.MethodPost, "/api/v2/claimer/dispensers/0xreclaimqr/reclaim-proofs/sess-1", "", proof)
	if rec.Code != http.StatusOK {
		t.Fatalf("reclaim proof: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	resolved := decodeBody[dispenserhttp.ReclaimProofResponse](t, rec)
	if resolved.Status != "success" {
		t.Fatalf("expected verification success, got %s (%s)", resolved.Status, resolved.Cause)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v2/claimer/dispensers/0xreclaimqr/reclaim-link", "", dispenserhttp.RedeemReclaimRequest{
		SessionID: "sess-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("redeem: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	redeemed := decodeBody[dispenserhttp.RedeemReclaimResponse](t, rec)
	if redeemed.EncryptedClaimLink != "enc-l1" {
		t.Fatalf("expected enc-l1, got %s", redeemed.EncryptedClaimLink)
	}
}
