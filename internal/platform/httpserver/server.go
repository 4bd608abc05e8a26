package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dispenserservice "drophub/contexts/claim-delivery/dispenser-service"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"
	dispenserhttp "drophub/contexts/claim-delivery/dispenser-service/transport/http"
	"drophub/internal/platform/auth"
	_ "drophub/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	dispenser dispenserservice.Module
	auth      *auth.Verifier
}

func New(
	dispenser dispenserservice.Module,
	verifier *auth.Verifier,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		dispenser: dispenser,
		auth:      verifier,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v2/dashboard/dispensers", s.withCreator(s.handleCreateDispenser))
	s.mux.HandleFunc("GET /api/v2/dashboard/dispensers", s.withCreator(s.handleListDispensers))
	s.mux.HandleFunc("GET /api/v2/dashboard/dispensers/{dispenser_id}", s.withCreator(s.handleGetDispenser))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}", s.withCreator(s.handleUpdateDispenser))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}/status", s.withCreator(s.handleSetStatus))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}/redirect-url", s.withCreator(s.handleSetRedirectURL))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}/redirect-on", s.withCreator(s.handleSetRedirectOn))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}/whitelist-on", s.withCreator(s.handleSetWhitelistOn))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}/timeframe-on", s.withCreator(s.handleSetTimeframeOn))
	s.mux.HandleFunc("PATCH /api/v2/dashboard/dispensers/{dispenser_id}/reclaim-data", s.withCreator(s.handleSetReclaimFollow))
	s.mux.HandleFunc("PUT /api/v2/dashboard/dispensers/{dispenser_id}/whitelist", s.withCreator(s.handleReplaceWhitelist))
	s.mux.HandleFunc("POST /api/v2/dashboard/dispensers/{dispenser_id}/links", s.withCreator(s.handleUploadLinks))
	s.mux.HandleFunc("PUT /api/v2/dashboard/dispensers/{dispenser_id}/links", s.withCreator(s.handleReplaceLinks))
	s.mux.HandleFunc("GET /api/v2/dashboard/dispensers/{dispenser_id}/report", s.withCreator(s.handleLinksReport))

	s.mux.HandleFunc("GET /api/v2/claimer/dispensers/{multiscan_qr_id}/settings", s.handleClaimerSettings)
	s.mux.HandleFunc("POST /api/v2/claimer/dispensers/{multiscan_qr_id}/pop", s.handlePop)
	s.mux.HandleFunc("POST /api/v2/claimer/dispensers/{multiscan_qr_id}/reclaim-proofs/{session_id}", s.handleReclaimProofs)
	s.mux.HandleFunc("POST /api/v2/claimer/dispensers/{multiscan_qr_id}/reclaim-link", s.handleRedeemReclaim)
}

type creatorHandler func(w http.ResponseWriter, r *http.Request, creatorAddress string)

func (s *Server) withCreator(next creatorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorAddress, err := s.auth.CreatorAddress(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "AUTHORIZATION_REQUIRED", err.Error())
			return
		}
		next(w, r, creatorAddress)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST_BODY", "request body must be valid JSON")
		return false
	}
	return true
}

func writeDomainError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, code, err.Error())
	case errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, code, err.Error())
	case errors.Is(err, domainerrors.ErrBadRequest), errors.Is(err, domainerrors.ErrValidation):
		writeError(w, http.StatusBadRequest, code, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, dispenserhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
