package httpserver

import (
	"net/http"

	dispenserhttp "drophub/contexts/claim-delivery/dispenser-service/transport/http"
)

func (s *Server) handleCreateDispenser(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.CreateDispenserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.CreateDispenserHandler(r.Context(), creatorAddress, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListDispensers(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	resp, err := s.dispenser.Handler.ListDispensersHandler(r.Context(), creatorAddress)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDispenser(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	resp, err := s.dispenser.Handler.GetDispenserHandler(
		r.Context(),
		creatorAddress,
		r.PathValue("dispenser_id"),
		r.URL.Query().Get("proxy_address"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDispenser(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.UpdateDispenserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.UpdateDispenserHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.SetStatusHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRedirectURL(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.RedirectURLRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.SetRedirectURLHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRedirectOn(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.SetRedirectOnHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetWhitelistOn(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.SetWhitelistOnHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetTimeframeOn(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.SetTimeframeOnHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetReclaimFollow(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.ReclaimFollowRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.SetReclaimFollowHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReplaceWhitelist(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.WhitelistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.ReplaceWhitelistHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploadLinks(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.UploadLinksRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.UploadLinksHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReplaceLinks(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	var req dispenserhttp.UploadLinksRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.ReplaceLinksHandler(r.Context(), creatorAddress, r.PathValue("dispenser_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLinksReport(w http.ResponseWriter, r *http.Request, creatorAddress string) {
	resp, err := s.dispenser.Handler.LinksReportHandler(
		r.Context(),
		creatorAddress,
		r.PathValue("dispenser_id"),
		r.URL.Query().Get("proxy_address"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaimerSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.dispenser.Handler.ClaimerSettingsHandler(
		r.Context(),
		r.PathValue("multiscan_qr_id"),
		r.URL.Query().Get("session_id"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePop(w http.ResponseWriter, r *http.Request) {
	var req dispenserhttp.PopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.PopHandler(r.Context(), r.PathValue("multiscan_qr_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReclaimProofs(w http.ResponseWriter, r *http.Request) {
	var req dispenserhttp.ReclaimProofRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.ReclaimProofHandler(
		r.Context(),
		r.PathValue("multiscan_qr_id"),
		r.PathValue("session_id"),
		req,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRedeemReclaim(w http.ResponseWriter, r *http.Request) {
	var req dispenserhttp.RedeemReclaimRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.dispenser.Handler.RedeemReclaimHandler(r.Context(), r.PathValue("multiscan_qr_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
