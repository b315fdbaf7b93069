package api

import (
	"net/http"

	"github.com/tandaclub/tanda/internal/middleware"
	"github.com/tandaclub/tanda/internal/service"
)

type adminHandler struct {
	svc *service.AdminService
}

func (h *adminHandler) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetConfig(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"admin":              cfg.Admin,
		"commission_account": cfg.CommissionAccount,
		"commission_bps":     cfg.CommissionBps,
	})
}

type setCommissionRequest struct {
	Account string `json:"account"`
	Bps     int    `json:"bps"`
}

func (h *adminHandler) setCommission(w http.ResponseWriter, r *http.Request) {
	var req setCommissionRequest
	if err := decode(r, &req); err != nil || req.Account == "" {
		badRequest(w, "account and bps required")
		return
	}

	if err := h.svc.SetCommission(r.Context(), middleware.GetUserID(r.Context()), req.Account, req.Bps); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type setAdminRequest struct {
	Admin string `json:"admin"`
}

func (h *adminHandler) setAdmin(w http.ResponseWriter, r *http.Request) {
	var req setAdminRequest
	if err := decode(r, &req); err != nil || req.Admin == "" {
		badRequest(w, "admin required")
		return
	}

	if err := h.svc.SetAdmin(r.Context(), middleware.GetUserID(r.Context()), req.Admin); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type mintRequest struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

func (h *adminHandler) mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := decode(r, &req); err != nil || req.Account == "" {
		badRequest(w, "account and amount required")
		return
	}

	if err := h.svc.Mint(r.Context(), middleware.GetUserID(r.Context()), req.Account, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "minted"})
}
