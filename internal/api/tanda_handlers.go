package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tandaclub/tanda/internal/middleware"
	"github.com/tandaclub/tanda/internal/service"
	"github.com/tandaclub/tanda/internal/storage"
)

type tandaHandler struct {
	svc   *service.TandaService
	store storage.Store
}

type createTandaRequest struct {
	Name       string `json:"name"`
	Amount     int64  `json:"amount"`
	MaxMembers int    `json:"max_members"`
}

func (h *tandaHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTandaRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	tanda, err := h.svc.CreateTanda(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Amount, req.MaxMembers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTandaJSON(tanda))
}

func (h *tandaHandler) list(w http.ResponseWriter, r *http.Request) {
	tandas, err := h.svc.ListTandas(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]tandaJSON, len(tandas))
	for i, t := range tandas {
		out[i] = toTandaJSON(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"tandas": out})
}

func (h *tandaHandler) get(w http.ResponseWriter, r *http.Request) {
	tanda, err := h.svc.GetTanda(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTandaJSON(tanda))
}

func (h *tandaHandler) members(w http.ResponseWriter, r *http.Request) {
	roster, err := h.svc.GetRoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": toMemberJSON(roster)})
}

func (h *tandaHandler) join(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.JoinTanda(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (h *tandaHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StartTanda(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (h *tandaHandler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelTanda(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *tandaHandler) deposit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Deposit(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deposited"})
}

// payout is permissionless: anyone may trigger it once all deposits are
// in.
func (h *tandaHandler) payout(w http.ResponseWriter, r *http.Request) {
	recipient, amount, err := h.svc.TriggerPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipient": recipient, "amount": amount})
}

type expelRequest struct {
	Address string `json:"address"`
}

// expel is permissionless: anyone may expel a delinquent after the
// deadline.
func (h *tandaHandler) expel(w http.ResponseWriter, r *http.Request) {
	var req expelRequest
	if err := decode(r, &req); err != nil || req.Address == "" {
		badRequest(w, "address required")
		return
	}

	if err := h.svc.ExpelDelinquent(r.Context(), chi.URLParam(r, "id"), req.Address); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "expelled"})
}

// advance is the permissionless heartbeat.
func (h *tandaHandler) advance(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"changed":   res.Changed(),
		"expelled":  res.Expelled,
		"paid_out":  res.PaidOut,
		"recipient": res.Recipient,
		"amount":    res.Payout,
		"completed": res.Completed,
	})
}

func (h *tandaHandler) beneficiary(w http.ResponseWriter, r *http.Request) {
	address, err := h.svc.GetBeneficiary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"beneficiary": address})
}

func (h *tandaHandler) deadline(w http.ResponseWriter, r *http.Request) {
	seconds, err := h.svc.TimeToDeadline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"seconds_to_deadline": seconds})
}

func (h *tandaHandler) allDeposited(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.AllDeposited(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"all_deposited": ok})
}

func (h *tandaHandler) canExpel(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.CanExpel(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_expel": ok})
}

func (h *tandaHandler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	preview, err := h.svc.AdvanceStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"can_advance": preview.CanAdvance,
		"expel_count": preview.ExpelCount,
		"will_payout": preview.WillPayout,
		"beneficiary": preview.Beneficiary,
	})
}

// pool exposes the tanda pool's ledger balance.
func (h *tandaHandler) pool(w http.ResponseWriter, r *http.Request) {
	tanda, err := h.svc.GetTanda(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.store.Balance(r.Context(), tanda.PoolAccount())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}
