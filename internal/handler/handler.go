package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mstagni/pacplan/internal/models"
	"github.com/mstagni/pacplan/internal/repository"
	"github.com/mstagni/pacplan/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type planRequest struct {
	Name                  string                  `json:"name"`
	Config                models.InvestmentConfig `json:"config"`
	ReturnOverrides       models.DayOverrides     `json:"return_overrides"`
	ContributionOverrides models.DayOverrides     `json:"contribution_overrides"`
	Active                *bool                   `json:"active"`
}

type openTradeRequest struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Strike     float64 `json:"strike"`
	Premium    float64 `json:"premium"`
	Contracts  float64 `json:"contracts"`
	Collateral float64 `json:"collateral"`
}

type closeTradeRequest struct {
	ClosePrice float64 `json:"close_price"`
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateUser handles user registration
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.svc.RegisterUser(req.Username, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// CreatePlan handles investment plan creation
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.svc.CreatePlan(userID, req.Name, req.Config, req.ReturnOverrides, req.ContributionOverrides)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// ListPlans returns all plans owned by the user
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	plans, err := h.svc.ListPlans(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetPlan returns a single plan with its override maps
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	plan, err := h.svc.GetPlan(userID, mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// UpdatePlan replaces a plan's configuration and override maps
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	plan, err := h.svc.UpdatePlan(userID, mux.Vars(r)["planID"], req.Name, req.Config,
		req.ReturnOverrides, req.ContributionOverrides, active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DeletePlan removes a plan
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePlan(userID, mux.Vars(r)["planID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProjectPlan runs a fresh projection over a stored plan
func (h *Handler) ProjectPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ProjectPlan(userID, mux.Vars(r)["planID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Preview runs a projection over ad-hoc inputs without persisting them
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Preview(req.Config, req.ReturnOverrides, req.ContributionOverrides))
}

// OpenTrade records a new wheel strategy position
func (h *Handler) OpenTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	var req openTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.svc.OpenTrade(userID, &models.Trade{
		Symbol:     req.Symbol,
		Side:       req.Side,
		Strike:     req.Strike,
		Premium:    req.Premium,
		Contracts:  req.Contracts,
		Collateral: req.Collateral,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

// CloseTrade closes an open position at the given price
func (h *Handler) CloseTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	tradeID, err := strconv.ParseInt(mux.Vars(r)["tradeID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid trade ID", http.StatusBadRequest)
		return
	}
	var req closeTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.svc.CloseTrade(userID, tradeID, req.ClosePrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

// ListTrades returns all trades of the user
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	trades, err := h.svc.ListTrades(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

// TradeStats returns aggregate wheel strategy figures
func (h *Handler) TradeStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.TradeStats(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
