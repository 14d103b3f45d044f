package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loyaltylab/reward-ledger-go/internal/httputil"
	"github.com/loyaltylab/reward-ledger-go/internal/middleware"
	"github.com/loyaltylab/reward-ledger-go/internal/model"
	"github.com/loyaltylab/reward-ledger-go/internal/service"

	apperrors "github.com/loyaltylab/reward-ledger-go/internal/errors"
)

// RewardHandler is thin HTTP glue over the ledger: it decodes requests,
// delegates to LedgerService and maps results to JSON. All validation and
// admission control live in the service.
type RewardHandler struct {
	ledger *service.LedgerService
}

func NewRewardHandler(ledger *service.LedgerService) *RewardHandler {
	return &RewardHandler{ledger: ledger}
}

func (h *RewardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/earn", h.EarnPoints)
	r.Post("/redeem", h.RedeemPoints)
	r.Get("/balance", h.GetBalance)
	r.Get("/transactions", h.GetTransactions)
	return r
}

type earnRequest struct {
	Amount float64 `json:"amount"`
}

type earnResponse struct {
	PointsEarned int `json:"pointsEarned"`
	Balance      int `json:"balance"`
}

func (h *RewardHandler) EarnPoints(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req earnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	pointsEarned, balance, err := h.ledger.EarnPoints(r.Context(), userID, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, earnResponse{
		PointsEarned: pointsEarned,
		Balance:      balance,
	})
}

type redeemRequest struct {
	Points int `json:"points"`
}

type redeemResponse struct {
	PointsRedeemed int `json:"pointsRedeemed"`
	Balance        int `json:"balance"`
}

func (h *RewardHandler) RedeemPoints(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	balance, err := h.ledger.RedeemPoints(r.Context(), userID, req.Points)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, redeemResponse{
		PointsRedeemed: req.Points,
		Balance:        balance,
	})
}

type balanceResponse struct {
	UserID  string `json:"userId"`
	Balance int    `json:"balance"`
}

func (h *RewardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	balance, err := h.ledger.GetBalance(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: balance})
}

type transactionsResponse struct {
	UserID       string                    `json:"userId"`
	Transactions []model.TransactionRecord `json:"transactions"`
}

func (h *RewardHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	transactions, err := h.ledger.GetTransactionHistory(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, transactionsResponse{
		UserID:       userID,
		Transactions: transactions,
	})
}
