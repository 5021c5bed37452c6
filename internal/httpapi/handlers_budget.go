package httpapi

import (
	"net/http"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/log"
)

type budgetPayload struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type budgetJSON struct {
	Amount core.Money `json:"amount"`
	Month  string     `json:"month"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)
	now := time.Now()

	amount, err := s.budgets.GetMonthlyBudget(r.Context(), ownerID, now)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Budget read failed",
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to load budget")
		return
	}

	writeJSON(w, http.StatusOK, budgetJSON{Amount: amount, Month: core.MonthKey(now)})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	var payload budgetPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	now := time.Now()
	if err := s.budgets.SetMonthlyBudget(r.Context(), ownerID, core.Money{Units: payload.Amount}, now); err != nil {
		s.logger.ErrorContext(r.Context(), "Budget save failed",
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to save budget")
		return
	}

	s.bumpOwnerVersion(ownerID)
	s.homeCache.Delete(ownerID)

	writeJSON(w, http.StatusOK, budgetJSON{
		Amount: core.Money{Units: payload.Amount},
		Month:  core.MonthKey(now),
	})
}
