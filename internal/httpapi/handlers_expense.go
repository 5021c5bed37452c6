package httpapi

import (
	"net/http"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/log"
)

type expensePayload struct {
	Amount       int64     `json:"amount" validate:"required,gt=0"`
	Category     string    `json:"category" validate:"required"`
	LocationName string    `json:"locationName"`
	Latitude     *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64  `json:"longitude" validate:"omitempty,longitude"`
	Note         string    `json:"note" validate:"max=500"`
	Date         time.Time `json:"date" validate:"required"`
}

type locationJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type expenseJSON struct {
	ID           string        `json:"id"`
	Amount       core.Money    `json:"amount"`
	Category     string        `json:"category"`
	LocationName string        `json:"locationName,omitempty"`
	Location     *locationJSON `json:"location,omitempty"`
	Note         string        `json:"note,omitempty"`
	Date         time.Time     `json:"date"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	out := expenseJSON{
		ID:           e.ID,
		Amount:       e.Amount,
		Category:     string(e.Category),
		LocationName: e.LocationName,
		Note:         e.Note,
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Location != nil {
		out.Location = &locationJSON{
			Latitude:  e.Location.Latitude,
			Longitude: e.Location.Longitude,
		}
	}
	return out
}

func toExpenseList(records []core.Expense) []expenseJSON {
	out := make([]expenseJSON, len(records))
	for i, e := range records {
		out[i] = toExpenseJSON(e)
	}
	return out
}

// toExpense builds the domain record, rejecting a half-specified
// coordinate.
func (p expensePayload) toExpense(ownerID string) (core.Expense, bool) {
	e := core.Expense{
		OwnerID:      ownerID,
		Amount:       core.Money{Units: p.Amount},
		Category:     core.Category(p.Category),
		LocationName: p.LocationName,
		Note:         p.Note,
		Date:         p.Date,
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return core.Expense{}, false
	}
	if p.Latitude != nil {
		e.Location = &core.Location{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	return e, true
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	var payload expensePayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}
	e, ok := payload.toExpense(ownerID)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "latitude and longitude must be provided together")
		return
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.expenses.CreateExpense(r.Context(), e)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense create failed",
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to save expense")
		return
	}

	s.bumpOwnerVersion(ownerID)
	s.homeCache.Delete(ownerID)
	s.structured.LogExpenseCreated(r.Context(), id, ownerID, e.Amount.Units, string(e.Category))

	e.ID = id
	writeJSON(w, http.StatusCreated, toExpenseJSON(e))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	records, err := s.expenses.ListExpenses(r.Context(), ownerID, filterFrom(r))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense list failed",
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to load expenses")
		return
	}

	writeJSON(w, http.StatusOK, toExpenseList(records))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	e, ok := s.loadOwnedExpense(w, r, ownerID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	existing, ok := s.loadOwnedExpense(w, r, ownerID)
	if !ok {
		return
	}

	var payload expensePayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}
	e, ok := payload.toExpense(ownerID)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "latitude and longitude must be provided together")
		return
	}
	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.expenses.UpdateExpense(r.Context(), e); err != nil {
		s.logger.ErrorContext(r.Context(), "Expense update failed",
			log.FieldExpenseID, e.ID,
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, storeStatus(err), "Failed to update expense")
		return
	}

	s.bumpOwnerVersion(ownerID)
	s.homeCache.Delete(ownerID)

	writeJSON(w, http.StatusOK, toExpenseJSON(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	existing, ok := s.loadOwnedExpense(w, r, ownerID)
	if !ok {
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), existing.ID); err != nil {
		s.logger.ErrorContext(r.Context(), "Expense delete failed",
			log.FieldExpenseID, existing.ID,
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, storeStatus(err), "Failed to delete expense")
		return
	}

	s.bumpOwnerVersion(ownerID)
	s.homeCache.Delete(ownerID)

	writeJSON(w, http.StatusOK, map[string]string{"id": existing.ID})
}

// loadOwnedExpense resolves the path id and enforces ownership. Records of
// other owners answer as not found.
func (s *Server) loadOwnedExpense(w http.ResponseWriter, r *http.Request, ownerID string) (core.Expense, bool) {
	id := r.PathValue("id")
	e, err := s.expenses.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, storeStatus(err), "Expense not found")
		return core.Expense{}, false
	}
	if e.OwnerID != ownerID {
		writeError(w, http.StatusNotFound, "Expense not found")
		return core.Expense{}, false
	}
	return e, true
}
