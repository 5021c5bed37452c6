package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/log"
	"github.com/HilmanThoriq/finterra-app/internal/services"
)

type categorySummaryJSON struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
	Count  int        `json:"count"`
}

type dayGroupJSON struct {
	Label string        `json:"label"`
	Date  time.Time     `json:"date"`
	Total core.Money    `json:"total"`
	Items []expenseJSON `json:"items"`
}

type summaryJSON struct {
	TotalSpent       core.Money          `json:"totalSpent"`
	TransactionCount int                 `json:"transactionCount"`
	TopCategory      categorySummaryJSON `json:"topCategory"`
	DailyAverage     core.Money          `json:"dailyAverage"`
	Budget           core.Money          `json:"budget"`
	BudgetRemaining  core.Money          `json:"budgetRemaining"`
	BudgetPercentage float64             `json:"budgetPercentage"`
	StartDate        time.Time           `json:"startDate"`
	EndDate          time.Time           `json:"endDate"`
	Groups           []dayGroupJSON      `json:"groups"`
}

func toSummaryJSON(sum core.Summary) summaryJSON {
	groups := make([]dayGroupJSON, len(sum.Groups))
	for i, g := range sum.Groups {
		groups[i] = dayGroupJSON{
			Label: g.Label,
			Date:  g.Date,
			Total: g.Total,
			Items: toExpenseList(g.Items),
		}
	}
	return summaryJSON{
		TotalSpent:       sum.TotalSpent,
		TransactionCount: sum.TransactionCount,
		TopCategory: categorySummaryJSON{
			Name:   string(sum.TopCategory.Name),
			Amount: sum.TopCategory.Amount,
			Count:  sum.TopCategory.Count,
		},
		DailyAverage:     sum.DailyAverage,
		Budget:           sum.Budget,
		BudgetRemaining:  sum.BudgetRemaining,
		BudgetPercentage: sum.BudgetPercentage,
		StartDate:        sum.StartDate,
		EndDate:          sum.EndDate,
		Groups:           groups,
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)
	f := filterFrom(r)

	key := s.cacheKey(ownerID, f)
	if sum, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toSummaryJSON(sum))
		return
	}

	sum, err := s.history.Summary(r.Context(), ownerID, f, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary failed",
			log.FieldOwnerID, ownerID,
			log.FieldFilterToken, f.Token,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	s.summaryCache.Set(key, sum)
	writeJSON(w, http.StatusOK, toSummaryJSON(sum))
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)
	f := filterFrom(r)

	points, err := s.history.Heatmap(r.Context(), ownerID, f)
	if errors.Is(err, services.ErrFilterNotRanged) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Heatmap failed",
			log.FieldOwnerID, ownerID,
			log.FieldFilterToken, f.Token,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to build heatmap")
		return
	}

	writeJSON(w, http.StatusOK, points)
}

type homeJSON struct {
	TotalSpent       core.Money    `json:"totalSpent"`
	TransactionCount int           `json:"transactionCount"`
	TopCategory      string        `json:"topCategory"`
	DailyAverage     core.Money    `json:"dailyAverage"`
	Budget           core.Money    `json:"budget"`
	BudgetRemaining  core.Money    `json:"budgetRemaining"`
	BudgetPercentage float64       `json:"budgetPercentage"`
	Recent           []expenseJSON `json:"recent"`
}

func toHomeJSON(d services.HomeData) homeJSON {
	return homeJSON{
		TotalSpent:       d.TotalSpent,
		TransactionCount: d.TransactionCount,
		TopCategory:      d.TopCategory,
		DailyAverage:     d.DailyAverage,
		Budget:           d.Budget,
		BudgetRemaining:  d.BudgetRemaining,
		BudgetPercentage: d.BudgetPercentage,
		Recent:           toExpenseList(d.Recent),
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	if data, ok := s.homeCache.Get(ownerID); ok {
		writeJSON(w, http.StatusOK, toHomeJSON(data))
		return
	}

	data, err := s.home.GetHomeData(r.Context(), ownerID, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Home data failed",
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to load home data")
		return
	}

	s.homeCache.Set(ownerID, data)
	writeJSON(w, http.StatusOK, toHomeJSON(data))
}
