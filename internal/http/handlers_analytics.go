package http

import (
	"net/http"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	sum, err := s.analytics.Summary(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "summary failed", log.FieldError, err, log.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "could not load summary")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total_spent":   money(sum.TotalSpentCents),
		"expense_count": sum.ExpenseCount,
		"average":       money(sum.AverageCents),
		"total_saved":   money(sum.TotalSavedCents),
	})
}

func (s *Server) handleCategoryWise(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	totals, err := s.analytics.CategoryBreakdown(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "category breakdown failed", log.FieldError, err, log.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "could not load breakdown")
		return
	}

	type row struct {
		Category string   `json:"category"`
		Total    moneyOut `json:"total"`
	}
	out := make([]row, 0, len(totals))
	for _, t := range totals {
		out = append(out, row{Category: t.Category, Total: money(t.TotalCents)})
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleMonthWise(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	totals, err := s.analytics.MonthBreakdown(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "month breakdown failed", log.FieldError, err, log.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "could not load breakdown")
		return
	}

	type row struct {
		Month string   `json:"month"`
		Total moneyOut `json:"total"`
	}
	out := make([]row, 0, len(totals))
	for _, t := range totals {
		out = append(out, row{Month: t.Period, Total: money(t.TotalCents)})
	}
	respondJSON(w, http.StatusOK, map[string]any{"months": out})
}
