package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/asr"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/services"
)

const maxAudioUpload = 15 << 20 // 15 MiB

type createExpenseRequest struct {
	Text          string `json:"text"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
}

type expenseResponse struct {
	ID            int64    `json:"id"`
	Amount        moneyOut `json:"amount"`
	Category      string   `json:"category"`
	PaymentMethod string   `json:"payment_method"`
	Description   string   `json:"description"`
	AmountPending bool     `json:"amount_pending"`
	Timestamp     string   `json:"timestamp"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Amount:        money(e.Amount.Cents),
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		Description:   e.Description,
		AmountPending: e.AmountPending,
		Timestamp:     e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	expenses, err := s.expenses.List(r.Context(), userID, limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list expenses failed", log.FieldError, err, log.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "could not load expenses")
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	respondJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logExpense(w, r, userID, services.LogExpenseInput{
		Text:          sanitizeInput(req.Text),
		Amount:        sanitizeInput(req.Amount),
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
	}, "")
}

// handleUploadAudio accepts a multipart upload with an "audio" file,
// transcribes it and logs the transcript as an expense. A "transcript" form
// field skips server-side recognition entirely.
func (s *Server) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	transcript, err := s.transcriptFromRequest(r)
	if err != nil {
		s.respondTranscriptError(w, r, err)
		return
	}

	s.logExpense(w, r, userID, services.LogExpenseInput{Text: transcript}, transcript)
}

func (s *Server) logExpense(w http.ResponseWriter, r *http.Request, userID int64, in services.LogExpenseInput, transcript string) {
	expense, err := s.expenses.Log(r.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyDescription):
			respondError(w, http.StatusBadRequest, "text is required")
		case errors.Is(err, core.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid amount")
		default:
			s.logger.ErrorContext(r.Context(), "log expense failed", log.FieldError, err, log.FieldUserID, userID)
			respondError(w, http.StatusInternalServerError, "could not save expense")
		}
		return
	}

	s.analytics.InvalidateUser(userID)

	body := map[string]any{"expense": toExpenseResponse(expense)}
	if transcript != "" {
		body["transcript"] = transcript
	}
	respondJSON(w, http.StatusCreated, body)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	expenseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.expenses.Delete(r.Context(), userID, expenseID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			respondError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "delete expense failed", log.FieldError, err, log.FieldExpenseID, expenseID)
		respondError(w, http.StatusInternalServerError, "could not delete expense")
		return
	}

	s.analytics.InvalidateUser(userID)
	w.WriteHeader(http.StatusNoContent)
}

// transcriptFromRequest pulls a transcript out of a multipart request,
// either the "transcript" field as-is or by transcribing the "audio" file.
func (s *Server) transcriptFromRequest(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		return "", errors.New("expected a multipart upload")
	}

	if t := sanitizeInput(r.FormValue("transcript")); t != "" {
		return t, nil
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		return "", errors.New("missing audio file")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	transcript, err := s.transcriber.Transcribe(r.Context(), tmp.Name())
	if err != nil {
		return "", err
	}
	return sanitizeInput(transcript), nil
}

func (s *Server) respondTranscriptError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, asr.ErrClientTranscript):
		respondError(w, http.StatusBadRequest, "this deployment expects a transcript field with the upload")
	case errors.Is(err, asr.ErrTranscription):
		s.logger.ErrorContext(r.Context(), "transcription failed", log.FieldError, err)
		respondError(w, http.StatusBadGateway, "could not transcribe audio")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
