package http

import (
	"errors"
	"net/http"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/services"
)

type qaRequest struct {
	QuestionID int `json:"question_id"`
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var req qaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := s.qa.Answer(r.Context(), userID, req.QuestionID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownQuestion) {
			respondError(w, http.StatusBadRequest, "unknown question id")
			return
		}
		s.logger.ErrorContext(r.Context(), "qa failed",
			log.FieldError, err,
			log.FieldUserID, userID,
			log.FieldQuestionID, req.QuestionID,
		)
		respondError(w, http.StatusInternalServerError, "could not answer question")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"question_id": req.QuestionID,
		"answer":      answer,
	})
}
