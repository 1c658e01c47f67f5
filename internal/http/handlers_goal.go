package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
)

type upsertGoalRequest struct {
	GoalName     string `json:"goal_name"`
	TargetAmount string `json:"target_amount"`
}

type voiceUpdateRequest struct {
	Transcript string `json:"transcript"`
}

type goalResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Target      moneyOut `json:"target"`
	Saved       moneyOut `json:"saved"`
	Currency    string   `json:"currency"`
	IsCompleted bool     `json:"is_completed"`
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Name:        g.Name,
		Slug:        g.Slug,
		Target:      money(g.TargetCents),
		Saved:       money(g.SavedCents),
		Currency:    g.Currency,
		IsCompleted: g.IsCompleted,
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	goals, err := s.goals.List(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list goals failed", log.FieldError, err, log.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "could not load goals")
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	respondJSON(w, http.StatusOK, map[string]any{"goals": out})
}

// handleUpsertGoal creates a goal or, when the name maps to an existing
// slug, updates that goal's target. 201 for a new goal, 200 for an update.
func (s *Server) handleUpsertGoal(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var req upsertGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, created, err := s.goals.Upsert(r.Context(), userID, sanitizeInput(req.GoalName), sanitizeInput(req.TargetAmount))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyGoalName):
			respondError(w, http.StatusBadRequest, "goal name is required")
		case errors.Is(err, core.ErrInvalidTarget):
			respondError(w, http.StatusBadRequest, "target amount must be a positive number")
		default:
			s.logger.ErrorContext(r.Context(), "upsert goal failed", log.FieldError, err, log.FieldUserID, userID)
			respondError(w, http.StatusInternalServerError, "could not save goal")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]any{"goal": toGoalResponse(goal), "created": created})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	goalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := s.goals.Delete(r.Context(), userID, goalID); err != nil {
		if errors.Is(err, core.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "delete goal failed", log.FieldError, err, log.FieldGoalID, goalID)
		respondError(w, http.StatusInternalServerError, "could not delete goal")
		return
	}

	s.analytics.InvalidateUser(userID)
	w.WriteHeader(http.StatusNoContent)
}

// handleVoiceUpdate applies a spoken savings update ("add 500 to my watch")
// to an existing goal. It accepts a JSON transcript or a multipart audio
// upload; it never creates a goal.
func (s *Server) handleVoiceUpdate(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var transcript string
	if isMultipart(r) {
		t, err := s.transcriptFromRequest(r)
		if err != nil {
			s.respondTranscriptError(w, r, err)
			return
		}
		transcript = t
	} else {
		var req voiceUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		transcript = sanitizeInput(req.Transcript)
	}

	progress, err := s.goals.VoiceUpdate(r.Context(), userID, transcript)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAmountNotFound):
			respondError(w, http.StatusBadRequest, "could not find an amount in the transcript")
		case errors.Is(err, core.ErrGoalNameNotFound):
			respondError(w, http.StatusBadRequest, "could not find a goal name in the transcript")
		case errors.Is(err, core.ErrGoalNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			s.logger.ErrorContext(r.Context(), "voice update failed",
				log.FieldError, err,
				log.FieldUserID, userID,
				log.FieldTranscript, transcript,
			)
			respondError(w, http.StatusInternalServerError, "could not update goal")
		}
		return
	}

	s.analytics.InvalidateUser(userID)

	respondJSON(w, http.StatusOK, map[string]any{
		"goal":       toGoalResponse(progress.Goal),
		"added":      money(progress.Added.Cents),
		"completed":  progress.Completed,
		"exceeded":   progress.Exceeded,
		"over_by":    money(progress.OverBy.Cents),
		"transcript": transcript,
		"message":    progressMessage(progress),
	})
}

func progressMessage(p core.GoalProgress) string {
	switch {
	case p.Exceeded:
		return fmt.Sprintf("Goal '%s' completed, exceeded by %s.", p.Goal.Name, core.FormatRupees(p.OverBy.Cents))
	case p.Completed:
		return fmt.Sprintf("Goal '%s' completed.", p.Goal.Name)
	default:
		return fmt.Sprintf("Added %s to '%s'. Saved %s of %s.",
			core.FormatRupees(p.Added.Cents), p.Goal.Name,
			core.FormatRupees(p.Goal.SavedCents), core.FormatRupees(p.Goal.TargetCents))
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
