package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/amqp"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/goalparse"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
)

type GoalService struct {
	store     GoalStore
	publisher EventPublisher
	logger    *log.Logger
}

func NewGoalService(store GoalStore, publisher EventPublisher, logger *log.Logger) *GoalService {
	return &GoalService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentGoal),
	}
}

// Upsert creates a goal, or updates the target of the goal that already owns
// the name's slug. "My Watch" and "my   watch!" address the same goal. The
// returned bool reports whether a new goal was created.
func (s *GoalService) Upsert(ctx context.Context, userID int64, name, target string) (core.Goal, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Goal{}, false, core.ErrEmptyGoalName
	}
	cents, err := core.ParseDecimalToCents(strings.ReplaceAll(target, ",", ""))
	if err != nil || cents <= 0 {
		return core.Goal{}, false, core.ErrInvalidTarget
	}

	slug := core.Slugify(name)
	if slug == "" {
		return core.Goal{}, false, core.ErrEmptyGoalName
	}

	existing, err := s.store.GetGoalBySlug(ctx, userID, slug)
	switch {
	case err == nil:
		updated, err := s.store.UpdateGoalTarget(ctx, existing.ID, cents)
		if err != nil {
			return core.Goal{}, false, err
		}
		s.logger.InfoContext(ctx, "goal target updated",
			log.FieldUserID, userID,
			log.FieldGoalID, updated.ID,
			log.FieldSlug, slug,
		)
		return updated, false, nil
	case errors.Is(err, core.ErrGoalNotFound):
		goal := core.Goal{
			UserID:      userID,
			Name:        name,
			Slug:        slug,
			TargetCents: cents,
		}
		created, err := s.store.CreateGoal(ctx, goal)
		if err != nil {
			return core.Goal{}, false, err
		}
		s.logger.InfoContext(ctx, "goal created",
			log.FieldUserID, userID,
			log.FieldGoalID, created.ID,
			log.FieldSlug, slug,
		)
		return created, true, nil
	default:
		return core.Goal{}, false, err
	}
}

func (s *GoalService) List(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID int64) error {
	return s.store.DeleteGoal(ctx, userID, goalID)
}

// VoiceUpdate parses a spoken savings update and applies it to the named
// goal. It never creates a goal: an unknown name comes back as
// core.ErrGoalNotFound so the client can surface it.
func (s *GoalService) VoiceUpdate(ctx context.Context, userID int64, transcript string) (core.GoalProgress, error) {
	upd, err := goalparse.Parse(transcript)
	if err != nil {
		return core.GoalProgress{}, err
	}

	goal, err := s.store.GetGoalBySlug(ctx, userID, upd.Slug)
	if err != nil {
		if errors.Is(err, core.ErrGoalNotFound) {
			return core.GoalProgress{}, fmt.Errorf("%w: %q", core.ErrGoalNotFound, upd.Name)
		}
		return core.GoalProgress{}, err
	}

	updated, err := s.store.AddToGoalSaved(ctx, goal.ID, upd.Amount.Cents)
	if err != nil {
		return core.GoalProgress{}, err
	}

	progress := core.GoalProgress{
		Goal:      updated,
		Added:     upd.Amount,
		Completed: updated.IsCompleted,
	}
	if updated.TargetCents > 0 && updated.SavedCents > updated.TargetCents {
		progress.Exceeded = true
		progress.OverBy = core.Money{Cents: updated.SavedCents - updated.TargetCents}
	}

	s.logger.InfoContext(ctx, "goal progress",
		log.FieldUserID, userID,
		log.FieldGoalID, updated.ID,
		log.FieldSlug, updated.Slug,
		log.FieldAmountCents, upd.Amount.Cents,
		"completed", progress.Completed,
	)

	s.publishProgress(ctx, userID, progress)
	return progress, nil
}

func (s *GoalService) publishProgress(ctx context.Context, userID int64, p core.GoalProgress) {
	if s.publisher == nil {
		return
	}
	msg := amqp.GoalProgressMessage{
		EventID:     amqp.NewEventID(),
		UserID:      userID,
		GoalID:      p.Goal.ID,
		Slug:        p.Goal.Slug,
		AddedCents:  p.Added.Cents,
		SavedCents:  p.Goal.SavedCents,
		TargetCents: p.Goal.TargetCents,
		Completed:   p.Completed,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishGoalProgress(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "publish goal event failed",
			log.FieldError, err,
			log.FieldGoalID, p.Goal.ID,
		)
	}
}
