package services

import (
	"context"
	"strings"
	"time"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StageTransitionService gates every card change on the role's stage access and
// hands stage or position changes to the ordering engine, all in one transaction.
type StageTransitionService struct {
	repo     ports.CardRepository
	engine   ports.CardOrderingEngine
	policy   ports.StageAccessPolicy
	metrics  ports.BoardMetrics
	attempts int
	logger   *logrus.Logger
}

// NewStageTransitionService builds the service. attempts below 1 means a single try.
func NewStageTransitionService(repo ports.CardRepository, engine ports.CardOrderingEngine, policy ports.StageAccessPolicy, metrics ports.BoardMetrics, attempts int, logger *logrus.Logger) ports.StageTransitionService {
	if attempts < 1 {
		attempts = 1
	}
	return &StageTransitionService{
		repo:     repo,
		engine:   engine,
		policy:   policy,
		metrics:  metrics,
		attempts: attempts,
		logger:   logger,
	}
}

// ApplyCardChange applies changes for role and returns the card as committed.
// A conflict is retried against fresh state up to the configured attempts.
func (s *StageTransitionService) ApplyCardChange(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, error) {
	var (
		result  *card.Card
		mutated bool
		err     error
	)
	for attempt := 1; attempt <= s.attempts; attempt++ {
		result, mutated, err = s.applyOnce(ctx, role, cardID, changes)
		if err == nil || !ports.IsConflict(err) || attempt == s.attempts {
			break
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"card_id": cardID, "attempt": attempt}).WithError(err).Warn("card change conflicted; retrying")
		}
		if ctx.Err() != nil {
			break
		}
	}

	outcome := outcomeOf(err)
	if err == nil && !mutated {
		outcome = OutcomeNoop
	}
	recordMutation(s.metrics, OperationApplyChange, outcome)

	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"card_id": cardID, "role": role, "outcome": outcome}).WithError(err).Info("card change rejected")
		}
		return nil, err
	}
	if s.logger != nil && mutated {
		s.logger.WithFields(logrus.Fields{"card_id": cardID, "role": role, "stage_id": result.StageID, "position": result.Position}).Info("card change applied")
	}
	return result, nil
}

func (s *StageTransitionService) applyOnce(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, bool, error) {
	var (
		result  *card.Card
		mutated bool
	)
	err := s.repo.WithTransaction(ctx, func(tx ports.CardTx) error {
		current, err := tx.GetCard(ctx, cardID)
		if err != nil {
			return err
		}
		source, err := tx.GetStage(ctx, current.StageID)
		if err != nil {
			return err
		}

		stageChange := changes.ChangesStage(current.StageID)
		var dest *card.Stage
		if stageChange {
			dest, err = tx.GetStage(ctx, *changes.StageID)
			if err != nil {
				return err
			}
			if dest.TeamID != current.TeamID {
				return ports.NewBoardError(ports.BoardCodeInvalidTarget, "destination stage belongs to another team")
			}
		}
		if changes.Position != nil && *changes.Position < 1 {
			return invalidPosition(*changes.Position)
		}
		if err := validateFields(changes.Fields); err != nil {
			return err
		}
		if err := s.authorize(role, source, dest, changes); err != nil {
			return err
		}

		lockIDs := []uuid.UUID{current.StageID}
		if dest != nil {
			lockIDs = append(lockIDs, dest.ID)
		}
		if err := tx.LockStages(ctx, current.TeamID, lockIDs...); err != nil {
			return err
		}
		// Re-read under the lock; positions may have shifted while we waited.
		fresh, err := tx.GetCard(ctx, cardID)
		if err != nil {
			return err
		}
		if fresh.StageID != current.StageID {
			return ports.NewBoardError(ports.BoardCodeConflict, "card changed stage concurrently")
		}

		fromStage, fromPos := fresh.StageID, fresh.Position
		switch {
		case stageChange:
			pos, err := s.engine.Move(ctx, tx, fresh, dest.ID, changes.Position)
			if err != nil {
				return err
			}
			fresh.StageID, fresh.Position = dest.ID, pos
		case changes.Position != nil:
			pos, err := s.engine.Reorder(ctx, tx, fresh, *changes.Position)
			if err != nil {
				return err
			}
			fresh.Position = pos
		}
		if fresh.StageID != fromStage || fresh.Position != fromPos {
			mutated = true
			payload := event.MovedPayload{FromStageID: fromStage, ToStageID: fresh.StageID, FromPosition: fromPos, ToPosition: fresh.Position}
			if err := appendEvent(ctx, tx, fresh.TeamID, fresh.ID, event.TypeCardMoved, role, payload); err != nil {
				return err
			}
		}

		if !changes.Fields.IsEmpty() {
			before := *fresh
			changes.Fields.ApplyTo(fresh)
			if fieldsDiffer(&before, fresh) {
				mutated = true
				fresh.UpdatedAt = time.Now().UTC()
				if err := tx.UpdateCardFields(ctx, fresh); err != nil {
					return err
				}
				if err := appendEvent(ctx, tx, fresh.TeamID, fresh.ID, event.TypeCardUpdated, role, changes.Fields); err != nil {
					return err
				}
				if err := appendMentions(ctx, tx, fresh.TeamID, fresh.ID, role, before.Description, fresh.Description); err != nil {
					return err
				}
			}
		}

		result = fresh
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, mutated, nil
}

// authorize applies the stage rules. Admin skips them.
func (s *StageTransitionService) authorize(role permission.Role, source, dest *card.Stage, changes card.CardChanges) error {
	if role == permission.RoleAdmin {
		return nil
	}
	if dest != nil {
		if !s.policy.CanEditCard(role, source.Name) {
			return forbidden("role %s cannot move cards out of %s", role, source.Name)
		}
		if !s.policy.CanEditCard(role, dest.Name) {
			return forbidden("role %s cannot move cards into %s", role, dest.Name)
		}
	} else if !s.policy.CanEditCard(role, source.Name) {
		return forbidden("role %s cannot edit cards in %s", role, source.Name)
	}

	if changes.Fields.AssigneeID != nil {
		target := source
		if dest != nil {
			target = dest
		}
		if !s.policy.CanAssignCard(role, target.Name) {
			return forbidden("role %s cannot assign cards in %s", role, target.Name)
		}
	}
	return nil
}

func validateFields(f card.CardFields) error {
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return ports.NewBoardError(ports.BoardCodeInvalidInput, "title cannot be empty")
	}
	if f.Priority != nil && !f.Priority.IsValid() {
		return ports.NewBoardError(ports.BoardCodeInvalidInput, "unknown priority "+string(*f.Priority))
	}
	return nil
}

func fieldsDiffer(a, b *card.Card) bool {
	if a.Title != b.Title || a.Description != b.Description || a.Priority != b.Priority {
		return true
	}
	if (a.AssigneeID == nil) != (b.AssigneeID == nil) || (a.AssigneeID != nil && *a.AssigneeID != *b.AssigneeID) {
		return true
	}
	if (a.DueDate == nil) != (b.DueDate == nil) || (a.DueDate != nil && !a.DueDate.Equal(*b.DueDate)) {
		return true
	}
	return false
}
