package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CardService struct {
	repo      ports.CardRepository
	stages    ports.StageRepository
	engine    ports.CardOrderingEngine
	policy    ports.StageAccessPolicy
	evaluator ports.PermissionEvaluator
	metrics   ports.BoardMetrics
	logger    *logrus.Logger
}

// NewCardService wires the card lifecycle. stages may be a caching decorator over repo.
func NewCardService(repo ports.CardRepository, stages ports.StageRepository, engine ports.CardOrderingEngine, policy ports.StageAccessPolicy, evaluator ports.PermissionEvaluator, metrics ports.BoardMetrics, logger *logrus.Logger) ports.CardService {
	if stages == nil {
		stages = repo
	}
	return &CardService{
		repo:      repo,
		stages:    stages,
		engine:    engine,
		policy:    policy,
		evaluator: evaluator,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateCard appends a new card to the end of the requested stage
func (s *CardService) CreateCard(ctx context.Context, role permission.Role, req *card.CreateCardRequest) (*card.Card, error) {
	created, err := s.createCard(ctx, role, req)
	recordMutation(s.metrics, OperationCreate, outcomeOf(err))
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"team_id": req.TeamID, "stage_id": req.StageID, "role": role}).WithError(err).Info("card creation rejected")
		}
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"card_id": created.ID, "team_id": created.TeamID, "position": created.Position}).Info("card created")
	}
	return created, nil
}

func (s *CardService) createCard(ctx context.Context, role permission.Role, req *card.CreateCardRequest) (*card.Card, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ports.NewBoardError(ports.BoardCodeInvalidInput, "title is required")
	}
	if req.Priority == "" {
		req.Priority = card.PriorityMedium
	}
	if !req.Priority.IsValid() {
		return nil, ports.NewBoardError(ports.BoardCodeInvalidInput, "unknown priority "+string(req.Priority))
	}

	var created *card.Card
	err := s.repo.WithTransaction(ctx, func(tx ports.CardTx) error {
		stage, err := tx.GetStage(ctx, req.StageID)
		if err != nil {
			return err
		}
		if stage.TeamID != req.TeamID {
			return ports.NewBoardError(ports.BoardCodeInvalidTarget, "stage belongs to another team")
		}
		if role != permission.RoleAdmin {
			if !s.policy.CanEditCard(role, stage.Name) {
				return forbidden("role %s cannot create cards in %s", role, stage.Name)
			}
			if req.AssigneeID != nil && !s.policy.CanAssignCard(role, stage.Name) {
				return forbidden("role %s cannot assign cards in %s", role, stage.Name)
			}
		}
		if err := tx.LockStages(ctx, stage.TeamID, stage.ID); err != nil {
			return err
		}
		pos, err := s.engine.Insert(ctx, tx, stage.TeamID, stage.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		c := &card.Card{
			ID:          uuid.New(),
			TeamID:      stage.TeamID,
			StageID:     stage.ID,
			Position:    pos,
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			AssigneeID:  req.AssigneeID,
			DueDate:     req.DueDate,
			CreatedBy:   req.CreatedBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.InsertCard(ctx, c); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, c.TeamID, c.ID, event.TypeCardCreated, role, c); err != nil {
			return err
		}
		if err := appendMentions(ctx, tx, c.TeamID, c.ID, role, "", c.Description); err != nil {
			return err
		}
		created = c
		return nil
	})
	return created, err
}

// DeleteCard removes the card and compacts its stage
func (s *CardService) DeleteCard(ctx context.Context, role permission.Role, cardID uuid.UUID) error {
	err := s.repo.WithTransaction(ctx, func(tx ports.CardTx) error {
		current, err := tx.GetCard(ctx, cardID)
		if err != nil {
			return err
		}
		stage, err := tx.GetStage(ctx, current.StageID)
		if err != nil {
			return err
		}
		if !s.policy.CanDeleteCard(role, stage.Name) {
			return forbidden("role %s cannot delete cards in %s", role, stage.Name)
		}
		if err := tx.LockStages(ctx, current.TeamID, current.StageID); err != nil {
			return err
		}
		fresh, err := tx.GetCard(ctx, cardID)
		if err != nil {
			return err
		}
		if fresh.StageID != current.StageID {
			return ports.NewBoardError(ports.BoardCodeConflict, "card changed stage concurrently")
		}
		if err := s.engine.Delete(ctx, tx, fresh); err != nil {
			return err
		}
		return appendEvent(ctx, tx, fresh.TeamID, fresh.ID, event.TypeCardDeleted, role, map[string]any{
			"stage_id": fresh.StageID,
			"position": fresh.Position,
		})
	})
	recordMutation(s.metrics, OperationDelete, outcomeOf(err))
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"card_id": cardID, "role": role}).WithError(err).Info("card deletion rejected")
		}
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"card_id": cardID, "role": role}).Info("card deleted")
	}
	return nil
}

// GetCard returns the card when it belongs to teamID and its stage is visible to role
func (s *CardService) GetCard(ctx context.Context, role permission.Role, teamID, cardID uuid.UUID) (*card.Card, error) {
	c, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if role != permission.RoleAdmin && c.TeamID != teamID {
		return nil, ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", cardID))
	}
	if s.policy.CanViewAllCards(role) {
		return c, nil
	}
	stage, err := s.stages.GetStage(ctx, c.StageID)
	if err != nil {
		return nil, err
	}
	if !s.evaluator.HasAccess(role, stage.Name, permission.ActionRead) {
		return nil, forbidden("role %s cannot view cards in %s", role, stage.Name)
	}
	return c, nil
}

// ListCards returns the team board trimmed to what role may see
func (s *CardService) ListCards(ctx context.Context, role permission.Role, teamID uuid.UUID) (*card.Board, error) {
	stages, err := s.stages.ListStages(ctx, teamID)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"team_id": teamID}).WithError(err).Error("failed to list stages")
		}
		return nil, err
	}
	cards, err := s.repo.ListCards(ctx, teamID)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"team_id": teamID}).WithError(err).Error("failed to list cards")
		}
		return nil, err
	}

	visibleStages := stages
	if !s.policy.CanViewAllCards(role) {
		visibleStages = make([]*card.Stage, 0, len(stages))
		for _, st := range stages {
			if s.evaluator.HasAccess(role, st.Name, permission.ActionRead) {
				visibleStages = append(visibleStages, st)
			}
		}
	}
	return &card.Board{
		TeamID: teamID,
		Stages: visibleStages,
		Cards:  s.policy.FilterVisibleCards(cards, role),
	}, nil
}
