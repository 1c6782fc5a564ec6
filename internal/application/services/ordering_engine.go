package services

import (
	"context"
	"fmt"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CardOrderingEngine keeps positions in each (team, stage) dense and 1-based.
// Callers hold the stage locks; the engine only reads and shifts.
type CardOrderingEngine struct {
	logger *logrus.Logger
}

func NewCardOrderingEngine(logger *logrus.Logger) ports.CardOrderingEngine {
	return &CardOrderingEngine{logger: logger}
}

// Insert returns max+1 for the stage, 1 when empty
func (e *CardOrderingEngine) Insert(ctx context.Context, tx ports.CardTx, teamID, stageID uuid.UUID) (int, error) {
	cards, err := tx.GetCardsInStage(ctx, teamID, stageID)
	if err != nil {
		return 0, err
	}
	maxPos := 0
	for _, p := range cards {
		if p.Position > maxPos {
			maxPos = p.Position
		}
	}
	return maxPos + 1, nil
}

// Reorder moves c within its stage. Targets past the end clamp to the last slot.
func (e *CardOrderingEngine) Reorder(ctx context.Context, tx ports.CardTx, c *card.Card, newPosition int) (int, error) {
	if newPosition < 1 {
		return 0, invalidPosition(newPosition)
	}
	cards, err := tx.GetCardsInStage(ctx, c.TeamID, c.StageID)
	if err != nil {
		return 0, err
	}
	n := len(cards)
	if n == 0 {
		return 0, fmt.Errorf("card %s is not listed in stage %s", c.ID, c.StageID)
	}
	if newPosition > n {
		newPosition = n
	}
	old := c.Position
	if newPosition == old {
		return old, nil
	}

	for _, p := range cards {
		if p.CardID == c.ID {
			continue
		}
		switch {
		case old < newPosition && p.Position > old && p.Position <= newPosition:
			err = tx.UpdateCardPosition(ctx, p.CardID, p.Position-1, nil)
		case old > newPosition && p.Position >= newPosition && p.Position < old:
			err = tx.UpdateCardPosition(ctx, p.CardID, p.Position+1, nil)
		default:
			continue
		}
		if err != nil {
			return 0, err
		}
	}
	if err := tx.UpdateCardPosition(ctx, c.ID, newPosition, nil); err != nil {
		return 0, err
	}
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"card_id": c.ID, "stage_id": c.StageID, "from": old, "to": newPosition}).Debug("card reordered")
	}
	return newPosition, nil
}

// Move takes c out of its stage and into toStageID. A nil position appends;
// targets past the end clamp to size+1.
func (e *CardOrderingEngine) Move(ctx context.Context, tx ports.CardTx, c *card.Card, toStageID uuid.UUID, newPosition *int) (int, error) {
	if newPosition != nil && *newPosition < 1 {
		return 0, invalidPosition(*newPosition)
	}
	if toStageID == c.StageID {
		if newPosition == nil {
			return c.Position, nil
		}
		return e.Reorder(ctx, tx, c, *newPosition)
	}

	source, err := tx.GetCardsInStage(ctx, c.TeamID, c.StageID)
	if err != nil {
		return 0, err
	}
	dest, err := tx.GetCardsInStage(ctx, c.TeamID, toStageID)
	if err != nil {
		return 0, err
	}
	target := len(dest) + 1
	if newPosition != nil && *newPosition < target {
		target = *newPosition
	}

	for _, p := range source {
		if p.CardID != c.ID && p.Position > c.Position {
			if err := tx.UpdateCardPosition(ctx, p.CardID, p.Position-1, nil); err != nil {
				return 0, err
			}
		}
	}
	for _, p := range dest {
		if p.Position >= target {
			if err := tx.UpdateCardPosition(ctx, p.CardID, p.Position+1, nil); err != nil {
				return 0, err
			}
		}
	}
	if err := tx.UpdateCardPosition(ctx, c.ID, target, &toStageID); err != nil {
		return 0, err
	}
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"card_id":    c.ID,
			"from_stage": c.StageID,
			"to_stage":   toStageID,
			"from":       c.Position,
			"to":         target,
		}).Debug("card moved across stages")
	}
	return target, nil
}

// Delete removes c and closes the gap it leaves
func (e *CardOrderingEngine) Delete(ctx context.Context, tx ports.CardTx, c *card.Card) error {
	cards, err := tx.GetCardsInStage(ctx, c.TeamID, c.StageID)
	if err != nil {
		return err
	}
	if err := tx.DeleteCard(ctx, c.ID); err != nil {
		return err
	}
	for _, p := range cards {
		if p.CardID != c.ID && p.Position > c.Position {
			if err := tx.UpdateCardPosition(ctx, p.CardID, p.Position-1, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func invalidPosition(pos int) error {
	return ports.NewBoardError(ports.BoardCodeInvalidTarget, fmt.Sprintf("position %d is out of range, positions start at 1", pos))
}
