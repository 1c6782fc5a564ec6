package ports

import (
	"context"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/google/uuid"
)

// StageRepository reads a team's stage rows. Stages are managed elsewhere.
type StageRepository interface {
	GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error)
	ListStages(ctx context.Context, teamID uuid.UUID) ([]*card.Stage, error)
}

// CardRepository is the storage boundary of the board. Every mutation runs inside
// WithTransaction; a returned error rolls the whole unit back.
type CardRepository interface {
	StageRepository
	WithTransaction(ctx context.Context, fn func(tx CardTx) error) error
	GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error)
	ListCards(ctx context.Context, teamID uuid.UUID) ([]*card.CardWithStage, error)
}

// CardTx is the view of storage inside one isolated unit of work
type CardTx interface {
	// LockStages serializes writers on the given (team, stage) partitions.
	LockStages(ctx context.Context, teamID uuid.UUID, stageIDs ...uuid.UUID) error
	GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error)
	GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error)
	// GetCardsInStage returns the stage's cards ordered by position.
	GetCardsInStage(ctx context.Context, teamID, stageID uuid.UUID) ([]card.CardPosition, error)
	// UpdateCardPosition moves a card; newStageID nil keeps the current stage.
	UpdateCardPosition(ctx context.Context, cardID uuid.UUID, newPosition int, newStageID *uuid.UUID) error
	InsertCard(ctx context.Context, c *card.Card) error
	UpdateCardFields(ctx context.Context, c *card.Card) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
	AppendEvent(ctx context.Context, e *event.CardEvent) error
}

// CardOrderingEngine keeps every (team, stage) numbered 1..N. All methods run on
// an open transaction owned by the caller.
type CardOrderingEngine interface {
	// Insert returns the appended position.
	Insert(ctx context.Context, tx CardTx, teamID, stageID uuid.UUID) (int, error)
	// Reorder returns the clamped final position. Within its own stage a card
	// can only reach 1..size, so targets past the end clamp to size.
	Reorder(ctx context.Context, tx CardTx, c *card.Card, newPosition int) (int, error)
	// Move returns the clamped final position in the destination stage; a nil or
	// past-the-end target appends at size+1.
	Move(ctx context.Context, tx CardTx, c *card.Card, toStageID uuid.UUID, newPosition *int) (int, error)
	Delete(ctx context.Context, tx CardTx, c *card.Card) error
}

// StageTransitionService is the single entry point for card changes
type StageTransitionService interface {
	ApplyCardChange(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, error)
}

// CardService covers card lifecycle outside of transitions
type CardService interface {
	CreateCard(ctx context.Context, role permission.Role, req *card.CreateCardRequest) (*card.Card, error)
	DeleteCard(ctx context.Context, role permission.Role, cardID uuid.UUID) error
	// GetCard reports another team's card as NotFound before any visibility check.
	// Admins read across teams.
	GetCard(ctx context.Context, role permission.Role, teamID, cardID uuid.UUID) (*card.Card, error)
	ListCards(ctx context.Context, role permission.Role, teamID uuid.UUID) (*card.Board, error)
}
