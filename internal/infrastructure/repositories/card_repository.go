package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/avatarctic/content-board/internal/infrastructure/db"
)

const cardColumns = `id, team_id, stage_id, position, title, description, priority,
	assignee_id, due_date, created_by, created_at, updated_at`

const stageColumns = `id, team_id, name, position`

// queryer is the read surface shared by *sqlx.DB and *sqlx.Tx
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// CardRepository is the Postgres implementation of ports.CardRepository.
// Units of work run at READ COMMITTED behind per-stage advisory locks, so every
// statement after LockStages sees the previous holder's committed positions.
// Deadlocks and duplicate positions surface as conflicts.
type CardRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewCardRepository creates a new card repository
func NewCardRepository(database *db.Database, logger *logrus.Logger) ports.CardRepository {
	return &CardRepository{
		db:     database,
		logger: logger,
	}
}

// WithTransaction runs fn in one read-committed transaction and commits when it returns nil
func (r *CardRepository) WithTransaction(ctx context.Context, fn func(tx ports.CardTx) error) error {
	tx, err := r.db.DB.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to begin card transaction")
		}
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&cardTx{tx: tx, logger: r.logger}); err != nil {
		return translateError(err, "card transaction failed")
	}
	if err := tx.Commit(); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Warn("db: failed to commit card transaction")
		}
		return translateError(err, "failed to commit transaction")
	}
	return nil
}

func (r *CardRepository) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	return getCard(ctx, r.db.DB, r.logger, id)
}

func (r *CardRepository) GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error) {
	return getStage(ctx, r.db.DB, r.logger, id)
}

// ListStages returns a team's stages in board order
func (r *CardRepository) ListStages(ctx context.Context, teamID uuid.UUID) ([]*card.Stage, error) {
	var stages []*card.Stage
	query := `SELECT ` + stageColumns + ` FROM stages WHERE team_id = $1 ORDER BY position`
	if err := r.db.DB.SelectContext(ctx, &stages, query, teamID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"team_id": teamID}).WithError(err).Error("db: failed to list stages")
		}
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

// ListCards returns a team's cards ordered by stage position then card position
func (r *CardRepository) ListCards(ctx context.Context, teamID uuid.UUID) ([]*card.CardWithStage, error) {
	var cards []*card.CardWithStage
	query := `
		SELECT c.id, c.team_id, c.stage_id, c.position, c.title, c.description, c.priority,
			   c.assignee_id, c.due_date, c.created_by, c.created_at, c.updated_at,
			   s.name AS stage_name
		FROM cards c
		JOIN stages s ON s.id = c.stage_id
		WHERE c.team_id = $1
		ORDER BY s.position, c.position`
	if err := r.db.DB.SelectContext(ctx, &cards, query, teamID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"team_id": teamID}).WithError(err).Error("db: failed to list cards")
		}
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

type cardTx struct {
	tx     *sqlx.Tx
	logger *logrus.Logger
}

// LockStages takes transaction-scoped advisory locks in ascending key order
func (t *cardTx) LockStages(ctx context.Context, teamID uuid.UUID, stageIDs ...uuid.UUID) error {
	keys := make([]int64, 0, len(stageIDs))
	for _, id := range stageIDs {
		keys = append(keys, StageLockKey(teamID, id))
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	for _, k := range keys {
		if _, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, k); err != nil {
			if t.logger != nil {
				t.logger.WithFields(logrus.Fields{"team_id": teamID, "lock_key": k}).WithError(err).Error("db: failed to lock stage")
			}
			return translateError(err, "failed to lock stage")
		}
	}
	return nil
}

func (t *cardTx) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	return getCard(ctx, t.tx, t.logger, id)
}

func (t *cardTx) GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error) {
	return getStage(ctx, t.tx, t.logger, id)
}

func (t *cardTx) GetCardsInStage(ctx context.Context, teamID, stageID uuid.UUID) ([]card.CardPosition, error) {
	var out []card.CardPosition
	query := `SELECT id, position FROM cards WHERE team_id = $1 AND stage_id = $2 ORDER BY position FOR UPDATE`
	if err := t.tx.SelectContext(ctx, &out, query, teamID, stageID); err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"team_id": teamID, "stage_id": stageID}).WithError(err).Error("db: failed to read stage positions")
		}
		return nil, translateError(err, "failed to read stage positions")
	}
	return out, nil
}

func (t *cardTx) UpdateCardPosition(ctx context.Context, cardID uuid.UUID, newPosition int, newStageID *uuid.UUID) error {
	var (
		res sql.Result
		err error
	)
	if newStageID == nil {
		res, err = t.tx.ExecContext(ctx,
			`UPDATE cards SET position = $2, updated_at = now() WHERE id = $1`, cardID, newPosition)
	} else {
		res, err = t.tx.ExecContext(ctx,
			`UPDATE cards SET position = $2, stage_id = $3, updated_at = now() WHERE id = $1`, cardID, newPosition, *newStageID)
	}
	if err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"card_id": cardID, "position": newPosition}).WithError(err).Error("db: failed to update card position")
		}
		return translateError(err, "failed to update card position")
	}
	return requireRow(res, cardID)
}

func (t *cardTx) InsertCard(ctx context.Context, c *card.Card) error {
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES (:id, :team_id, :stage_id, :position, :title, :description, :priority,
				:assignee_id, :due_date, :created_by, :created_at, :updated_at)`
	if _, err := t.tx.NamedExecContext(ctx, query, c); err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"card_id": c.ID, "stage_id": c.StageID}).WithError(err).Error("db: failed to insert card")
		}
		return translateError(err, "failed to insert card")
	}
	if t.logger != nil {
		t.logger.WithFields(logrus.Fields{"card_id": c.ID, "stage_id": c.StageID, "position": c.Position}).Debug("db: card inserted")
	}
	return nil
}

func (t *cardTx) UpdateCardFields(ctx context.Context, c *card.Card) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE cards
		SET title = $2, description = $3, priority = $4, assignee_id = $5, due_date = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Priority, c.AssigneeID, c.DueDate, c.UpdatedAt)
	if err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"card_id": c.ID}).WithError(err).Error("db: failed to update card fields")
		}
		return translateError(err, "failed to update card")
	}
	return requireRow(res, c.ID)
}

func (t *cardTx) DeleteCard(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"card_id": id}).WithError(err).Error("db: failed to delete card")
		}
		return translateError(err, "failed to delete card")
	}
	return requireRow(res, id)
}

func (t *cardTx) AppendEvent(ctx context.Context, e *event.CardEvent) error {
	err := t.tx.QueryRowxContext(ctx, `
		INSERT INTO card_events (id, team_id, card_id, type, actor_role, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		RETURNING seq`,
		e.ID, e.TeamID, e.CardID, e.Type, e.ActorRole, string(e.Payload), e.CreatedAt).Scan(&e.Seq)
	if err != nil {
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{"card_id": e.CardID, "type": e.Type}).WithError(err).Error("db: failed to append card event")
		}
		return translateError(err, "failed to append card event")
	}
	return nil
}

// getCard takes no row lock; writers serialize on the stage advisory locks instead.
func getCard(ctx context.Context, q queryer, logger *logrus.Logger, id uuid.UUID) (*card.Card, error) {
	var c card.Card
	if err := q.GetContext(ctx, &c, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if logger != nil {
				logger.WithFields(logrus.Fields{"card_id": id}).Debug("db: card not found")
			}
			return nil, ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", id))
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{"card_id": id}).WithError(err).Error("db: failed to get card")
		}
		return nil, translateError(err, "failed to get card")
	}
	return &c, nil
}

func getStage(ctx context.Context, q queryer, logger *logrus.Logger, id uuid.UUID) (*card.Stage, error) {
	var s card.Stage
	if err := q.GetContext(ctx, &s, `SELECT `+stageColumns+` FROM stages WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("stage %s not found", id))
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{"stage_id": id}).WithError(err).Error("db: failed to get stage")
		}
		return nil, translateError(err, "failed to get stage")
	}
	return &s, nil
}

func requireRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", id))
	}
	return nil
}

// Postgres error codes that mean "retry against fresh state".
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqUniqueViolation      = "23505"
)

// translateError keeps board errors as they are, maps retryable Postgres failures
// to conflicts and wraps everything else.
func translateError(err error, msg string) error {
	var be ports.BoardError
	if errors.As(err, &be) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqSerializationFailure, pqDeadlockDetected, pqUniqueViolation:
			return ports.WrapBoardError(ports.BoardCodeConflict, "concurrent card update, retry the request", err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// StageLockKey is the advisory lock key of one (team, stage) partition.
func StageLockKey(teamID, stageID uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("stage:" + teamID.String() + ":" + stageID.String()))
	return int64(h.Sum64())
}
