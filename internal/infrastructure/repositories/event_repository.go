package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/avatarctic/content-board/internal/infrastructure/db"
)

type eventRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewEventRepository creates the card event outbox reader
func NewEventRepository(database *db.Database, logger *logrus.Logger) ports.EventRepository {
	return &eventRepository{
		db:     database,
		logger: logger,
	}
}

// eventRow scans payload as []byte so the driver buffer is copied
type eventRow struct {
	Seq       int64     `db:"seq"`
	ID        uuid.UUID `db:"id"`
	TeamID    uuid.UUID `db:"team_id"`
	CardID    uuid.UUID `db:"card_id"`
	Type      string    `db:"type"`
	ActorRole string    `db:"actor_role"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// List returns events of filter.TeamID with seq > filter.Since in seq order
func (r *eventRepository) List(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error) {
	query := `
		SELECT seq, id, team_id, card_id, type, actor_role, payload, created_at
		FROM card_events
		WHERE team_id = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3`

	var rows []eventRow
	if err := r.db.DB.SelectContext(ctx, &rows, query, filter.TeamID, filter.Since, filter.Limit); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"team_id": filter.TeamID, "since": filter.Since}).WithError(err).Error("db: failed to list card events")
		}
		return nil, fmt.Errorf("failed to list card events: %w", err)
	}

	events := make([]*event.CardEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, &event.CardEvent{
			Seq:       row.Seq,
			ID:        row.ID,
			TeamID:    row.TeamID,
			CardID:    row.CardID,
			Type:      event.Type(row.Type),
			ActorRole: row.ActorRole,
			Payload:   json.RawMessage(row.Payload),
			CreatedAt: row.CreatedAt,
		})
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"team_id": filter.TeamID, "count": len(events)}).Debug("db: card events listed")
	}
	return events, nil
}
