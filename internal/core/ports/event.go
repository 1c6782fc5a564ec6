package ports

import (
	"context"

	"github.com/avatarctic/content-board/internal/core/domain/event"
)

// EventRepository reads the card event outbox. Writes go through CardTx.AppendEvent.
type EventRepository interface {
	List(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error)
}

// EventService exposes the outbox to the notification dispatcher
type EventService interface {
	ListEvents(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error)
}
