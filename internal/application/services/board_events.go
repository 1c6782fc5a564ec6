package services

import (
	"context"
	"fmt"

	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
)

const (
	OperationApplyChange = "apply_change"
	OperationCreate      = "create"
	OperationDelete      = "delete"

	OutcomeOK        = "ok"
	OutcomeNoop      = "noop"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
)

// appendEvent writes an outbox row on the open transaction
func appendEvent(ctx context.Context, tx ports.CardTx, teamID, cardID uuid.UUID, t event.Type, role permission.Role, payload any) error {
	e, err := event.New(teamID, cardID, t, role.String(), payload)
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", t, err)
	}
	return tx.AppendEvent(ctx, e)
}

// appendMentions emits card.mention_added when after gained handles over before
func appendMentions(ctx context.Context, tx ports.CardTx, teamID, cardID uuid.UUID, role permission.Role, before, after string) error {
	added := event.NewMentions(before, after)
	if len(added) == 0 {
		return nil
	}
	return appendEvent(ctx, tx, teamID, cardID, event.TypeMentionAdded, role, event.MentionPayload{Handles: added})
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch ports.BoardErrorCode(err) {
	case ports.BoardCodeForbidden:
		return OutcomeForbidden
	case ports.BoardCodeNotFound:
		return OutcomeNotFound
	case ports.BoardCodeInvalidTarget, ports.BoardCodeInvalidInput:
		return OutcomeInvalid
	case ports.BoardCodeConflict:
		return OutcomeConflict
	default:
		return OutcomeError
	}
}

func recordMutation(m ports.BoardMetrics, operation, outcome string) {
	if m != nil {
		m.CardMutation(operation, outcome)
	}
}

func forbidden(format string, args ...any) error {
	return ports.NewBoardError(ports.BoardCodeForbidden, fmt.Sprintf(format, args...))
}
