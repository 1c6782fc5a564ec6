package services

import (
	"context"

	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

type EventService struct {
	repo   ports.EventRepository
	logger *logrus.Logger
}

func NewEventService(repo ports.EventRepository, logger *logrus.Logger) ports.EventService {
	return &EventService{
		repo:   repo,
		logger: logger,
	}
}

// ListEvents returns a team's events with seq greater than filter.Since, oldest first
func (s *EventService) ListEvents(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error) {
	if filter.Since < 0 {
		return nil, ports.NewBoardError(ports.BoardCodeInvalidInput, "since must not be negative")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultEventLimit
	}
	if filter.Limit > maxEventLimit {
		filter.Limit = maxEventLimit
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"team_id": filter.TeamID, "since": filter.Since}).WithError(err).Error("failed to list card events")
		}
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"team_id": filter.TeamID, "count": len(events)}).Debug("listed card events")
	}
	return events, nil
}
