package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avatarctic/content-board/internal/core/domain/auth"
	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
)

// TokenServiceMock is a lightweight mock for TokenService
type TokenServiceMock struct {
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
	IssueTokenFn    func(claims *auth.Claims) (string, error)
}

func (m *TokenServiceMock) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, fmt.Errorf("invalid token")
}
func (m *TokenServiceMock) IssueToken(claims *auth.Claims) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(claims)
	}
	return "token", nil
}

// CardServiceMock is a lightweight mock for CardService
type CardServiceMock struct {
	CreateCardFn func(ctx context.Context, role permission.Role, req *card.CreateCardRequest) (*card.Card, error)
	DeleteCardFn func(ctx context.Context, role permission.Role, cardID uuid.UUID) error
	GetCardFn    func(ctx context.Context, role permission.Role, teamID, cardID uuid.UUID) (*card.Card, error)
	ListCardsFn  func(ctx context.Context, role permission.Role, teamID uuid.UUID) (*card.Board, error)
}

func (m *CardServiceMock) CreateCard(ctx context.Context, role permission.Role, req *card.CreateCardRequest) (*card.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, role, req)
	}
	return &card.Card{ID: uuid.New(), TeamID: req.TeamID, StageID: req.StageID, Position: 1, Title: req.Title}, nil
}
func (m *CardServiceMock) DeleteCard(ctx context.Context, role permission.Role, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, role, cardID)
	}
	return nil
}
func (m *CardServiceMock) GetCard(ctx context.Context, role permission.Role, teamID, cardID uuid.UUID) (*card.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, role, teamID, cardID)
	}
	return &card.Card{ID: cardID, TeamID: teamID}, nil
}
func (m *CardServiceMock) ListCards(ctx context.Context, role permission.Role, teamID uuid.UUID) (*card.Board, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, role, teamID)
	}
	return &card.Board{TeamID: teamID}, nil
}

// StageTransitionServiceMock is a lightweight mock for StageTransitionService
type StageTransitionServiceMock struct {
	ApplyCardChangeFn func(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, error)
}

func (m *StageTransitionServiceMock) ApplyCardChange(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, error) {
	if m.ApplyCardChangeFn != nil {
		return m.ApplyCardChangeFn(ctx, role, cardID, changes)
	}
	return &card.Card{ID: cardID}, nil
}

// EventServiceMock is a lightweight mock for EventService
type EventServiceMock struct {
	ListEventsFn func(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error)
}

func (m *EventServiceMock) ListEvents(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error) {
	if m.ListEventsFn != nil {
		return m.ListEventsFn(ctx, filter)
	}
	return []*event.CardEvent{}, nil
}

// EventRepositoryMock is a lightweight mock for EventRepository
type EventRepositoryMock struct {
	ListFn func(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error)
}

func (m *EventRepositoryMock) List(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*event.CardEvent{}, nil
}

// StageRepositoryMock counts calls so cache tests can assert on hits
type StageRepositoryMock struct {
	GetStageFn   func(ctx context.Context, id uuid.UUID) (*card.Stage, error)
	ListStagesFn func(ctx context.Context, teamID uuid.UUID) ([]*card.Stage, error)

	mu        sync.Mutex
	GetCalls  int
	ListCalls int
}

func (m *StageRepositoryMock) GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetStageFn != nil {
		return m.GetStageFn(ctx, id)
	}
	return nil, ports.NewBoardError(ports.BoardCodeNotFound, "stage not found")
}
func (m *StageRepositoryMock) ListStages(ctx context.Context, teamID uuid.UUID) ([]*card.Stage, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListStagesFn != nil {
		return m.ListStagesFn(ctx, teamID)
	}
	return []*card.Stage{}, nil
}

// BoardMetricsMock records every CardMutation call as "operation/outcome"
type BoardMetricsMock struct {
	mu    sync.Mutex
	Calls []string
}

func (m *BoardMetricsMock) CardMutation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, operation+"/"+outcome)
}

// CacheMock is an in-memory ports.Cache; ttl is ignored
type CacheMock struct {
	mu   sync.Mutex
	data map[string][]byte
	Sets int
}

func NewCacheMock() *CacheMock {
	return &CacheMock{data: make(map[string][]byte)}
}

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}
func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.Sets++
	return nil
}
func (m *CacheMock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
