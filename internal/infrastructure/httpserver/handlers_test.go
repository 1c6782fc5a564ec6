package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/avatarctic/content-board/configs"
	"github.com/avatarctic/content-board/internal/application/services"
	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver"
	tmocks "github.com/avatarctic/content-board/test/mocks"
)

// newMockBoard wires the server over service mocks so handlers can be driven
// into error paths the real services rarely reach.
func newMockBoard(t *testing.T, cards *tmocks.CardServiceMock, transitions *tmocks.StageTransitionServiceMock, events *tmocks.EventServiceMock) *testBoard {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	evaluator := services.NewPermissionEvaluator(permission.DefaultMatrix())
	tokens := services.NewTokenService(&config.JWTConfig{Secret: "test-secret"})
	server := httpserver.NewServer(&httpserver.ServerConfig{}, logger, httpserver.ServerDeps{
		TokenService:      tokens,
		Evaluator:         evaluator,
		Policy:            services.NewStageAccessPolicy(evaluator),
		TransitionService: transitions,
		CardService:       cards,
		EventService:      events,
	})
	return &testBoard{server: server, tokens: tokens, team: uuid.New()}
}

func TestHandlers_MapBoardErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", ports.NewBoardError(ports.BoardCodeConflict, "could not serialize access"), http.StatusConflict},
		{"wrapped forbidden", fmt.Errorf("apply: %w", ports.NewBoardError(ports.BoardCodeForbidden, "no write")), http.StatusForbidden},
		{"invalid target", ports.NewBoardError(ports.BoardCodeInvalidTarget, "bad stage"), http.StatusUnprocessableEntity},
		{"invalid input", ports.NewBoardError(ports.BoardCodeInvalidInput, "blank title"), http.StatusBadRequest},
		{"not found", ports.NewBoardError(ports.BoardCodeNotFound, "gone"), http.StatusNotFound},
		{"untyped", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transitions := &tmocks.StageTransitionServiceMock{
				ApplyCardChangeFn: func(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, error) {
					return nil, tc.err
				},
			}
			b := newMockBoard(t, &tmocks.CardServiceMock{}, transitions, &tmocks.EventServiceMock{})
			tok := b.token(t, permission.RoleAdmin, b.team)

			rec := b.do(t, http.MethodPatch, "/api/v1/cards/"+uuid.NewString(), tok, `{"position":2}`)
			require.Equal(t, tc.want, rec.Code, rec.Body.String())
			if tc.want == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}

func TestHandlers_PatchPassesChanges(t *testing.T) {
	dest := uuid.New()
	var got card.CardChanges
	transitions := &tmocks.StageTransitionServiceMock{
		ApplyCardChangeFn: func(ctx context.Context, role permission.Role, cardID uuid.UUID, changes card.CardChanges) (*card.Card, error) {
			got = changes
			return &card.Card{ID: cardID, StageID: *changes.StageID, Position: *changes.Position}, nil
		},
	}
	b := newMockBoard(t, &tmocks.CardServiceMock{}, transitions, &tmocks.EventServiceMock{})

	rec := b.do(t, http.MethodPatch, "/api/v1/cards/"+uuid.NewString(), b.token(t, permission.RoleAdmin, b.team),
		`{"stage_id":"`+dest.String()+`","position":3,"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, got.StageID)
	require.Equal(t, dest, *got.StageID)
	require.Equal(t, 3, *got.Position)
	require.Equal(t, "Renamed", *got.Fields.Title)
	require.Nil(t, got.Fields.Description)
}

func TestHandlers_CreateCardRejection(t *testing.T) {
	cards := &tmocks.CardServiceMock{
		CreateCardFn: func(ctx context.Context, role permission.Role, req *card.CreateCardRequest) (*card.Card, error) {
			return nil, ports.NewBoardError(ports.BoardCodeInvalidTarget, "stage belongs to another team")
		},
	}
	b := newMockBoard(t, cards, &tmocks.StageTransitionServiceMock{}, &tmocks.EventServiceMock{})
	tok := b.token(t, permission.RoleAdmin, b.team)

	rec := b.do(t, http.MethodPost, "/api/v1/teams/"+b.team.String()+"/cards", tok, `{"stage_id":"`+uuid.NewString()+`","title":"x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Test: missing stage id is rejected before the service is called
	rec = b.do(t, http.MethodPost, "/api/v1/teams/"+b.team.String()+"/cards", tok, `{"title":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_ListEventsCursor(t *testing.T) {
	var got event.ListFilter
	events := &tmocks.EventServiceMock{
		ListEventsFn: func(ctx context.Context, filter *event.ListFilter) ([]*event.CardEvent, error) {
			got = *filter
			return []*event.CardEvent{
				{Seq: 7, Type: event.TypeCardMoved, Payload: []byte("{}")},
				{Seq: 9, Type: event.TypeCardUpdated, Payload: []byte("{}")},
			}, nil
		},
	}
	b := newMockBoard(t, &tmocks.CardServiceMock{}, &tmocks.StageTransitionServiceMock{}, events)
	tok := b.token(t, permission.RoleAdmin, b.team)

	rec := b.do(t, http.MethodGet, "/api/v1/teams/"+b.team.String()+"/events?since=6&limit=2", tok, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, b.team, got.TeamID)
	require.Equal(t, int64(6), got.Since)
	require.Equal(t, 2, got.Limit)

	body := decode[map[string]interface{}](t, rec)
	require.Equal(t, float64(9), body["next_since"])

	rec = b.do(t, http.MethodGet, "/api/v1/teams/"+b.team.String()+"/events?since=abc", tok, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
