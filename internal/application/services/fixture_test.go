package services_test

import (
	"context"
	"testing"

	impl "github.com/avatarctic/content-board/internal/application/services"
	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	tmocks "github.com/avatarctic/content-board/test/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// boardFixture is one team's board in memory with the full service graph on top
type boardFixture struct {
	repo       *tmocks.MemoryCardRepository
	team       uuid.UUID
	stages     map[permission.StageName]*card.Stage
	metrics    *tmocks.BoardMetricsMock
	evaluator  ports.PermissionEvaluator
	policy     ports.StageAccessPolicy
	engine     ports.CardOrderingEngine
	transition ports.StageTransitionService
	cards      ports.CardService
}

func newBoardFixture(t *testing.T) *boardFixture {
	return newBoardFixtureWith(t, permission.DefaultMatrix(), 1)
}

func newBoardFixtureWith(t *testing.T, matrix *permission.Matrix, attempts int) *boardFixture {
	t.Helper()
	repo := tmocks.NewMemoryCardRepository()
	team := uuid.New()
	f := &boardFixture{
		repo:    repo,
		team:    team,
		stages:  repo.SeedTeam(team),
		metrics: &tmocks.BoardMetricsMock{},
	}
	f.evaluator = impl.NewPermissionEvaluator(matrix)
	f.policy = impl.NewStageAccessPolicy(f.evaluator)
	f.engine = impl.NewCardOrderingEngine(nil)
	f.transition = impl.NewStageTransitionService(repo, f.engine, f.policy, f.metrics, attempts, nil)
	f.cards = impl.NewCardService(repo, nil, f.engine, f.policy, f.evaluator, f.metrics, nil)
	return f
}

func (f *boardFixture) stage(name permission.StageName) *card.Stage {
	return f.stages[name]
}

func (f *boardFixture) seed(name permission.StageName, n int) []*card.Card {
	return f.repo.SeedCards(f.stages[name], n)
}

func (f *boardFixture) positions(name permission.StageName) []int {
	return f.repo.Positions(f.team, f.stages[name].ID)
}

func (f *boardFixture) order(name permission.StageName) []uuid.UUID {
	return f.repo.OrderedIDs(f.team, f.stages[name].ID)
}

// inTx runs fn against the engine inside one repository transaction
func (f *boardFixture) inTx(t *testing.T, fn func(ctx context.Context, tx ports.CardTx) error) error {
	t.Helper()
	ctx := context.Background()
	return f.repo.WithTransaction(ctx, func(tx ports.CardTx) error {
		return fn(ctx, tx)
	})
}

func ids(cards ...*card.Card) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, ports.BoardErrorCode(err), "unexpected error: %v", err)
}
