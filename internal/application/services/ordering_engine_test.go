package services_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOrderingEngine_InsertAppends(t *testing.T) {
	f := newBoardFixture(t)
	f.seed(permission.StageResearch, 3)

	var got, empty int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		if got, err = f.engine.Insert(ctx, tx, f.team, f.stage(permission.StageResearch).ID); err != nil {
			return err
		}
		empty, err = f.engine.Insert(ctx, tx, f.team, f.stage(permission.StageHone).ID)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 4, got)
	require.Equal(t, 1, empty)
}

// Test: moving the third of five cards to the top shifts the first two down
func TestOrderingEngine_ReorderUp(t *testing.T) {
	f := newBoardFixture(t)
	c := f.seed(permission.StageResearch, 5)

	var pos int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		pos, err = f.engine.Reorder(ctx, tx, c[2], 1)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, pos)
	require.Equal(t, ids(c[2], c[0], c[1], c[3], c[4]), f.order(permission.StageResearch))
	require.Equal(t, []int{1, 2, 3, 4, 5}, f.positions(permission.StageResearch))
}

func TestOrderingEngine_ReorderDown(t *testing.T) {
	f := newBoardFixture(t)
	c := f.seed(permission.StageResearch, 5)

	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		_, err := f.engine.Reorder(ctx, tx, c[0], 4)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, ids(c[1], c[2], c[3], c[0], c[4]), f.order(permission.StageResearch))
}

func TestOrderingEngine_ReorderClampsToLast(t *testing.T) {
	f := newBoardFixture(t)
	c := f.seed(permission.StageResearch, 5)

	var pos int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		pos, err = f.engine.Reorder(ctx, tx, c[1], 99)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 5, pos)
	require.Equal(t, ids(c[0], c[2], c[3], c[4], c[1]), f.order(permission.StageResearch))
}

func TestOrderingEngine_ReorderSamePositionWritesNothing(t *testing.T) {
	f := newBoardFixture(t)
	c := f.seed(permission.StageResearch, 3)

	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		_, err := f.engine.Reorder(ctx, tx, c[1], 2)
		return err
	})
	require.NoError(t, err)
	require.Zero(t, f.repo.Writes)

	// a clamped target that lands on the current slot is also a no-op
	err = f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		_, err := f.engine.Reorder(ctx, tx, c[2], 10)
		return err
	})
	require.NoError(t, err)
	require.Zero(t, f.repo.Writes)
}

func TestOrderingEngine_RejectsPositionBelowOne(t *testing.T) {
	f := newBoardFixture(t)
	c := f.seed(permission.StageResearch, 2)

	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		_, err := f.engine.Reorder(ctx, tx, c[0], 0)
		return err
	})
	requireCode(t, err, ports.BoardCodeInvalidTarget)

	err = f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		_, err := f.engine.Move(ctx, tx, c[0], f.stage(permission.StageEnvision).ID, intPtr(-3))
		return err
	})
	requireCode(t, err, ports.BoardCodeInvalidTarget)
	require.Equal(t, []int{1, 2}, f.positions(permission.StageResearch))
}

// Test: card at position 5 of A moves to position 2 of B which holds 3 cards
func TestOrderingEngine_MoveAcrossStages(t *testing.T) {
	f := newBoardFixture(t)
	a := f.seed(permission.StageResearch, 5)
	b := f.seed(permission.StageEnvision, 3)
	dest := f.stage(permission.StageEnvision).ID

	var pos int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		pos, err = f.engine.Move(ctx, tx, a[4], dest, intPtr(2))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 2, pos)
	require.Equal(t, ids(a[0], a[1], a[2], a[3]), f.order(permission.StageResearch))
	require.Equal(t, ids(b[0], a[4], b[1], b[2]), f.order(permission.StageEnvision))
	require.Equal(t, dest, f.repo.Card(a[4].ID).StageID)
	require.True(t, f.repo.IsDense())
}

func TestOrderingEngine_MoveFromMiddleClosesGap(t *testing.T) {
	f := newBoardFixture(t)
	a := f.seed(permission.StageResearch, 4)
	b := f.seed(permission.StageEnvision, 1)

	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		_, err := f.engine.Move(ctx, tx, a[1], f.stage(permission.StageEnvision).ID, intPtr(1))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, ids(a[0], a[2], a[3]), f.order(permission.StageResearch))
	require.Equal(t, ids(a[1], b[0]), f.order(permission.StageEnvision))
	require.True(t, f.repo.IsDense())
}

func TestOrderingEngine_MoveAppendsAndClamps(t *testing.T) {
	f := newBoardFixture(t)
	a := f.seed(permission.StageResearch, 3)
	f.seed(permission.StageEnvision, 2)
	dest := f.stage(permission.StageEnvision).ID

	var appended, clamped int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		if appended, err = f.engine.Move(ctx, tx, a[0], dest, nil); err != nil {
			return err
		}
		moved, err := tx.GetCard(ctx, a[1].ID)
		if err != nil {
			return err
		}
		clamped, err = f.engine.Move(ctx, tx, moved, dest, intPtr(40))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 3, appended)
	require.Equal(t, 4, clamped)
	require.Equal(t, []int{1, 2, 3, 4}, f.positions(permission.StageEnvision))
	require.Equal(t, []int{1}, f.positions(permission.StageResearch))
}

func TestOrderingEngine_MoveIntoEmptyStage(t *testing.T) {
	f := newBoardFixture(t)
	a := f.seed(permission.StageResearch, 1)

	var pos int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		pos, err = f.engine.Move(ctx, tx, a[0], f.stage(permission.StageHone).ID, intPtr(3))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, pos)
	require.Empty(t, f.positions(permission.StageResearch))
	require.Equal(t, []int{1}, f.positions(permission.StageHone))
}

func TestOrderingEngine_MoveToSameStageWithoutPositionIsNoop(t *testing.T) {
	f := newBoardFixture(t)
	a := f.seed(permission.StageResearch, 2)

	var pos int
	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		var err error
		pos, err = f.engine.Move(ctx, tx, a[1], a[1].StageID, nil)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 2, pos)
	require.Zero(t, f.repo.Writes)
}

func TestOrderingEngine_Delete(t *testing.T) {
	f := newBoardFixture(t)
	a := f.seed(permission.StageResearch, 4)
	only := f.seed(permission.StageHone, 1)

	err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
		if err := f.engine.Delete(ctx, tx, a[1]); err != nil {
			return err
		}
		return f.engine.Delete(ctx, tx, only[0])
	})
	require.NoError(t, err)
	require.Equal(t, ids(a[0], a[2], a[3]), f.order(permission.StageResearch))
	require.Equal(t, []int{1, 2, 3}, f.positions(permission.StageResearch))
	require.Empty(t, f.positions(permission.StageHone))
	require.Nil(t, f.repo.Card(only[0].ID))
}

// Test: a long random sequence of operations keeps every stage dense
func TestOrderingEngine_RandomSequenceStaysDense(t *testing.T) {
	f := newBoardFixture(t)
	rng := rand.New(rand.NewSource(42))
	stages := permission.AllStages()
	for _, s := range stages {
		f.seed(s, rng.Intn(4))
	}

	randomCard := func(ctx context.Context, tx ports.CardTx) (*card.Card, error) {
		for _, s := range stages {
			cards, err := tx.GetCardsInStage(ctx, f.team, f.stage(s).ID)
			if err != nil {
				return nil, err
			}
			if len(cards) > 0 && rng.Intn(2) == 0 {
				return tx.GetCard(ctx, cards[rng.Intn(len(cards))].CardID)
			}
		}
		return nil, nil
	}

	for i := 0; i < 300; i++ {
		err := f.inTx(t, func(ctx context.Context, tx ports.CardTx) error {
			c, err := randomCard(ctx, tx)
			if err != nil {
				return err
			}
			target := f.stage(stages[rng.Intn(len(stages))])
			switch op := rng.Intn(10); {
			case c == nil || op < 3:
				pos, err := f.engine.Insert(ctx, tx, f.team, target.ID)
				if err != nil {
					return err
				}
				return tx.InsertCard(ctx, &card.Card{ID: uuid.New(), TeamID: f.team, StageID: target.ID, Position: pos, Title: "generated", Priority: card.PriorityLow})
			case op < 5:
				_, err = f.engine.Reorder(ctx, tx, c, 1+rng.Intn(8))
			case op < 8:
				var pos *int
				if rng.Intn(3) > 0 {
					pos = intPtr(1 + rng.Intn(8))
				}
				_, err = f.engine.Move(ctx, tx, c, target.ID, pos)
			default:
				err = f.engine.Delete(ctx, tx, c)
			}
			return err
		})
		require.NoError(t, err, "step %d", i)
		require.True(t, f.repo.IsDense(), "step %d", i)
	}
}
