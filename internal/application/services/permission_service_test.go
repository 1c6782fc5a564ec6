package services_test

import (
	"testing"

	impl "github.com/avatarctic/content-board/internal/application/services"
	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_HasAccessFollowsLevels(t *testing.T) {
	matrix := permission.DefaultMatrix()
	ev := impl.NewPermissionEvaluator(matrix)
	for _, role := range permission.AllRoles() {
		for _, stage := range permission.AllStages() {
			level := matrix.LevelFor(role, stage)
			require.Equal(t, level, ev.LevelFor(role, stage))
			for _, action := range permission.AllActions() {
				require.Equal(t, level.Allows(action), ev.HasAccess(role, stage, action), "%s/%s/%s", role, stage, action)
			}
		}
	}
}

func TestEvaluator_FailsClosedOnUnknownInput(t *testing.T) {
	ev := impl.NewPermissionEvaluator(permission.DefaultMatrix())
	require.Equal(t, permission.LevelNone, ev.LevelFor(permission.Role("guest"), permission.StageHone))
	require.Equal(t, permission.LevelNone, ev.LevelFor(permission.RoleAdmin, permission.StageName("archive")))
	require.False(t, ev.HasAccess(permission.RoleAdmin, permission.StageHone, permission.Action("publish")))
	require.False(t, ev.HasAccess(permission.Role(""), permission.StageHone, permission.ActionRead))
	require.False(t, ev.HasGlobalCapability(permission.Role("guest"), permission.CapViewAll))
}

func TestEvaluator_AdminHoldsEveryCapability(t *testing.T) {
	ev := impl.NewPermissionEvaluator(permission.NewMatrix(nil, nil))
	require.True(t, ev.HasGlobalCapability(permission.RoleAdmin, permission.CapPublishing))
	require.True(t, ev.HasGlobalCapability(permission.RoleAdmin, permission.CapCommentOnly))
	require.False(t, ev.HasGlobalCapability(permission.RoleCoordinator, permission.CapPublishing))

	ev = impl.NewPermissionEvaluator(permission.DefaultMatrix())
	require.True(t, ev.HasGlobalCapability(permission.RoleCoordinator, permission.CapPublishing))
	require.False(t, ev.HasGlobalCapability(permission.RoleEditor, permission.CapPublishing))
}

// Test: scriptwriter owns the first two stages and watches the rest
func TestPolicy_Scriptwriter(t *testing.T) {
	p := impl.NewStageAccessPolicy(impl.NewPermissionEvaluator(permission.DefaultMatrix()))
	role := permission.RoleScriptwriter

	require.True(t, p.CanEditCard(role, permission.StageResearch))
	require.True(t, p.CanDragCard(role, permission.StageEnvision))
	require.True(t, p.CanDeleteCard(role, permission.StageEnvision))
	require.False(t, p.IsStageReadOnly(role, permission.StageResearch))

	require.False(t, p.CanEditCard(role, permission.StageAssemble))
	require.False(t, p.CanDragCard(role, permission.StageAssemble))
	require.False(t, p.CanAssignCard(role, permission.StageHone))
	require.True(t, p.IsStageReadOnly(role, permission.StageAssemble))

	require.Equal(t, permission.AllStages(), p.AccessibleStages(role))
	require.False(t, p.CanViewAllCards(role))
}

// Test: client only sees the last two stages and can never edit
func TestPolicy_Client(t *testing.T) {
	p := impl.NewStageAccessPolicy(impl.NewPermissionEvaluator(permission.DefaultMatrix()))
	role := permission.RoleClient

	require.Equal(t, []permission.StageName{permission.StageConnect, permission.StageHone}, p.AccessibleStages(role))
	require.False(t, p.IsStageReadOnly(role, permission.StageResearch))
	require.True(t, p.IsStageReadOnly(role, permission.StageHone))
	for _, stage := range permission.AllStages() {
		require.False(t, p.CanEditCard(role, stage))
		require.False(t, p.CanDeleteCard(role, stage))
		require.False(t, p.CanDragCard(role, stage))
	}
	require.False(t, p.CanViewAllCards(role))

	caps := p.StageCapabilities(role, permission.StageConnect)
	require.Equal(t, permission.StageCapabilities{
		Stage:    permission.StageConnect,
		Level:    permission.LevelCommentApprove,
		ReadOnly: true,
	}, caps)
}

func TestPolicy_ViewAll(t *testing.T) {
	p := impl.NewStageAccessPolicy(impl.NewPermissionEvaluator(permission.DefaultMatrix()))
	require.True(t, p.CanViewAllCards(permission.RoleAdmin))
	require.True(t, p.CanViewAllCards(permission.RoleStrategist))
	require.True(t, p.CanViewAllCards(permission.RoleCoordinator))
	require.False(t, p.CanViewAllCards(permission.RoleMember))
	require.False(t, p.CanViewAllCards(permission.RoleEditor))
}

func TestPolicy_AdminDeletesUnderRestrictiveMatrix(t *testing.T) {
	p := impl.NewStageAccessPolicy(impl.NewPermissionEvaluator(permission.NewMatrix(nil, nil)))
	require.True(t, p.CanDeleteCard(permission.RoleAdmin, permission.StageHone))
	require.False(t, p.CanEditCard(permission.RoleAdmin, permission.StageHone))
	require.True(t, p.CanViewAllCards(permission.RoleAdmin))
}

func TestPolicy_FilterVisibleCards(t *testing.T) {
	p := impl.NewStageAccessPolicy(impl.NewPermissionEvaluator(permission.DefaultMatrix()))
	cards := []*card.CardWithStage{
		{Card: card.Card{ID: uuid.New()}, StageName: permission.StageResearch},
		{Card: card.Card{ID: uuid.New()}, StageName: permission.StageConnect},
		{Card: card.Card{ID: uuid.New()}, StageName: permission.StageAssemble},
		{Card: card.Card{ID: uuid.New()}, StageName: permission.StageHone},
	}

	client := p.FilterVisibleCards(cards, permission.RoleClient)
	require.Len(t, client, 2)
	require.Same(t, cards[1], client[0])
	require.Same(t, cards[3], client[1])

	all := p.FilterVisibleCards(cards, permission.RoleStrategist)
	require.Len(t, all, 4)
	require.Same(t, cards[0], all[0])

	require.Empty(t, p.FilterVisibleCards(nil, permission.RoleClient))
	require.Empty(t, p.FilterVisibleCards(cards, permission.Role("guest")))
}

func TestEvaluator_RoleScenarios(t *testing.T) {
	ev := impl.NewPermissionEvaluator(permission.DefaultMatrix())
	cases := []struct {
		role   permission.Role
		stage  permission.StageName
		action permission.Action
		want   bool
	}{
		{permission.RoleScriptwriter, permission.StageResearch, permission.ActionWrite, true},
		{permission.RoleScriptwriter, permission.StageAssemble, permission.ActionWrite, false},
		{permission.RoleScriptwriter, permission.StageAssemble, permission.ActionRead, true},
		{permission.RoleClient, permission.StageResearch, permission.ActionRead, false},
		{permission.RoleClient, permission.StageConnect, permission.ActionComment, true},
		{permission.RoleClient, permission.StageConnect, permission.ActionWrite, false},
		{permission.RoleStrategist, permission.StageHone, permission.ActionApprove, true},
		{permission.RoleStrategist, permission.StageHone, permission.ActionWrite, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ev.HasAccess(tc.role, tc.stage, tc.action), "%s/%s/%s", tc.role, tc.stage, tc.action)
	}
}
