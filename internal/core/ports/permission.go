package ports

import (
	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
)

// PermissionEvaluator answers action-level questions against an injected matrix
type PermissionEvaluator interface {
	// HasAccess is false for level none, unknown roles, stages or actions.
	HasAccess(role permission.Role, stage permission.StageName, action permission.Action) bool
	// HasGlobalCapability is always true for admin.
	HasGlobalCapability(role permission.Role, capability permission.GlobalCapability) bool
	LevelFor(role permission.Role, stage permission.StageName) permission.Level
}

// StageAccessPolicy derives card capabilities from the evaluator
type StageAccessPolicy interface {
	CanEditCard(role permission.Role, stage permission.StageName) bool
	CanDeleteCard(role permission.Role, stage permission.StageName) bool
	CanAssignCard(role permission.Role, stage permission.StageName) bool
	CanDragCard(role permission.Role, stage permission.StageName) bool
	IsStageReadOnly(role permission.Role, stage permission.StageName) bool
	AccessibleStages(role permission.Role) []permission.StageName
	CanViewAllCards(role permission.Role) bool
	// FilterVisibleCards never mutates its input.
	FilterVisibleCards(cards []*card.CardWithStage, role permission.Role) []*card.CardWithStage
	StageCapabilities(role permission.Role, stage permission.StageName) permission.StageCapabilities
}
