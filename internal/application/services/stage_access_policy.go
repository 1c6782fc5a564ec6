package services

import (
	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
)

// StageAccessPolicy implements ports.StageAccessPolicy
type StageAccessPolicy struct {
	evaluator ports.PermissionEvaluator
}

func NewStageAccessPolicy(evaluator ports.PermissionEvaluator) ports.StageAccessPolicy {
	return &StageAccessPolicy{evaluator: evaluator}
}

func (p *StageAccessPolicy) CanEditCard(role permission.Role, stage permission.StageName) bool {
	return p.evaluator.HasAccess(role, stage, permission.ActionWrite)
}

// CanDeleteCard is unconditional for admin, even on stages a custom matrix restricts.
func (p *StageAccessPolicy) CanDeleteCard(role permission.Role, stage permission.StageName) bool {
	if role == permission.RoleAdmin {
		return true
	}
	return p.evaluator.HasAccess(role, stage, permission.ActionDelete)
}

func (p *StageAccessPolicy) CanAssignCard(role permission.Role, stage permission.StageName) bool {
	return p.evaluator.HasAccess(role, stage, permission.ActionAssign)
}

// CanDragCard requires exactly full on the stage
func (p *StageAccessPolicy) CanDragCard(role permission.Role, stage permission.StageName) bool {
	return p.evaluator.LevelFor(role, stage) == permission.LevelFull
}

// IsStageReadOnly is true when the role sees the stage but cannot edit it.
// Stages with level none are hidden, not read-only.
func (p *StageAccessPolicy) IsStageReadOnly(role permission.Role, stage permission.StageName) bool {
	switch p.evaluator.LevelFor(role, stage) {
	case permission.LevelReadOnly, permission.LevelCommentApprove:
		return true
	default:
		return false
	}
}

// AccessibleStages lists the stages the role can see, in board order
func (p *StageAccessPolicy) AccessibleStages(role permission.Role) []permission.StageName {
	stages := make([]permission.StageName, 0, len(permission.AllStages()))
	for _, s := range permission.AllStages() {
		if p.evaluator.HasAccess(role, s, permission.ActionRead) {
			stages = append(stages, s)
		}
	}
	return stages
}

func (p *StageAccessPolicy) CanViewAllCards(role permission.Role) bool {
	if role == permission.RoleAdmin {
		return true
	}
	return p.evaluator.HasGlobalCapability(role, permission.CapViewAll) ||
		p.evaluator.HasGlobalCapability(role, permission.CapGlobalView)
}

// FilterVisibleCards keeps the cards whose stage the role can read. The input slice
// is returned unchanged for roles that see everything.
func (p *StageAccessPolicy) FilterVisibleCards(cards []*card.CardWithStage, role permission.Role) []*card.CardWithStage {
	if p.CanViewAllCards(role) {
		return cards
	}
	visible := make(map[permission.StageName]bool)
	for _, s := range p.AccessibleStages(role) {
		visible[s] = true
	}
	out := make([]*card.CardWithStage, 0, len(cards))
	for _, c := range cards {
		if visible[c.StageName] {
			out = append(out, c)
		}
	}
	return out
}

// StageCapabilities collects the derived flags for one stage
func (p *StageAccessPolicy) StageCapabilities(role permission.Role, stage permission.StageName) permission.StageCapabilities {
	return permission.StageCapabilities{
		Stage:     stage,
		Level:     p.evaluator.LevelFor(role, stage),
		CanEdit:   p.CanEditCard(role, stage),
		CanDelete: p.CanDeleteCard(role, stage),
		CanAssign: p.CanAssignCard(role, stage),
		CanDrag:   p.CanDragCard(role, stage),
		ReadOnly:  p.IsStageReadOnly(role, stage),
	}
}
