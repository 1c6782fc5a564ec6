package services

import (
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
)

// PermissionEvaluator answers access questions against one immutable matrix
type PermissionEvaluator struct {
	matrix *permission.Matrix
}

func NewPermissionEvaluator(matrix *permission.Matrix) ports.PermissionEvaluator {
	return &PermissionEvaluator{matrix: matrix}
}

// LevelFor returns the matrix level, none for anything unknown
func (e *PermissionEvaluator) LevelFor(role permission.Role, stage permission.StageName) permission.Level {
	if !role.IsValid() || !stage.IsValid() {
		return permission.LevelNone
	}
	return e.matrix.LevelFor(role, stage)
}

// HasAccess checks whether the role's level on stage implies action
func (e *PermissionEvaluator) HasAccess(role permission.Role, stage permission.StageName, action permission.Action) bool {
	if !action.IsValid() {
		return false
	}
	return e.LevelFor(role, stage).Allows(action)
}

// HasGlobalCapability checks the role-wide table; admin holds every capability
func (e *PermissionEvaluator) HasGlobalCapability(role permission.Role, capability permission.GlobalCapability) bool {
	if role == permission.RoleAdmin {
		return true
	}
	return e.matrix.HasCapability(role, capability)
}
