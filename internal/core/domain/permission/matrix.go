package permission

import "slices"

// Matrix is the immutable role/stage permission table plus the role-wide capability
// table. Build it once at startup and share the pointer; nothing mutates it afterwards.
type Matrix struct {
	levels       map[Role]map[StageName]Level
	capabilities map[Role][]GlobalCapability
}

// NewMatrix copies the given tables into a Matrix. Pairs absent from levels resolve to LevelNone.
func NewMatrix(levels map[Role]map[StageName]Level, capabilities map[Role][]GlobalCapability) *Matrix {
	m := &Matrix{
		levels:       make(map[Role]map[StageName]Level, len(levels)),
		capabilities: make(map[Role][]GlobalCapability, len(capabilities)),
	}
	for role, stages := range levels {
		row := make(map[StageName]Level, len(stages))
		for stage, level := range stages {
			row[stage] = level
		}
		m.levels[role] = row
	}
	for role, caps := range capabilities {
		m.capabilities[role] = slices.Clone(caps)
	}
	return m
}

// LevelFor returns the level a role holds on a stage, LevelNone when unmapped.
func (m *Matrix) LevelFor(role Role, stage StageName) Level {
	if m == nil {
		return LevelNone
	}
	row, ok := m.levels[role]
	if !ok {
		return LevelNone
	}
	level, ok := row[stage]
	if !ok || !level.IsValid() {
		return LevelNone
	}
	return level
}

// HasCapability reports whether the capability table grants cap to role.
// It does not apply the admin override; see the evaluator for that.
func (m *Matrix) HasCapability(role Role, capability GlobalCapability) bool {
	if m == nil {
		return false
	}
	return slices.Contains(m.capabilities[role], capability)
}

// Capabilities returns a copy of the role's global capabilities
func (m *Matrix) Capabilities(role Role) []GlobalCapability {
	if m == nil {
		return nil
	}
	return slices.Clone(m.capabilities[role])
}

// UnknownCapabilities lists, per role, the capability names IsKnown does not
// recognise. Only roles with at least one such name appear.
func (m *Matrix) UnknownCapabilities() map[Role][]GlobalCapability {
	out := make(map[Role][]GlobalCapability)
	if m == nil {
		return out
	}
	for role, caps := range m.capabilities {
		for _, c := range caps {
			if !c.IsKnown() {
				out[role] = append(out[role], c)
			}
		}
	}
	return out
}

// DefaultMatrix returns the compiled-in board permissions.
func DefaultMatrix() *Matrix {
	return NewMatrix(defaultLevels, defaultCapabilities)
}

var defaultLevels = map[Role]map[StageName]Level{
	RoleAdmin: {
		StageResearch: LevelFull,
		StageEnvision: LevelFull,
		StageAssemble: LevelFull,
		StageConnect:  LevelFull,
		StageHone:     LevelFull,
	},
	RoleStrategist: {
		StageResearch: LevelCommentApprove,
		StageEnvision: LevelCommentApprove,
		StageAssemble: LevelCommentApprove,
		StageConnect:  LevelCommentApprove,
		StageHone:     LevelCommentApprove,
	},
	RoleScriptwriter: {
		StageResearch: LevelFull,
		StageEnvision: LevelFull,
		StageAssemble: LevelReadOnly,
		StageConnect:  LevelReadOnly,
		StageHone:     LevelReadOnly,
	},
	RoleEditor: {
		StageResearch: LevelReadOnly,
		StageEnvision: LevelCommentApprove,
		StageAssemble: LevelFull,
		StageConnect:  LevelReadOnly,
		StageHone:     LevelFull,
	},
	RoleCoordinator: {
		StageResearch: LevelReadOnly,
		StageEnvision: LevelReadOnly,
		StageAssemble: LevelReadOnly,
		StageConnect:  LevelFull,
		StageHone:     LevelFull,
	},
	RoleMember: {
		StageResearch: LevelFull,
		StageEnvision: LevelFull,
		StageAssemble: LevelFull,
		StageConnect:  LevelReadOnly,
		StageHone:     LevelReadOnly,
	},
	RoleClient: {
		StageResearch: LevelNone,
		StageEnvision: LevelNone,
		StageAssemble: LevelNone,
		StageConnect:  LevelCommentApprove,
		StageHone:     LevelCommentApprove,
	},
}

var defaultCapabilities = map[Role][]GlobalCapability{
	RoleAdmin:        {CapUserManagement, CapTeamManagement, CapGlobalReassign, CapGlobalDelete, CapViewAll},
	RoleStrategist:   {CapGlobalView, CapGlobalComment},
	RoleScriptwriter: {CapBasicOperations},
	RoleEditor:       {CapBasicOperations},
	RoleCoordinator:  {CapLimitedReassign, CapTimelineManagement, CapPublishing, CapGlobalView},
	RoleMember:       {CapBasicOperations, CapViewAssigned},
	RoleClient:       {CapCommentOnly},
}
