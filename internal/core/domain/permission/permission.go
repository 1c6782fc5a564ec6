package permission

// Role is the board role of the acting user. Roles are assigned outside this service.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStrategist   Role = "strategist"
	RoleScriptwriter Role = "scriptwriter"
	RoleEditor       Role = "editor"
	RoleCoordinator  Role = "coordinator"
	RoleMember       Role = "member"
	RoleClient       Role = "client"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStrategist, RoleScriptwriter, RoleEditor, RoleCoordinator, RoleMember, RoleClient:
		return true
	default:
		return false
	}
}

// AllRoles returns every role in canonical order
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleStrategist, RoleScriptwriter, RoleEditor, RoleCoordinator, RoleMember, RoleClient}
}

// StageName is the canonical name of a workflow stage. Permissions are keyed by
// name, never by the per-team stage identifier.
type StageName string

const (
	StageResearch StageName = "research"
	StageEnvision StageName = "envision"
	StageAssemble StageName = "assemble"
	StageConnect  StageName = "connect"
	StageHone     StageName = "hone"
)

func (s StageName) String() string {
	return string(s)
}

func (s StageName) IsValid() bool {
	switch s {
	case StageResearch, StageEnvision, StageAssemble, StageConnect, StageHone:
		return true
	default:
		return false
	}
}

// AllStages returns the five workflow stages in board order
func AllStages() []StageName {
	return []StageName{StageResearch, StageEnvision, StageAssemble, StageConnect, StageHone}
}

// Level is the capability tier a role holds on a stage
type Level string

const (
	LevelFull           Level = "full"
	LevelCommentApprove Level = "comment_approve"
	LevelReadOnly       Level = "read_only"
	LevelNone           Level = "none"
)

func (l Level) String() string {
	return string(l)
}

func (l Level) IsValid() bool {
	switch l {
	case LevelFull, LevelCommentApprove, LevelReadOnly, LevelNone:
		return true
	default:
		return false
	}
}

// rank orders levels by capability. Unknown levels rank with none.
func (l Level) rank() int {
	switch l {
	case LevelFull:
		return 3
	case LevelCommentApprove:
		return 2
	case LevelReadOnly:
		return 1
	default:
		return 0
	}
}

// Allows reports whether the level implies the action.
func (l Level) Allows(a Action) bool {
	if l.rank() == 0 {
		return false
	}
	required, ok := actionMinimum[a]
	if !ok {
		return false
	}
	return l.rank() >= required.rank()
}

// Action is an operation on a card within a stage
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionComment Action = "comment"
	ActionApprove Action = "approve"
	ActionAssign  Action = "assign"
	ActionDelete  Action = "delete"
)

func (a Action) String() string {
	return string(a)
}

func (a Action) IsValid() bool {
	_, ok := actionMinimum[a]
	return ok
}

// AllActions returns every stage action
func AllActions() []Action {
	return []Action{ActionRead, ActionWrite, ActionComment, ActionApprove, ActionAssign, ActionDelete}
}

// actionMinimum is the lowest level that implies each action.
var actionMinimum = map[Action]Level{
	ActionRead:    LevelReadOnly,
	ActionComment: LevelCommentApprove,
	ActionApprove: LevelCommentApprove,
	ActionWrite:   LevelFull,
	ActionAssign:  LevelFull,
	ActionDelete:  LevelFull,
}

// GlobalCapability is a role-wide right that does not depend on the stage
type GlobalCapability string

const (
	CapUserManagement     GlobalCapability = "user_management"
	CapTeamManagement     GlobalCapability = "team_management"
	CapGlobalReassign     GlobalCapability = "global_reassign"
	CapGlobalDelete       GlobalCapability = "global_delete"
	CapViewAll            GlobalCapability = "view_all"
	CapLimitedReassign    GlobalCapability = "limited_reassign"
	CapTimelineManagement GlobalCapability = "timeline_management"
	CapPublishing         GlobalCapability = "publishing"
	CapBasicOperations    GlobalCapability = "basic_operations"
	CapViewAssigned       GlobalCapability = "view_assigned"
	CapGlobalView         GlobalCapability = "global_view"
	CapGlobalComment      GlobalCapability = "global_comment"
	CapCommentOnly        GlobalCapability = "comment_only"
)

func (c GlobalCapability) String() string {
	return string(c)
}

// IsKnown reports whether the board itself consults c. Other names are carried
// for downstream services.
func (c GlobalCapability) IsKnown() bool {
	switch c {
	case CapUserManagement, CapTeamManagement, CapGlobalReassign, CapGlobalDelete, CapViewAll,
		CapLimitedReassign, CapTimelineManagement, CapPublishing, CapBasicOperations,
		CapViewAssigned, CapGlobalView, CapGlobalComment, CapCommentOnly:
		return true
	default:
		return false
	}
}

// StageCapabilities is the derived capability set a role holds on one stage
type StageCapabilities struct {
	Stage     StageName `json:"stage"`
	Level     Level     `json:"level"`
	CanEdit   bool      `json:"can_edit"`
	CanDelete bool      `json:"can_delete"`
	CanAssign bool      `json:"can_assign"`
	CanDrag   bool      `json:"can_drag"`
	ReadOnly  bool      `json:"read_only"`
}

// EvaluateAccessResponse represents the response for a single access evaluation
type EvaluateAccessResponse struct {
	Role    Role      `json:"role"`
	Stage   StageName `json:"stage"`
	Action  Action    `json:"action"`
	Allowed bool      `json:"allowed"`
}

// AccessibleStagesResponse represents the response listing visible stages for a role
type AccessibleStagesResponse struct {
	Role         Role                `json:"role"`
	Stages       []StageName         `json:"stages"`
	Capabilities []StageCapabilities `json:"capabilities"`
	ViewAll      bool                `json:"view_all"`
}
