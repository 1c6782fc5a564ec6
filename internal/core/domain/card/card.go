package card

import (
	"time"

	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/google/uuid"
)

// Priority of a content card
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Stage is one team's row for a workflow stage. ID is per team; Name is the
// canonical name permissions are keyed on.
type Stage struct {
	ID       uuid.UUID            `json:"id" db:"id"`
	TeamID   uuid.UUID            `json:"team_id" db:"team_id"`
	Name     permission.StageName `json:"name" db:"name"`
	Position int                  `json:"position" db:"position"`
}

// Card is a unit of content moving through the stages of one team
type Card struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TeamID      uuid.UUID  `json:"team_id" db:"team_id"`
	StageID     uuid.UUID  `json:"stage_id" db:"stage_id"`
	Position    int        `json:"position" db:"position"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" db:"assignee_id"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CardWithStage pairs a card with the canonical name of its current stage.
// Visibility filtering needs the name, not the id.
type CardWithStage struct {
	Card
	StageName permission.StageName `json:"stage_name" db:"stage_name"`
}

// CardPosition is the ordering projection of a card inside one stage
type CardPosition struct {
	CardID   uuid.UUID `db:"id"`
	Position int       `db:"position"`
}

// CardFields holds editable non-ordering fields. Nil means unchanged.
type CardFields struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// IsEmpty reports whether no field is set
func (f CardFields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Priority == nil && f.AssigneeID == nil && f.DueDate == nil
}

// ApplyTo copies the set fields onto c
func (f CardFields) ApplyTo(c *Card) {
	if f.Title != nil {
		c.Title = *f.Title
	}
	if f.Description != nil {
		c.Description = *f.Description
	}
	if f.Priority != nil {
		c.Priority = *f.Priority
	}
	if f.AssigneeID != nil {
		id := *f.AssigneeID
		c.AssigneeID = &id
	}
	if f.DueDate != nil {
		d := *f.DueDate
		c.DueDate = &d
	}
}

// CardChanges is a requested mutation of a card. StageID and Position are the
// ordering part; Fields never touch ordering.
type CardChanges struct {
	StageID  *uuid.UUID `json:"stage_id,omitempty"`
	Position *int       `json:"position,omitempty"`
	Fields   CardFields `json:"fields"`
}

// ChangesStage reports whether the request targets a stage other than current
func (c CardChanges) ChangesStage(current uuid.UUID) bool {
	return c.StageID != nil && *c.StageID != current
}

// CreateCardRequest represents the request to create a card
type CreateCardRequest struct {
	TeamID      uuid.UUID  `json:"team_id"`
	StageID     uuid.UUID  `json:"stage_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
}

// Board is a team's stages in order with the cards the caller may see
type Board struct {
	TeamID uuid.UUID        `json:"team_id"`
	Stages []*Stage         `json:"stages"`
	Cards  []*CardWithStage `json:"cards"`
}
