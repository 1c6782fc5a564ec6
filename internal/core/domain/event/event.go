package event

import (
	"encoding/json"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Type names a card event consumed by the notification dispatcher
type Type string

const (
	TypeCardCreated  Type = "card.created"
	TypeCardMoved    Type = "card.moved"
	TypeCardUpdated  Type = "card.updated"
	TypeCardDeleted  Type = "card.deleted"
	TypeMentionAdded Type = "card.mention_added"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeCardCreated, TypeCardMoved, TypeCardUpdated, TypeCardDeleted, TypeMentionAdded:
		return true
	default:
		return false
	}
}

// CardEvent is an outbox row written in the same transaction as the card mutation.
// Seq is assigned by storage and orders events within a team.
type CardEvent struct {
	Seq       int64           `json:"seq" db:"seq"`
	ID        uuid.UUID       `json:"id" db:"id"`
	TeamID    uuid.UUID       `json:"team_id" db:"team_id"`
	CardID    uuid.UUID       `json:"card_id" db:"card_id"`
	Type      Type            `json:"type" db:"type"`
	ActorRole string          `json:"actor_role" db:"actor_role"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// MovedPayload is the payload of card.moved
type MovedPayload struct {
	FromStageID  uuid.UUID `json:"from_stage_id"`
	ToStageID    uuid.UUID `json:"to_stage_id"`
	FromPosition int       `json:"from_position"`
	ToPosition   int       `json:"to_position"`
}

// MentionPayload is the payload of card.mention_added
type MentionPayload struct {
	Handles []string `json:"handles"`
}

// New builds an event with a fresh id. Payload marshal errors are returned.
func New(teamID, cardID uuid.UUID, t Type, actorRole string, payload any) (*CardEvent, error) {
	raw := json.RawMessage("{}")
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &CardEvent{
		ID:        uuid.New(),
		TeamID:    teamID,
		CardID:    cardID,
		Type:      t,
		ActorRole: actorRole,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ListFilter selects events of a team after a sequence cursor
type ListFilter struct {
	TeamID uuid.UUID `json:"team_id"`
	Since  int64     `json:"since"`
	Limit  int       `json:"limit"`
}

var mentionPattern = regexp.MustCompile(`(?:^|[^\w@])@([A-Za-z0-9_]+(?:[.-][A-Za-z0-9_]+)*)`)

// Mentions returns the distinct @handles in text, in first-seen order.
func Mentions(text string) []string {
	var out []string
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// NewMentions returns handles present in after but not in before
func NewMentions(before, after string) []string {
	prev := Mentions(before)
	var added []string
	for _, h := range Mentions(after) {
		if !slices.Contains(prev, h) {
			added = append(added, h)
		}
	}
	return added
}
