package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avatarctic/content-board/internal/core/domain/card"
	"github.com/avatarctic/content-board/internal/core/domain/event"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/google/uuid"
)

// MemoryCardRepository is an in-memory ports.CardRepository. Transactions run one at
// a time against a snapshot that is restored when fn fails, and commit rejects a
// duplicate (team, stage, position) the way the deferred unique constraint does.
type MemoryCardRepository struct {
	mu     sync.Mutex
	stages map[uuid.UUID]*card.Stage
	cards  map[uuid.UUID]*card.Card
	events []*event.CardEvent
	seq    int64

	// Writes counts card row mutations; EventWrites counts outbox rows.
	Writes       int
	EventWrites  int
	Transactions int
	LockedStages [][]uuid.UUID

	// ConflictsBeforeCommit makes the next N commits fail with a retryable conflict.
	ConflictsBeforeCommit int
}

func NewMemoryCardRepository() *MemoryCardRepository {
	return &MemoryCardRepository{
		stages: make(map[uuid.UUID]*card.Stage),
		cards:  make(map[uuid.UUID]*card.Card),
	}
}

// SeedTeam creates the five stages for a team in board order
func (r *MemoryCardRepository) SeedTeam(teamID uuid.UUID) map[permission.StageName]*card.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[permission.StageName]*card.Stage)
	for i, name := range permission.AllStages() {
		s := &card.Stage{ID: uuid.New(), TeamID: teamID, Name: name, Position: i + 1}
		r.stages[s.ID] = s
		out[name] = s
	}
	return out
}

// SeedCards appends n cards titled "<stage> #k" to stage and returns them in order
func (r *MemoryCardRepository) SeedCards(stage *card.Stage, n int) []*card.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := len(r.positionsLocked(stage.TeamID, stage.ID))
	out := make([]*card.Card, 0, n)
	for i := 1; i <= n; i++ {
		c := &card.Card{
			ID:        uuid.New(),
			TeamID:    stage.TeamID,
			StageID:   stage.ID,
			Position:  start + i,
			Title:     fmt.Sprintf("%s #%d", stage.Name, start+i),
			Priority:  card.PriorityMedium,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		r.cards[c.ID] = c
		out = append(out, copyCard(c))
	}
	return out
}

// Positions returns the stage's positions in ascending order
func (r *MemoryCardRepository) Positions(teamID, stageID uuid.UUID) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []int{}
	for _, p := range r.positionsLocked(teamID, stageID) {
		out = append(out, p.Position)
	}
	return out
}

// OrderedIDs returns the stage's card ids by position
func (r *MemoryCardRepository) OrderedIDs(teamID, stageID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []uuid.UUID{}
	for _, p := range r.positionsLocked(teamID, stageID) {
		out = append(out, p.CardID)
	}
	return out
}

// Card returns a copy of the stored card, nil when absent
func (r *MemoryCardRepository) Card(id uuid.UUID) *card.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cards[id]; ok {
		return copyCard(c)
	}
	return nil
}

// Events returns a copy of the committed outbox
func (r *MemoryCardRepository) Events() []*event.CardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*event.CardEvent, len(r.events))
	copy(out, r.events)
	return out
}

// IsDense reports whether every (team, stage) holds exactly 1..N
func (r *MemoryCardRepository) IsDense() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.denseLocked() == nil
}

func (r *MemoryCardRepository) WithTransaction(ctx context.Context, fn func(tx ports.CardTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transactions++

	cardSnap := make(map[uuid.UUID]*card.Card, len(r.cards))
	for id, c := range r.cards {
		cardSnap[id] = copyCard(c)
	}
	eventSnap := len(r.events)
	seqSnap := r.seq
	writesSnap, eventWritesSnap := r.Writes, r.EventWrites
	restore := func() {
		r.cards = cardSnap
		r.events = r.events[:eventSnap]
		r.seq = seqSnap
		r.Writes, r.EventWrites = writesSnap, eventWritesSnap
	}

	if err := fn(&memoryTx{repo: r}); err != nil {
		restore()
		return err
	}
	if r.ConflictsBeforeCommit > 0 {
		r.ConflictsBeforeCommit--
		restore()
		return ports.NewBoardError(ports.BoardCodeConflict, "could not serialize access")
	}
	if err := r.uniqueLocked(); err != nil {
		restore()
		return ports.WrapBoardError(ports.BoardCodeConflict, "duplicate card position", err)
	}
	return nil
}

func (r *MemoryCardRepository) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCardLocked(id)
}

func (r *MemoryCardRepository) GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getStageLocked(id)
}

func (r *MemoryCardRepository) ListStages(ctx context.Context, teamID uuid.UUID) ([]*card.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*card.Stage{}
	for _, s := range r.stages {
		if s.TeamID == teamID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *MemoryCardRepository) ListCards(ctx context.Context, teamID uuid.UUID) ([]*card.CardWithStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*card.CardWithStage{}
	for _, c := range r.cards {
		if c.TeamID != teamID {
			continue
		}
		s := r.stages[c.StageID]
		out = append(out, &card.CardWithStage{Card: *copyCard(c), StageName: s.Name})
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := r.stages[out[i].StageID].Position, r.stages[out[j].StageID].Position
		if si != sj {
			return si < sj
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *MemoryCardRepository) getCardLocked(id uuid.UUID) (*card.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return nil, ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", id))
	}
	return copyCard(c), nil
}

func (r *MemoryCardRepository) getStageLocked(id uuid.UUID) (*card.Stage, error) {
	s, ok := r.stages[id]
	if !ok {
		return nil, ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("stage %s not found", id))
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryCardRepository) positionsLocked(teamID, stageID uuid.UUID) []card.CardPosition {
	out := []card.CardPosition{}
	for _, c := range r.cards {
		if c.TeamID == teamID && c.StageID == stageID {
			out = append(out, card.CardPosition{CardID: c.ID, Position: c.Position})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

type partition struct{ team, stage uuid.UUID }

func (r *MemoryCardRepository) uniqueLocked() error {
	seen := make(map[partition]map[int]bool)
	for _, c := range r.cards {
		k := partition{c.TeamID, c.StageID}
		if seen[k] == nil {
			seen[k] = make(map[int]bool)
		}
		if seen[k][c.Position] {
			return fmt.Errorf("position %d duplicated in stage %s", c.Position, c.StageID)
		}
		seen[k][c.Position] = true
	}
	return nil
}

func (r *MemoryCardRepository) denseLocked() error {
	byPartition := make(map[partition][]int)
	for _, c := range r.cards {
		k := partition{c.TeamID, c.StageID}
		byPartition[k] = append(byPartition[k], c.Position)
	}
	for k, positions := range byPartition {
		sort.Ints(positions)
		for i, p := range positions {
			if p != i+1 {
				return fmt.Errorf("stage %s positions %v are not dense", k.stage, positions)
			}
		}
	}
	return nil
}

type memoryTx struct {
	repo *MemoryCardRepository
}

func (t *memoryTx) LockStages(ctx context.Context, teamID uuid.UUID, stageIDs ...uuid.UUID) error {
	ids := make([]uuid.UUID, len(stageIDs))
	copy(ids, stageIDs)
	t.repo.LockedStages = append(t.repo.LockedStages, ids)
	return nil
}

func (t *memoryTx) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	return t.repo.getCardLocked(id)
}

func (t *memoryTx) GetStage(ctx context.Context, id uuid.UUID) (*card.Stage, error) {
	return t.repo.getStageLocked(id)
}

func (t *memoryTx) GetCardsInStage(ctx context.Context, teamID, stageID uuid.UUID) ([]card.CardPosition, error) {
	return t.repo.positionsLocked(teamID, stageID), nil
}

func (t *memoryTx) UpdateCardPosition(ctx context.Context, cardID uuid.UUID, newPosition int, newStageID *uuid.UUID) error {
	c, ok := t.repo.cards[cardID]
	if !ok {
		return ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", cardID))
	}
	c.Position = newPosition
	if newStageID != nil {
		c.StageID = *newStageID
	}
	t.repo.Writes++
	return nil
}

func (t *memoryTx) InsertCard(ctx context.Context, c *card.Card) error {
	if _, exists := t.repo.cards[c.ID]; exists {
		return fmt.Errorf("card %s already exists", c.ID)
	}
	t.repo.cards[c.ID] = copyCard(c)
	t.repo.Writes++
	return nil
}

func (t *memoryTx) UpdateCardFields(ctx context.Context, c *card.Card) error {
	stored, ok := t.repo.cards[c.ID]
	if !ok {
		return ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", c.ID))
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.Priority = c.Priority
	stored.AssigneeID = c.AssigneeID
	stored.DueDate = c.DueDate
	stored.UpdatedAt = c.UpdatedAt
	t.repo.Writes++
	return nil
}

func (t *memoryTx) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.repo.cards[id]; !ok {
		return ports.NewBoardError(ports.BoardCodeNotFound, fmt.Sprintf("card %s not found", id))
	}
	delete(t.repo.cards, id)
	t.repo.Writes++
	return nil
}

func (t *memoryTx) AppendEvent(ctx context.Context, e *event.CardEvent) error {
	t.repo.seq++
	e.Seq = t.repo.seq
	t.repo.events = append(t.repo.events, e)
	t.repo.EventWrites++
	return nil
}

func copyCard(c *card.Card) *card.Card {
	cp := *c
	if c.AssigneeID != nil {
		id := *c.AssigneeID
		cp.AssigneeID = &id
	}
	if c.DueDate != nil {
		d := *c.DueDate
		cp.DueDate = &d
	}
	return &cp
}
