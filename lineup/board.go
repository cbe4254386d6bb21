// Package lineup holds the formation board used to pick a starting eleven.
package lineup

import (
	"sync"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/teams"
)

// Board maps the slots of one formation to player ids. A player occupies at
// most one slot.
type Board struct {
	mu          sync.RWMutex
	formation   FormationKey
	slots       []Slot
	assignments map[string]int64
}

// NewBoard starts an empty board on the default formation.
func NewBoard() *Board {
	slots, _ := Slots(DefaultFormation)
	return &Board{
		formation:   DefaultFormation,
		slots:       slots,
		assignments: make(map[string]int64),
	}
}

func (b *Board) Formation() FormationKey {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.formation
}

func (b *Board) Slots() []Slot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Slot(nil), b.slots...)
}

// SetFormation switches formation. Assignments on slot ids shared by both
// formations are kept, the rest are dropped.
func (b *Board) SetFormation(key FormationKey) error {
	slots, ok := Slots(key)
	if !ok {
		return apperrors.Wrapf(apperrors.ErrUnknownFormation, "%q", key)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := make(map[string]int64, len(slots))
	for _, s := range slots {
		if id, ok := b.assignments[s.ID]; ok {
			kept[s.ID] = id
		}
	}
	b.formation = key
	b.slots = slots
	b.assignments = kept
	return nil
}

// Assign puts playerID in slotID, first taking the player out of any slot
// they already hold. Whoever held slotID goes back to the bench.
func (b *Board) Assign(playerID int64, slotID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasSlotLocked(slotID) {
		return apperrors.Wrapf(apperrors.ErrUnknownSlot, "%q in %s", slotID, b.formation)
	}
	for s, id := range b.assignments {
		if id == playerID {
			delete(b.assignments, s)
		}
	}
	b.assignments[slotID] = playerID
	return nil
}

func (b *Board) ClearSlot(slotID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.assignments, slotID)
}

func (b *Board) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignments = make(map[string]int64)
}

// PlayerAt returns the player in slotID, if any.
func (b *Board) PlayerAt(slotID string) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.assignments[slotID]
	return id, ok
}

// Bench returns the players not on the pitch, in the order given.
func (b *Board) Bench(players []teams.Member) []teams.Member {
	b.mu.RLock()
	onPitch := make(map[int64]struct{}, len(b.assignments))
	for _, id := range b.assignments {
		onPitch[id] = struct{}{}
	}
	b.mu.RUnlock()

	bench := make([]teams.Member, 0, len(players))
	for _, p := range players {
		if _, ok := onPitch[p.ID]; !ok {
			bench = append(bench, p)
		}
	}
	return bench
}

// Payload is the saved lineup. Every slot of the formation is present;
// empty slots are null.
type Payload struct {
	Team        int64             `json:"team"`
	Formation   FormationKey      `json:"formation"`
	Assignments map[string]*int64 `json:"assignments"`
}

func (b *Board) Payload(teamID int64) Payload {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := Payload{Team: teamID, Formation: b.formation, Assignments: make(map[string]*int64, len(b.slots))}
	for _, s := range b.slots {
		if id, ok := b.assignments[s.ID]; ok {
			id := id
			p.Assignments[s.ID] = &id
		} else {
			p.Assignments[s.ID] = nil
		}
	}
	return p
}

func (b *Board) hasSlotLocked(slotID string) bool {
	for _, s := range b.slots {
		if s.ID == slotID {
			return true
		}
	}
	return false
}
