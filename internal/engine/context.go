package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// PhaseKey names a slot in the typed phase store. The phase store is the only
// coupling mechanism between rules: each rule reads earlier rules' outputs
// and writes its own under a well-known key.
type PhaseKey string

// Phase keys
const (
	PhaseAttack            PhaseKey = "attack-context"
	PhaseAttackSequence    PhaseKey = "attack-sequence"
	PhaseDamageResult      PhaseKey = "damage-result"
	PhaseDamageValues      PhaseKey = "damage-values"
	PhaseDamageMultiplier  PhaseKey = "damage-multiplier"
	PhaseInitiative        PhaseKey = "initiative-context"
	PhaseInitiativeResults PhaseKey = "initiative-results"
	PhaseInitiativeOrder   PhaseKey = "initiative-order"
	PhaseMounted           PhaseKey = "mounted-context"
	PhaseMountedCharge     PhaseKey = "mounted-charge-result"
	PhaseMountedModifiers  PhaseKey = "mounted-modifiers"
	PhaseSpecialization    PhaseKey = "specialization-context"
	PhaseTwoWeapon         PhaseKey = "two-weapon-context"
	PhaseTwoWeaponResult   PhaseKey = "two-weapon-result"
	PhaseAerial            PhaseKey = "aerial-context"
	PhaseAerialResult      PhaseKey = "aerial-result"
)

// journalEntry records an entity replacement so a failed chain can be undone
type journalEntry struct {
	id      string
	prev    core.Entity
	existed bool
}

// Context is the per-resolution container shared by every rule in a chain.
// The entity store is durable for the whole resolution and last-write-wins;
// the phase store persists across the chain until a key is overwritten or
// cleared. Neither store is safe for concurrent use; callers serialize
// chains.
type Context struct {
	entities map[string]core.Entity
	phases   map[PhaseKey]any
	journal  []journalEntry
}

// NewContext creates an empty resolution context
func NewContext() *Context {
	return &Context{
		entities: make(map[string]core.Entity),
		phases:   make(map[PhaseKey]any),
	}
}

// Entity returns the entity stored under id
func (c *Context) Entity(id string) (core.Entity, bool) {
	e, ok := c.entities[id]
	return e, ok
}

// SetEntity stores an entity, journaling the value it replaces. Rules must
// hand in clones rather than mutating fetched entities in place, or rollback
// cannot restore the prior state.
func (c *Context) SetEntity(e core.Entity) {
	if e == nil {
		return
	}
	prev, existed := c.entities[e.GetID()]
	c.journal = append(c.journal, journalEntry{id: e.GetID(), prev: prev, existed: existed})
	c.entities[e.GetID()] = e
}

// EntityIDs returns the ids of all stored entities
func (c *Context) EntityIDs() []string {
	ids := make([]string, 0, len(c.entities))
	for id := range c.entities {
		ids = append(ids, id)
	}
	return ids
}

// PhaseData returns the raw phase record stored under key
func (c *Context) PhaseData(key PhaseKey) (any, bool) {
	v, ok := c.phases[key]
	return v, ok
}

// SetPhase stores a phase record; a nil value clears the key
func (c *Context) SetPhase(key PhaseKey, v any) {
	if v == nil {
		delete(c.phases, key)
		return
	}
	c.phases[key] = v
}

// Phase returns the phase record under key as T
func Phase[T any](c *Context, key PhaseKey) (T, bool) {
	var zero T
	v, ok := c.phases[key]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// commit discards the undo journal after a chain completes
func (c *Context) commit() {
	c.journal = nil
}

// rollback restores every journaled entity replacement, newest first
func (c *Context) rollback() {
	for i := len(c.journal) - 1; i >= 0; i-- {
		entry := c.journal[i]
		if entry.existed {
			c.entities[entry.id] = entry.prev
		} else {
			delete(c.entities, entry.id)
		}
	}
	c.journal = nil
}
