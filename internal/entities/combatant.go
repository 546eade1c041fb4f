package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Combatant is the common surface of characters and monsters that the combat
// rules operate on. Rules never mutate a fetched combatant in place: they
// clone it, apply mutators to the clone, and hand it back to the context so
// the engine can journal the replacement.
type Combatant interface {
	core.Entity

	GetName() string
	CurrentHitPoints() int
	MaxHitPoints() int
	SetHitPoints(current int)
	BaseArmorClass() int
	BaseTHAC0() int
	CreatureSize() Size
	StatusEffects() []StatusEffect
	HasStatus(name string) bool
	AddStatus(effect StatusEffect)
	CloneCombatant() Combatant
}

// cloneStatuses copies a status slice so clones never share backing arrays
func cloneStatuses(statuses []StatusEffect) []StatusEffect {
	if statuses == nil {
		return nil
	}
	out := make([]StatusEffect, len(statuses))
	copy(out, statuses)
	return out
}
