package rules

import (
	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// Rule names, unique across the engine
const (
	RuleAttackRoll        = "attack-roll"
	RuleDamage            = "damage-calculation"
	RuleInitiativeRoll    = "initiative-roll"
	RuleSurprise          = "surprise-check"
	RuleInitiativeOrder   = "initiative-order"
	RuleMultiAttack       = "multiple-attack"
	RuleChargeEligibility = "charge-eligibility"
	RuleChargeResolution  = "charge-resolution"
	RuleMountedModifiers  = "mounted-modifiers"
	RuleDismount          = "dismount"
	RuleTwoWeapon         = "two-weapon-fighting"
	RuleSpecialization    = "weapon-specialization"
	RuleDiveAttack        = "dive-attack"
)

// Shared failure messages
const (
	msgNoAttackContext = "No attack context found"
)

// combatant looks up an entity and asserts it participates in combat
func combatant(gctx *engine.Context, id string) (entities.Combatant, bool) {
	e, ok := gctx.Entity(id)
	if !ok {
		return nil, false
	}
	c, ok := e.(entities.Combatant)
	return c, ok
}

// character looks up an entity and asserts it is a character
func character(gctx *engine.Context, id string) (*entities.Character, bool) {
	e, ok := gctx.Entity(id)
	if !ok {
		return nil, false
	}
	c, ok := e.(*entities.Character)
	return c, ok
}

// mount looks up an entity and asserts it is a mount
func mount(gctx *engine.Context, id string) (*entities.Mount, bool) {
	e, ok := gctx.Entity(id)
	if !ok {
		return nil, false
	}
	m, ok := e.(*entities.Mount)
	return m, ok
}

// sequenceModifier returns the to-hit modifier for one swing of a
// multi-attack sequence: full, -2 for subsequent, -5 for the final attack.
func sequenceModifier(attackNumber, totalAttacks int) int {
	if totalAttacks <= 1 || attackNumber <= 1 {
		return 0
	}
	if attackNumber >= totalAttacks {
		return -5
	}
	return -2
}

// specializationBonuses returns the to-hit and damage bonuses for a
// specialization level
func specializationBonuses(level entities.SpecializationLevel) (hit, damage int) {
	switch level {
	case entities.DoubleSpecialized:
		return 2, 3
	case entities.Specialized:
		return 1, 2
	default:
		return 0, 0
	}
}
