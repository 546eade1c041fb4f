package rules

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
)

// SpecializationRule reports a character's standing with one exact weapon:
// the to-hit and damage bonuses plus the attacks-per-round tier the
// specialization grants.
type SpecializationRule struct{}

// NewSpecialization creates the weapon-specialization rule
func NewSpecialization() *SpecializationRule {
	return &SpecializationRule{}
}

// Name implements engine.Rule
func (r *SpecializationRule) Name() string {
	return RuleSpecialization
}

// Priority implements engine.Rule
func (r *SpecializationRule) Priority() int {
	return 10
}

// CanApply applies to specialization check commands
func (r *SpecializationRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandCheckSpecialization
}

// Execute looks up the character's specialization for the weapon
func (r *SpecializationRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	sc, ok := engine.Phase[*SpecializationContext](gctx, engine.PhaseSpecialization)
	if !ok {
		return engine.Fail("No specialization context found"), nil
	}
	if sc.Weapon == nil {
		return engine.Fail("no weapon to check specialization for"), nil
	}
	ch, ok := character(gctx, sc.AttackerID)
	if !ok {
		return engine.Fail("attacker not found or cannot specialize"), nil
	}

	spec, found := ch.SpecializationFor(sc.Weapon.ID)
	if !found {
		return engine.Fail(fmt.Sprintf("%s is not specialized in %s", ch.GetName(), sc.Weapon.Name)), nil
	}

	hit, dmg := specializationBonuses(spec.Level)
	result := &SpecializationResult{
		Level:           spec.Level,
		HitBonus:        hit,
		DamageBonus:     dmg,
		AttacksPerRound: (&MultiAttackRule{}).attackRate(ch, sc.Weapon),
	}

	return engine.OK(fmt.Sprintf("%s is %s with %s: %+d hit, %+d damage",
		ch.GetName(), spec.Level, sc.Weapon.Name, hit, dmg)).WithData(result), nil
}
