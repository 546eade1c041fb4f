package rules

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
)

// Dive attack thresholds and bonuses
const (
	diveMinimumDistance  = 30
	diveDamageMultiplier = 2.0
	diveAttackBonus      = 2
)

// DiveAttackRule grants a flying attacker a dive bonus: a dive of at least
// 30 feet doubles the damage dice and adds +2 to hit. Shallower dives are
// an expected failure, not an error.
type DiveAttackRule struct{}

// NewDiveAttack creates the dive-attack rule
func NewDiveAttack() *DiveAttackRule {
	return &DiveAttackRule{}
}

// Name implements engine.Rule
func (r *DiveAttackRule) Name() string {
	return RuleDiveAttack
}

// Priority implements engine.Rule
func (r *DiveAttackRule) Priority() int {
	return 10
}

// CanApply applies to aerial check commands
func (r *DiveAttackRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandCheckAerial
}

// Execute checks the dive and records its bonuses
func (r *DiveAttackRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	ac, ok := engine.Phase[*AerialContext](gctx, engine.PhaseAerial)
	if !ok {
		return engine.Fail("No aerial context found"), nil
	}
	if !ac.Flying {
		return engine.Fail("attacker is not flying"), nil
	}
	if ac.DiveDistance < diveMinimumDistance {
		return engine.Fail(fmt.Sprintf("dive of %d feet is too shallow (%d required)",
			ac.DiveDistance, diveMinimumDistance)), nil
	}

	result := &AerialResult{
		DamageMultiplier: diveDamageMultiplier,
		AttackBonus:      diveAttackBonus,
	}
	gctx.SetPhase(engine.PhaseAerialResult, result)
	gctx.SetPhase(engine.PhaseDamageMultiplier, &DamageMultiplier{
		Multiplier: diveDamageMultiplier,
		Source:     "dive",
	})

	return engine.OK(fmt.Sprintf("dive attack from %d feet: x2 damage dice, +%d to hit",
		ac.DiveDistance, diveAttackBonus)).WithData(result), nil
}
