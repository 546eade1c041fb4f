package rules

import (
	"context"
	"fmt"
	"math"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// MultiAttackRule computes the attack schedule for one round: how many
// swings the attacker gets and the to-hit modifier for each. Warriors gain
// fractional attack rates by level tier, banked across rounds in the
// character's carry; monsters attack once per natural attack form; warriors
// facing creatures of less than one hit die attack once per level.
type MultiAttackRule struct{}

// NewMultiAttack creates the multiple-attack rule
func NewMultiAttack() *MultiAttackRule {
	return &MultiAttackRule{}
}

// Name implements engine.Rule
func (r *MultiAttackRule) Name() string {
	return RuleMultiAttack
}

// Priority implements engine.Rule
func (r *MultiAttackRule) Priority() int {
	return 10
}

// CanApply applies to multi-attack check commands
func (r *MultiAttackRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandCheckMultiAttack
}

// Execute computes the round's attack sequence
func (r *MultiAttackRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	ac, ok := engine.Phase[*AttackContext](gctx, engine.PhaseAttack)
	if !ok {
		return engine.Fail(msgNoAttackContext), nil
	}
	attacker, ok := combatant(gctx, ac.AttackerID)
	if !ok {
		return engine.Fail("attacker not found"), nil
	}

	seq := &AttackSequence{}
	switch a := attacker.(type) {
	case *entities.Monster:
		seq.Attacks = len(a.DamagePerAttack)
		if seq.Attacks == 0 {
			seq.Attacks = 1
		}
		seq.Rate = float64(seq.Attacks)

	case *entities.Character:
		if swarm, count := r.sweepAttacks(gctx, a, ac); swarm {
			seq.Attacks = count
			seq.Rate = float64(count)
			break
		}

		rate := r.attackRate(a, ac.Weapon)
		carry := rate - math.Floor(rate)
		if a.AttackCarry != nil {
			carry = *a.AttackCarry
		}

		pool := rate + carry
		seq.Attacks = int(math.Floor(pool))
		seq.Rate = rate
		seq.Carry = pool - float64(seq.Attacks)

		clone := a.Clone()
		remaining := seq.Carry
		clone.AttackCarry = &remaining
		gctx.SetEntity(clone)

	default:
		seq.Attacks = 1
		seq.Rate = 1
	}

	seq.Modifiers = make([]int, seq.Attacks)
	for i := range seq.Modifiers {
		seq.Modifiers[i] = sequenceModifier(i+1, seq.Attacks)
	}

	gctx.SetPhase(engine.PhaseAttackSequence, seq)
	return engine.OK(fmt.Sprintf("%s attacks %d time(s) this round",
		attacker.GetName(), seq.Attacks)).WithData(seq), nil
}

// sweepAttacks grants a warrior one attack per level against creatures of
// less than one hit die
func (r *MultiAttackRule) sweepAttacks(gctx *engine.Context, ch *entities.Character, ac *AttackContext) (bool, int) {
	if !ch.Class.FighterFamily() || ac.TargetID == "" {
		return false, 0
	}
	target, ok := gctx.Entity(ac.TargetID)
	if !ok {
		return false, 0
	}
	m, ok := target.(*entities.Monster)
	if !ok || !m.LessThanOneHitDie() {
		return false, 0
	}
	return true, ch.Level
}

// attackRate returns attacks per round for a character: warrior level tiers,
// lifted one tier's worth by weapon specialization.
func (r *MultiAttackRule) attackRate(ch *entities.Character, weapon *entities.Weapon) float64 {
	if !ch.Class.FighterFamily() {
		return 1
	}

	rate := 1.0
	switch {
	case ch.Level >= 13:
		rate = 2
	case ch.Level >= 7:
		rate = 1.5
	}

	if weapon == nil {
		return rate
	}
	spec, found := ch.SpecializationFor(weapon.ID)
	if !found {
		return rate
	}
	switch spec.Level {
	case entities.DoubleSpecialized:
		return rate + 1
	case entities.Specialized:
		return rate + 0.5
	}
	return rate
}
