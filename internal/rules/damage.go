package rules

import (
	"context"
	"fmt"
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/errors"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/roll"
)

// Damage expression for an unarmed strike
const unarmedDamage = "1d2"

// Death threshold: unfloored hit points at or below this mark the target dead
const deathThreshold = -10

// DamageRule computes and applies the damage of a resolved hit. Critical
// hits and charge/dive multipliers scale the dice component only; flat
// modifiers (strength, magic, specialization, mounted) are added afterwards.
// Applied damage on a recorded hit is never below 1.
type DamageRule struct {
	roller dice.Roller
}

// NewDamage creates the damage-calculation rule
func NewDamage(roller dice.Roller) *DamageRule {
	return &DamageRule{roller: roller}
}

// Name implements engine.Rule
func (r *DamageRule) Name() string {
	return RuleDamage
}

// Priority implements engine.Rule
func (r *DamageRule) Priority() int {
	return 20
}

// CanApply applies to attack commands
func (r *DamageRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandAttack
}

// Execute rolls, modifies, and applies damage for the current attack context
func (r *DamageRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	ac, ok := engine.Phase[*AttackContext](gctx, engine.PhaseAttack)
	if !ok {
		return engine.Fail(msgNoAttackContext), nil
	}
	if !ac.Resolved {
		return engine.Fail("attack roll not resolved"), nil
	}
	if !ac.Hit {
		return engine.Fail("attack missed"), nil
	}

	attacker, ok := combatant(gctx, ac.AttackerID)
	if !ok {
		return engine.Fail("attacker not found"), nil
	}
	target, ok := combatant(gctx, ac.TargetID)
	if !ok {
		return engine.Fail("target not found"), nil
	}

	expr := r.damageExpression(attacker, target, ac)
	rolled, err := roll.Eval(expr, r.roller)
	if err != nil {
		return nil, errors.Wrapf(err, "bad damage expression %q", expr)
	}

	dicePart := rolled.DiceTotal
	if mult, found := engine.Phase[*DamageMultiplier](gctx, engine.PhaseDamageMultiplier); found {
		dicePart = int(math.Floor(float64(dicePart) * mult.Multiplier))
		gctx.SetPhase(engine.PhaseDamageMultiplier, nil)
	}
	if ac.Critical {
		dicePart *= 2
	}

	flat := rolled.Modifier + r.flatModifiers(gctx, attacker, ac)

	total := dicePart + flat
	if total < 1 {
		total = 1
	}

	values := []int{total}
	if ac.AttackType == AttackSubdual {
		values = []int{total / 2, total - total/2}
	}

	result, err := r.apply(gctx, target, ac.AttackType, values)
	if err != nil {
		return nil, err
	}
	result.DiceComponent = dicePart
	result.FlatModifier = flat
	result.Critical = ac.Critical
	result.Message = r.describe(attacker, target, result)

	gctx.SetPhase(engine.PhaseDamageValues, values)
	gctx.SetPhase(engine.PhaseDamageResult, result)

	return engine.OK(result.Message).WithDamage(values...).WithData(result), nil
}

// damageExpression picks the dice expression for this swing: the weapon's
// (vs-large when it applies), the monster's natural attack, or unarmed.
func (r *DamageRule) damageExpression(attacker, target entities.Combatant, ac *AttackContext) string {
	if ac.Weapon != nil {
		return ac.Weapon.DamageFor(target.CreatureSize())
	}

	if m, ok := attacker.(*entities.Monster); ok && len(m.DamagePerAttack) > 0 {
		idx := ac.AttackNumber - 1
		if idx < 0 || idx >= len(m.DamagePerAttack) {
			idx = 0
		}
		return m.DamagePerAttack[idx]
	}

	return unarmedDamage
}

// flatModifiers sums the flat damage modifiers: strength for melee or
// unarmed swings, weapon magic, specialization, and mounted standing bonus.
func (r *DamageRule) flatModifiers(gctx *engine.Context, attacker entities.Combatant, ac *AttackContext) int {
	flat := 0

	if ch, ok := attacker.(*entities.Character); ok {
		if ac.Weapon == nil || ac.Weapon.Melee() {
			flat += ch.Abilities.DamageAdjustment()
		}
		if ac.Weapon != nil {
			if spec, found := ch.SpecializationFor(ac.Weapon.ID); found {
				_, dmg := specializationBonuses(spec.Level)
				flat += dmg
			}
		}
	}

	if ac.Weapon != nil {
		flat += ac.Weapon.MagicBonus
	}

	if mods, ok := engine.Phase[*MountedModifiers](gctx, engine.PhaseMountedModifiers); ok {
		flat += mods.DamageBonus
	}

	return flat
}

// apply mutates a clone of the target with the damage values and the status
// effects the new hit point total calls for. Subdual values must hold the
// lethal and non-lethal halves; anything shorter is a broken invariant.
func (r *DamageRule) apply(gctx *engine.Context, target entities.Combatant, attackType AttackType, values []int) (*DamageResult, error) {
	lethal := values[0]
	nonLethal := 0
	if attackType == AttackSubdual {
		if len(values) < 2 {
			return nil, errors.RuleValidationf("subdual damage requires lethal and non-lethal values, got %d", len(values))
		}
		nonLethal = values[1]
	}

	clone := target.CloneCombatant()
	raw := clone.CurrentHitPoints() - lethal

	result := &DamageResult{
		TargetID:  target.GetID(),
		Total:     lethal + nonLethal,
		Lethal:    lethal,
		NonLethal: nonLethal,
	}

	if raw <= deathThreshold {
		// Keep the negative total visible alongside the permanent status
		clone.SetHitPoints(raw)
		if !clone.HasStatus(entities.StatusDead) {
			clone.AddStatus(entities.StatusEffect{
				Name:     entities.StatusDead,
				Duration: entities.PermanentDuration,
			})
		}
		result.Dead = true
	} else {
		current := raw
		if current < 0 {
			current = 0
		}
		clone.SetHitPoints(current)

		if current == 0 {
			duration, err := roll.Die(r.roller, 6)
			if err != nil {
				return nil, err
			}
			if !clone.HasStatus(entities.StatusUnconscious) {
				clone.AddStatus(entities.StatusEffect{
					Name:     entities.StatusUnconscious,
					Duration: duration,
				})
			}
			if !clone.HasStatus(entities.StatusBleeding) {
				clone.AddStatus(entities.StatusEffect{
					Name:     entities.StatusBleeding,
					Duration: entities.PermanentDuration,
					Points:   1,
				})
			}
			result.Unconscious = true
		}

		if nonLethal > 0 {
			// Subdual pool recovers one point per hour
			clone.AddStatus(entities.StatusEffect{
				Name:     entities.StatusSubdued,
				Duration: nonLethal,
				Points:   nonLethal,
			})
		}
	}

	result.HitPointsLeft = clone.CurrentHitPoints()
	gctx.SetEntity(clone)
	return result, nil
}

func (r *DamageRule) describe(attacker, target entities.Combatant, result *DamageResult) string {
	msg := fmt.Sprintf("%s deals %d damage to %s", attacker.GetName(), result.Lethal, target.GetName())
	if result.NonLethal > 0 {
		msg = fmt.Sprintf("%s (%d subdual)", msg, result.NonLethal)
	}
	switch {
	case result.Dead:
		msg = fmt.Sprintf("%s; %s is slain", msg, target.GetName())
	case result.Unconscious:
		msg = fmt.Sprintf("%s; %s falls unconscious", msg, target.GetName())
	}
	return msg
}
