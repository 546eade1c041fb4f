package rules

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/pkg/roll"
)

// AttackRollRule resolves one swing of an attack: a d20 against the
// attacker's THAC0 minus the target's armor class, with sequence,
// specialization, mounted, two-weapon, dive, and weapon-vs-armor modifiers.
// A natural 20 always hits and is critical; a natural 1 always misses. The
// resolved roll is written back into the attack context for the damage rule.
type AttackRollRule struct {
	roller dice.Roller
}

// NewAttackRoll creates the attack-roll rule
func NewAttackRoll(roller dice.Roller) *AttackRollRule {
	return &AttackRollRule{roller: roller}
}

// Name implements engine.Rule
func (r *AttackRollRule) Name() string {
	return RuleAttackRoll
}

// Priority implements engine.Rule
func (r *AttackRollRule) Priority() int {
	return 10
}

// CanApply applies to attack commands
func (r *AttackRollRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandAttack
}

// Execute resolves the hit roll
func (r *AttackRollRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	ac, ok := engine.Phase[*AttackContext](gctx, engine.PhaseAttack)
	if !ok {
		return engine.Fail(msgNoAttackContext), nil
	}

	attacker, ok := combatant(gctx, ac.AttackerID)
	if !ok {
		return engine.Fail("attacker not found"), nil
	}
	target, ok := combatant(gctx, ac.TargetID)
	if !ok {
		return engine.Fail("target not found"), nil
	}

	natural, err := roll.Die(r.roller, 20)
	if err != nil {
		return nil, err
	}

	modifier := ac.CircumstanceModifier
	modifier += sequenceModifier(ac.AttackNumber, ac.TotalAttacks)
	modifier += WeaponVsArmorAdjustment(ac.Weapon, float64(target.BaseArmorClass()))
	modifier += r.attackerModifiers(gctx, attacker, ac)

	total := natural + modifier
	needed := attacker.BaseTHAC0() - target.BaseArmorClass()

	resolved := *ac
	resolved.Resolved = true
	resolved.Roll = natural
	resolved.AttackTotal = total
	resolved.Critical = natural == 20
	switch {
	case natural == 20:
		resolved.Hit = true
	case natural == 1:
		resolved.Hit = false
	default:
		resolved.Hit = total >= needed
	}
	gctx.SetPhase(engine.PhaseAttack, &resolved)

	if !resolved.Hit {
		return engine.OK(fmt.Sprintf("%s misses %s (%d vs %d needed)",
			attacker.GetName(), target.GetName(), total, needed)), nil
	}

	msg := fmt.Sprintf("%s hits %s (%d vs %d needed)", attacker.GetName(), target.GetName(), total, needed)
	if resolved.Critical {
		msg = fmt.Sprintf("%s critically hits %s", attacker.GetName(), target.GetName())
	}
	return engine.OK(msg).WithData(&resolved), nil
}

// attackerModifiers sums the attacker-side to-hit modifiers: strength for
// melee swings, specialization, and any mounted, two-weapon, or dive
// results earlier rules left in the context.
func (r *AttackRollRule) attackerModifiers(gctx *engine.Context, attacker entities.Combatant, ac *AttackContext) int {
	modifier := 0

	if ch, ok := attacker.(*entities.Character); ok {
		if ac.Weapon == nil || ac.Weapon.Melee() {
			modifier += ch.Abilities.HitAdjustment()
		}
		if ac.Weapon != nil {
			if spec, found := ch.SpecializationFor(ac.Weapon.ID); found {
				hit, _ := specializationBonuses(spec.Level)
				modifier += hit
			}
		}
	}

	if ac.Weapon != nil {
		modifier += ac.Weapon.MagicBonus
	}

	if mods, ok := engine.Phase[*MountedModifiers](gctx, engine.PhaseMountedModifiers); ok {
		modifier += mods.AttackBonus
	}
	if tw, ok := engine.Phase[*TwoWeaponResult](gctx, engine.PhaseTwoWeaponResult); ok {
		if ac.OffHand {
			modifier += tw.OffhandPenalty
		} else {
			modifier += tw.MainPenalty
		}
	}
	if aerial, ok := engine.Phase[*AerialResult](gctx, engine.PhaseAerialResult); ok {
		modifier += aerial.AttackBonus
	}

	return modifier
}
