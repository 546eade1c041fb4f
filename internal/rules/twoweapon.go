package rules

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// Base two-weapon penalties before the dexterity reaction adjustment
const (
	twoWeaponMainPenalty    = -2
	twoWeaponOffhandPenalty = -4
)

var sizeRank = map[entities.Size]int{
	entities.SizeSmall:      1,
	entities.SizeMedium:     2,
	entities.SizeLarge:      3,
	entities.SizeHuge:       4,
	entities.SizeGargantuan: 5,
}

// TwoWeaponRule checks a two-weapon fighting stance: the off-hand weapon
// must be smaller than the main weapon and neither may be two-handed. The
// base -2/-4 penalties improve by the attacker's dexterity reaction
// adjustment toward 0, never past it, and the stance grants one extra
// off-hand attack per round.
type TwoWeaponRule struct{}

// NewTwoWeapon creates the two-weapon-fighting rule
func NewTwoWeapon() *TwoWeaponRule {
	return &TwoWeaponRule{}
}

// Name implements engine.Rule
func (r *TwoWeaponRule) Name() string {
	return RuleTwoWeapon
}

// Priority implements engine.Rule
func (r *TwoWeaponRule) Priority() int {
	return 10
}

// CanApply applies to two-weapon check commands
func (r *TwoWeaponRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandCheckTwoWeapon
}

// Execute validates the stance and computes the penalties
func (r *TwoWeaponRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	tc, ok := engine.Phase[*TwoWeaponContext](gctx, engine.PhaseTwoWeapon)
	if !ok {
		return engine.Fail("No two-weapon context found"), nil
	}
	if tc.MainWeapon == nil || tc.OffhandWeapon == nil {
		return engine.Fail("two-weapon fighting requires a weapon in each hand"), nil
	}
	if tc.MainWeapon.TwoHanded || tc.OffhandWeapon.TwoHanded {
		return engine.Fail("cannot fight with two weapons while wielding a two-handed weapon"), nil
	}
	if sizeRank[tc.OffhandWeapon.Size] >= sizeRank[tc.MainWeapon.Size] {
		return engine.Fail("off-hand weapon must be smaller than the main weapon"), nil
	}

	reaction := 0
	if ch, ok := character(gctx, tc.AttackerID); ok {
		reaction = ch.Abilities.ReactionAdjustment()
	}

	result := &TwoWeaponResult{
		MainPenalty:    reducePenalty(twoWeaponMainPenalty, reaction),
		OffhandPenalty: reducePenalty(twoWeaponOffhandPenalty, reaction),
		ExtraAttacks:   1,
	}
	gctx.SetPhase(engine.PhaseTwoWeaponResult, result)

	return engine.OK(fmt.Sprintf("two-weapon fighting: %d main, %d off-hand, %d extra attack",
		result.MainPenalty, result.OffhandPenalty, result.ExtraAttacks)).WithData(result), nil
}

// reducePenalty improves a negative penalty by the reaction adjustment,
// never past zero
func reducePenalty(penalty, reaction int) int {
	if reaction <= 0 {
		return penalty
	}
	penalty += reaction
	if penalty > 0 {
		return 0
	}
	return penalty
}
