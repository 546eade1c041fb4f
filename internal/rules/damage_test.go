package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/testutils"
)

// resolvedHit stores a pre-resolved hit in the context
func resolvedHit(gctx *engine.Context, ac AttackContext) {
	ac.Resolved = true
	ac.Hit = true
	gctx.SetPhase(engine.PhaseAttack, &ac)
}

// runDamage executes the damage rule with scripted dice and returns the
// damage result
func runDamage(t *testing.T, gctx *engine.Context, dice ...int) *DamageResult {
	t.Helper()

	rule := NewDamage(testutils.NewScriptedRoller(dice...))
	result, err := rule.Execute(context.Background(), gctx, command(engine.CommandAttack))
	require.NoError(t, err)
	require.True(t, result.Success, result.Message)

	dr, ok := engine.Phase[*DamageResult](gctx, engine.PhaseDamageResult)
	require.True(t, ok)
	return dr
}

func TestDamageRule(t *testing.T) {
	t.Run("fighter with longsword spans two to nine", func(t *testing.T) {
		// Strength 16 adds one flat point to the 1d8
		for roll, want := range map[int]int{1: 2, 8: 9} {
			fighter := testutils.CreateTestFighter("fighter-1")
			orc := testutils.CreateTestOrc("orc-1")
			gctx := testContext(fighter, orc)
			resolvedHit(gctx, AttackContext{
				AttackerID: "fighter-1",
				TargetID:   "orc-1",
				Weapon:     testutils.CreateTestLongSword(),
			})
			// The high roll drops the orc to 0, which consumes a d6 duration
			dr := runDamage(t, gctx, roll, 1)
			assert.Equal(t, want, dr.Total)
		}
	})

	t.Run("plus-one weapon spans three to ten", func(t *testing.T) {
		for roll, want := range map[int]int{1: 3, 8: 10} {
			fighter := testutils.CreateTestFighter("fighter-1")
			orc := testutils.CreateTestOrc("orc-1")
			sword := testutils.CreateTestLongSword()
			sword.MagicBonus = 1
			gctx := testContext(fighter, orc)
			resolvedHit(gctx, AttackContext{
				AttackerID: "fighter-1",
				TargetID:   "orc-1",
				Weapon:     sword,
			})
			// The high roll drops the orc to 0, which consumes a d6 duration
			dr := runDamage(t, gctx, roll, 1)
			assert.Equal(t, want, dr.Total)
		}
	})

	t.Run("unarmed spans two to three", func(t *testing.T) {
		for roll, want := range map[int]int{1: 2, 2: 3} {
			fighter := testutils.CreateTestFighter("fighter-1")
			orc := testutils.CreateTestOrc("orc-1")
			gctx := testContext(fighter, orc)
			resolvedHit(gctx, AttackContext{AttackerID: "fighter-1", TargetID: "orc-1"})
			dr := runDamage(t, gctx, roll)
			assert.Equal(t, want, dr.Total)
		}
	})

	t.Run("weak attacker never deals less than one", func(t *testing.T) {
		for _, roll := range []int{1, 2} {
			weakling := testutils.CreateTestFighter("weak-1")
			weakling.Abilities.Strength = 2
			orc := testutils.CreateTestOrc("orc-1")
			gctx := testContext(weakling, orc)
			resolvedHit(gctx, AttackContext{
				AttackerID: "weak-1",
				TargetID:   "orc-1",
				Weapon: &entities.Weapon{
					ID: "cudgel", Name: "Cudgel", Damage: "1d2",
					Type: entities.WeaponMelee, Size: entities.SizeSmall,
				},
			})
			dr := runDamage(t, gctx, roll)
			assert.Equal(t, 1, dr.Total, "clamped at one")
		}
	})

	t.Run("critical doubles dice only", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1")
		gctx := testContext(fighter, orc)
		ac := AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "orc-1",
			Weapon:     testutils.CreateTestLongSword(),
		}
		ac.Critical = true
		resolvedHit(gctx, ac)

		// 11 damage drops the orc to 0, which consumes a d6 duration
		dr := runDamage(t, gctx, 5, 1)
		assert.Equal(t, 10, dr.DiceComponent, "2 x 5, flat excluded")
		assert.Equal(t, 1, dr.FlatModifier)
		assert.Equal(t, 11, dr.Total)
		assert.True(t, dr.Critical)
	})

	t.Run("charge multiplier scales dice then clears", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1")
		gctx := testContext(fighter, orc)
		gctx.SetPhase(engine.PhaseDamageMultiplier, &DamageMultiplier{Multiplier: 2, Source: "charge"})
		resolvedHit(gctx, AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "orc-1",
			Weapon:     testutils.CreateTestLongSword(),
		})

		// 9 damage drops the orc to 0, which consumes a d6 duration
		dr := runDamage(t, gctx, 4, 1)
		assert.Equal(t, 8, dr.DiceComponent)
		assert.Equal(t, 9, dr.Total)

		_, still := engine.Phase[*DamageMultiplier](gctx, engine.PhaseDamageMultiplier)
		assert.False(t, still, "multiplier is consumed")
	})

	t.Run("fractional multiplier floors the dice", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1")
		gctx := testContext(fighter, orc)
		gctx.SetPhase(engine.PhaseDamageMultiplier, &DamageMultiplier{Multiplier: 1.5, Source: "charge"})
		resolvedHit(gctx, AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "orc-1",
			Weapon:     testutils.CreateTestLongSword(),
		})

		// 8 damage drops the orc to 0, which consumes a d6 duration
		dr := runDamage(t, gctx, 5, 1)
		assert.Equal(t, 7, dr.DiceComponent, "floor(5 x 1.5)")
	})

	t.Run("subdual splits lethal and non-lethal", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1")
		gctx := testContext(fighter, orc)
		resolvedHit(gctx, AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "orc-1",
			AttackType: AttackSubdual,
		})

		// 1d2 unarmed roll 2 plus strength = 3: floor/ceil split
		dr := runDamage(t, gctx, 2)
		assert.Equal(t, 1, dr.Lethal)
		assert.Equal(t, 2, dr.NonLethal)
		assert.Equal(t, 3, dr.Total)

		target, ok := gctx.Entity("orc-1")
		require.True(t, ok)
		updated := target.(*entities.Monster)
		assert.Equal(t, 6, updated.CurrentHitPoints(), "only the lethal half applies")
		assert.True(t, updated.HasStatus(entities.StatusSubdued))
	})

	t.Run("zero hit points means unconscious and bleeding", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1") // 7 hp
		gctx := testContext(fighter, orc)
		resolvedHit(gctx, AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "orc-1",
			Weapon:     testutils.CreateTestLongSword(),
		})

		// 6 + 1 strength = exactly 7; the 1d6 after is the unconscious duration
		dr := runDamage(t, gctx, 6, 3)
		assert.True(t, dr.Unconscious)
		assert.False(t, dr.Dead)
		assert.Equal(t, 0, dr.HitPointsLeft)

		target, _ := gctx.Entity("orc-1")
		updated := target.(*entities.Monster)
		assert.True(t, updated.HasStatus(entities.StatusUnconscious))
		assert.True(t, updated.HasStatus(entities.StatusBleeding))
	})

	t.Run("ten below zero is death with negative total kept", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1") // 7 hp
		gctx := testContext(fighter, orc)
		ac := AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "orc-1",
			Weapon:     testutils.CreateTestLongSword(),
		}
		ac.Critical = true
		resolvedHit(gctx, ac)

		// Critical 2x8 + 1 strength = 17: 7 - 17 = -10
		dr := runDamage(t, gctx, 8)
		assert.True(t, dr.Dead)
		assert.False(t, dr.Unconscious)
		assert.Equal(t, -10, dr.HitPointsLeft)

		target, _ := gctx.Entity("orc-1")
		updated := target.(*entities.Monster)
		assert.True(t, updated.HasStatus(entities.StatusDead))
		assert.False(t, updated.HasStatus(entities.StatusBleeding))
	})

	t.Run("a hit on a mount wounds it", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		horse := testutils.CreateTestWarhorse("horse-1", "") // 20 hp
		gctx := testContext(fighter, horse)
		resolvedHit(gctx, AttackContext{
			AttackerID: "fighter-1",
			TargetID:   "horse-1",
			Weapon:     testutils.CreateTestLongSword(),
		})

		dr := runDamage(t, gctx, 5)
		assert.Equal(t, 6, dr.Total, "5 plus strength 1")
		assert.Equal(t, 14, dr.HitPointsLeft)

		target, ok := gctx.Entity("horse-1")
		require.True(t, ok)
		assert.Equal(t, 14, target.(*entities.Mount).CurrentHitPoints())
	})

	t.Run("monster uses its natural attack expression", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1")
		gctx := testContext(fighter, orc)
		resolvedHit(gctx, AttackContext{AttackerID: "orc-1", TargetID: "fighter-1"})

		// Orc 1d8 with no ability adjustments
		dr := runDamage(t, gctx, 5)
		assert.Equal(t, 5, dr.Total)
	})

	t.Run("expected failures", func(t *testing.T) {
		fighter := testutils.CreateTestFighter("fighter-1")
		orc := testutils.CreateTestOrc("orc-1")
		rule := NewDamage(testutils.NewScriptedRoller())

		gctx := testContext(fighter, orc)
		result, err := rule.Execute(context.Background(), gctx, command(engine.CommandAttack))
		require.NoError(t, err)
		assert.False(t, result.Success)

		gctx.SetPhase(engine.PhaseAttack, &AttackContext{AttackerID: "fighter-1", TargetID: "orc-1"})
		result, err = rule.Execute(context.Background(), gctx, command(engine.CommandAttack))
		require.NoError(t, err)
		assert.False(t, result.Success, "unresolved roll")

		resolved := &AttackContext{AttackerID: "fighter-1", TargetID: "orc-1", Resolved: true, Hit: false}
		gctx.SetPhase(engine.PhaseAttack, resolved)
		result, err = rule.Execute(context.Background(), gctx, command(engine.CommandAttack))
		require.NoError(t, err)
		assert.False(t, result.Success, "missed attack deals no damage")
	})
}
