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

func mountedContext(gctx *engine.Context, riderID, mountID string, weapon *entities.Weapon) {
	gctx.SetPhase(engine.PhaseMounted, &MountedCombatContext{
		RiderID:  riderID,
		MountID:  mountID,
		Weapon:   weapon,
		Charging: true,
	})
}

func TestChargeEligibilityRule(t *testing.T) {
	rule := NewChargeEligibility()

	run := func(t *testing.T, gctx *engine.Context) *engine.Result {
		t.Helper()
		result, err := rule.Execute(context.Background(), gctx, command(engine.CommandMountedCharge))
		require.NoError(t, err)
		return result
	}

	ineligible := func(t *testing.T, gctx *engine.Context, result *engine.Result) string {
		t.Helper()
		assert.False(t, result.Success)
		assert.True(t, result.StopChain, "an ineligible charge stops the chain")

		cr, ok := engine.Phase[*ChargeResult](gctx, engine.PhaseMountedCharge)
		require.True(t, ok)
		assert.False(t, cr.Eligible)
		assert.Equal(t, result.Message, cr.Reason)
		return cr.Reason
	}

	t.Run("healthy mount and rider pass", func(t *testing.T) {
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", testutils.CreateTestLance())

		result := run(t, gctx)
		assert.True(t, result.Success, result.Message)
		assert.False(t, result.StopChain)
	})

	t.Run("encumbered mount cannot charge", func(t *testing.T) {
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		horse.Encumbered = true
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", testutils.CreateTestLance())

		reason := ineligible(t, gctx, run(t, gctx))
		assert.Contains(t, reason, "encumbered")
	})

	t.Run("injured mount cannot charge", func(t *testing.T) {
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		horse.HitPoints.Current = 4 // 20 percent of 20
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", testutils.CreateTestLance())

		reason := ineligible(t, gctx, run(t, gctx))
		assert.Contains(t, reason, "injured")
	})

	t.Run("stranger in the saddle cannot charge", func(t *testing.T) {
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "someone-else")
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", testutils.CreateTestLance())

		reason := ineligible(t, gctx, run(t, gctx))
		assert.Contains(t, reason, "not riding")
	})

	t.Run("heavily encumbered rider cannot charge", func(t *testing.T) {
		rider := testutils.CreateTestFighter("rider-1")
		rider.CarriedWeight = 95 // capacity 100
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", testutils.CreateTestLance())

		reason := ineligible(t, gctx, run(t, gctx))
		assert.Contains(t, reason, "heavily encumbered")
	})

	t.Run("missing context stops the chain", func(t *testing.T) {
		result := run(t, testContext())
		assert.False(t, result.Success)
		assert.True(t, result.StopChain)
	})
}

func TestChargeResolutionRule(t *testing.T) {
	rule := NewChargeResolution()

	resolve := func(t *testing.T, weapon *entities.Weapon) (*engine.Context, *ChargeResult) {
		t.Helper()
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", weapon)

		result, err := rule.Execute(context.Background(), gctx, command(engine.CommandMountedCharge))
		require.NoError(t, err)
		require.True(t, result.Success, result.Message)

		cr, ok := engine.Phase[*ChargeResult](gctx, engine.PhaseMountedCharge)
		require.True(t, ok)
		return gctx, cr
	}

	t.Run("lance doubles damage", func(t *testing.T) {
		gctx, cr := resolve(t, testutils.CreateTestLance())
		assert.True(t, cr.Eligible)
		assert.Equal(t, 2.0, cr.DamageMultiplier)
		assert.Equal(t, 15, cr.MovementBonus, "warhorse movement rate")

		mult, ok := engine.Phase[*DamageMultiplier](gctx, engine.PhaseDamageMultiplier)
		require.True(t, ok, "charge arms the damage multiplier")
		assert.Equal(t, 2.0, mult.Multiplier)
		assert.Equal(t, "charge", mult.Source)
	})

	t.Run("spear gains half again", func(t *testing.T) {
		spear := &entities.Weapon{ID: "spear", Name: "Spear", Damage: "1d6",
			Type: entities.WeaponMelee, Size: entities.SizeMedium}
		_, cr := resolve(t, spear)
		assert.Equal(t, 1.5, cr.DamageMultiplier)
	})

	t.Run("other weapons charge at full speed but flat damage", func(t *testing.T) {
		_, cr := resolve(t, testutils.CreateTestLongSword())
		assert.Equal(t, 1.0, cr.DamageMultiplier)
		assert.Equal(t, 15, cr.MovementBonus)
	})
}

func TestMountedModifiersRule(t *testing.T) {
	rule := NewMountedModifiers()

	modifiers := func(t *testing.T, shape func(*entities.Mount)) *MountedModifiers {
		t.Helper()
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		if shape != nil {
			shape(horse)
		}
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", nil)

		result, err := rule.Execute(context.Background(), gctx, command(engine.CommandCheckMountedCombat))
		require.NoError(t, err)
		require.True(t, result.Success, result.Message)

		mods, ok := engine.Phase[*MountedModifiers](gctx, engine.PhaseMountedModifiers)
		require.True(t, ok)
		return mods
	}

	t.Run("height advantage on a large mount", func(t *testing.T) {
		mods := modifiers(t, nil)
		assert.Equal(t, 1, mods.AttackBonus)
		assert.Equal(t, 1, mods.DamageBonus, "large mount")
		assert.Equal(t, 0, mods.ArmorClassBonus)
	})

	t.Run("encumbrance cancels the height advantage", func(t *testing.T) {
		mods := modifiers(t, func(m *entities.Mount) { m.Encumbered = true })
		assert.Equal(t, 0, mods.AttackBonus)
	})

	t.Run("flying mount helps attack and armor", func(t *testing.T) {
		mods := modifiers(t, func(m *entities.Mount) { m.Flying = true })
		assert.Equal(t, 2, mods.AttackBonus)
		assert.Equal(t, 1, mods.ArmorClassBonus)
	})

	t.Run("huge mount trades armor for damage", func(t *testing.T) {
		mods := modifiers(t, func(m *entities.Mount) { m.Size = entities.SizeHuge })
		assert.Equal(t, 2, mods.DamageBonus)
		assert.Equal(t, -1, mods.ArmorClassBonus)
	})

	t.Run("gargantuan mount even more so", func(t *testing.T) {
		mods := modifiers(t, func(m *entities.Mount) { m.Size = entities.SizeGargantuan })
		assert.Equal(t, 3, mods.DamageBonus)
		assert.Equal(t, -2, mods.ArmorClassBonus)
	})
}

func TestDismountRule(t *testing.T) {
	rule := NewDismount()

	dismount := func(t *testing.T, shape func(*entities.Mount)) (*engine.Context, *DismountResult) {
		t.Helper()
		rider := testutils.CreateTestFighter("rider-1")
		horse := testutils.CreateTestWarhorse("horse-1", "rider-1")
		if shape != nil {
			shape(horse)
		}
		gctx := testContext(rider, horse)
		mountedContext(gctx, "rider-1", "horse-1", nil)

		result, err := rule.Execute(context.Background(), gctx, command(engine.CommandDismount))
		require.NoError(t, err)
		require.True(t, result.Success, result.Message)

		dr, ok := result.Data.(*DismountResult)
		require.True(t, ok)
		return gctx, dr
	}

	t.Run("clears the rider back-reference", func(t *testing.T) {
		gctx, dr := dismount(t, nil)
		assert.Equal(t, "horse-1", dr.MountID)
		assert.False(t, dr.FallingCheckRequired)

		e, ok := gctx.Entity("horse-1")
		require.True(t, ok)
		assert.Empty(t, e.(*entities.Mount).MountedBy)
	})

	t.Run("flying dismount forces a falling check", func(t *testing.T) {
		_, dr := dismount(t, func(m *entities.Mount) { m.Flying = true })
		assert.True(t, dr.FallingCheckRequired)
		assert.Equal(t, 15, dr.FallingDistance, "large mount falls from fifteen feet")
	})

	t.Run("fall height scales with mount size", func(t *testing.T) {
		for size, want := range map[entities.Size]int{
			entities.SizeSmall:      5,
			entities.SizeMedium:     10,
			entities.SizeHuge:       20,
			entities.SizeGargantuan: 30,
		} {
			_, dr := dismount(t, func(m *entities.Mount) {
				m.Flying = true
				m.Size = size
			})
			assert.Equal(t, want, dr.FallingDistance, "size %s", size)
		}
	})

	t.Run("missing context is an expected failure", func(t *testing.T) {
		result, err := rule.Execute(context.Background(), testContext(), command(engine.CommandDismount))
		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}
