package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/adnd-engine/internal/engine"
	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// Rider encumbrance at or above this ratio forbids charging
const chargeEncumbranceLimit = 0.9

// Falling distance by mount size, in feet, for a flying dismount
var dismountFallDistance = map[entities.Size]int{
	entities.SizeSmall:      5,
	entities.SizeMedium:     10,
	entities.SizeLarge:      15,
	entities.SizeHuge:       20,
	entities.SizeGargantuan: 30,
}

// ChargeEligibilityRule gates a mounted charge: the mount must be
// unencumbered and above a quarter of its hit points, the rider must be the
// mount's recorded rider, and the rider must not be heavily encumbered. Each
// failure stops the chain with its own reason.
type ChargeEligibilityRule struct{}

// NewChargeEligibility creates the charge-eligibility rule
func NewChargeEligibility() *ChargeEligibilityRule {
	return &ChargeEligibilityRule{}
}

// Name implements engine.Rule
func (r *ChargeEligibilityRule) Name() string {
	return RuleChargeEligibility
}

// Priority implements engine.Rule
func (r *ChargeEligibilityRule) Priority() int {
	return 10
}

// CanApply applies to mounted-charge commands
func (r *ChargeEligibilityRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandMountedCharge
}

// Execute checks every charge precondition
func (r *ChargeEligibilityRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	mc, ok := engine.Phase[*MountedCombatContext](gctx, engine.PhaseMounted)
	if !ok {
		return engine.Fail("No mounted combat context found").Stop(), nil
	}
	m, ok := mount(gctx, mc.MountID)
	if !ok {
		return engine.Fail("mount not found").Stop(), nil
	}
	rider, ok := character(gctx, mc.RiderID)
	if !ok {
		return engine.Fail("rider not found").Stop(), nil
	}

	if m.Encumbered {
		return r.ineligible(gctx, "mount is encumbered and cannot charge"), nil
	}
	if !m.HealthyEnoughToCharge() {
		return r.ineligible(gctx, "mount is too injured to charge"), nil
	}
	if m.MountedBy != rider.GetID() {
		return r.ineligible(gctx, fmt.Sprintf("%s is not riding %s", rider.GetName(), m.Name)), nil
	}
	if rider.EncumbranceRatio() >= chargeEncumbranceLimit {
		return r.ineligible(gctx, fmt.Sprintf("%s is too heavily encumbered to charge", rider.GetName())), nil
	}

	return engine.OK("charge is eligible"), nil
}

// ineligible records the failed charge and stops the chain
func (r *ChargeEligibilityRule) ineligible(gctx *engine.Context, reason string) *engine.Result {
	gctx.SetPhase(engine.PhaseMountedCharge, &ChargeResult{Reason: reason})
	return engine.Fail(reason).Stop()
}

// ChargeResolutionRule resolves an eligible charge: the weapon sets the
// damage multiplier (lance doubles, spear gains half again) and the mount's
// movement rate becomes the movement bonus.
type ChargeResolutionRule struct{}

// NewChargeResolution creates the charge-resolution rule
func NewChargeResolution() *ChargeResolutionRule {
	return &ChargeResolutionRule{}
}

// Name implements engine.Rule
func (r *ChargeResolutionRule) Name() string {
	return RuleChargeResolution
}

// Priority implements engine.Rule
func (r *ChargeResolutionRule) Priority() int {
	return 20
}

// CanApply applies to mounted-charge commands
func (r *ChargeResolutionRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandMountedCharge
}

// Execute resolves the charge bonuses
func (r *ChargeResolutionRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	mc, ok := engine.Phase[*MountedCombatContext](gctx, engine.PhaseMounted)
	if !ok {
		return engine.Fail("No mounted combat context found"), nil
	}
	m, ok := mount(gctx, mc.MountID)
	if !ok {
		return engine.Fail("mount not found"), nil
	}

	result := &ChargeResult{
		Eligible:         true,
		DamageMultiplier: chargeMultiplier(mc.Weapon),
		MovementBonus:    m.MovementRate,
	}
	gctx.SetPhase(engine.PhaseMountedCharge, result)
	gctx.SetPhase(engine.PhaseDamageMultiplier, &DamageMultiplier{
		Multiplier: result.DamageMultiplier,
		Source:     "charge",
	})

	return engine.OK(fmt.Sprintf("charge at x%.1f damage, +%d movement",
		result.DamageMultiplier, result.MovementBonus)).WithData(result), nil
}

// chargeMultiplier returns the charge damage multiplier by weapon kind
func chargeMultiplier(weapon *entities.Weapon) float64 {
	if weapon == nil {
		return 1
	}
	name := strings.ToLower(weapon.Name)
	switch {
	case strings.Contains(name, "lance"):
		return 2
	case strings.Contains(name, "spear"):
		return 1.5
	default:
		return 1
	}
}

// MountedModifiersRule computes the standing (non-charge) mounted combat
// modifiers: height advantage, encumbrance drag, flying, and mount size.
type MountedModifiersRule struct{}

// NewMountedModifiers creates the mounted-modifiers rule
func NewMountedModifiers() *MountedModifiersRule {
	return &MountedModifiersRule{}
}

// Name implements engine.Rule
func (r *MountedModifiersRule) Name() string {
	return RuleMountedModifiers
}

// Priority implements engine.Rule
func (r *MountedModifiersRule) Priority() int {
	return 10
}

// CanApply applies to mounted-combat check commands
func (r *MountedModifiersRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandCheckMountedCombat
}

// Execute computes the standing mounted modifiers
func (r *MountedModifiersRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	mc, ok := engine.Phase[*MountedCombatContext](gctx, engine.PhaseMounted)
	if !ok {
		return engine.Fail("No mounted combat context found"), nil
	}
	m, ok := mount(gctx, mc.MountID)
	if !ok {
		return engine.Fail("mount not found"), nil
	}

	// Height advantage over foot opponents
	mods := &MountedModifiers{AttackBonus: 1}
	if m.Encumbered {
		mods.AttackBonus--
	}
	if m.Flying {
		mods.AttackBonus++
		mods.ArmorClassBonus++
	}
	switch m.Size {
	case entities.SizeLarge:
		mods.DamageBonus++
	case entities.SizeHuge:
		mods.DamageBonus += 2
		mods.ArmorClassBonus--
	case entities.SizeGargantuan:
		mods.DamageBonus += 3
		mods.ArmorClassBonus -= 2
	}

	gctx.SetPhase(engine.PhaseMountedModifiers, mods)
	return engine.OK(fmt.Sprintf("mounted: %+d attack, %+d damage, %+d armor class",
		mods.AttackBonus, mods.DamageBonus, mods.ArmorClassBonus)).WithData(mods), nil
}

// DismountRule takes the rider off the mount. A flying mount forces a
// falling-damage check at a height set by the mount's size.
type DismountRule struct{}

// NewDismount creates the dismount rule
func NewDismount() *DismountRule {
	return &DismountRule{}
}

// Name implements engine.Rule
func (r *DismountRule) Name() string {
	return RuleDismount
}

// Priority implements engine.Rule
func (r *DismountRule) Priority() int {
	return 10
}

// CanApply applies to dismount commands
func (r *DismountRule) CanApply(_ *engine.Context, cmd engine.Command) bool {
	return cmd.Type() == engine.CommandDismount
}

// Execute clears the rider back-reference and reports any falling check
func (r *DismountRule) Execute(_ context.Context, gctx *engine.Context, _ engine.Command) (*engine.Result, error) {
	mc, ok := engine.Phase[*MountedCombatContext](gctx, engine.PhaseMounted)
	if !ok {
		return engine.Fail("No mounted combat context found"), nil
	}
	m, ok := mount(gctx, mc.MountID)
	if !ok {
		return engine.Fail("mount not found"), nil
	}

	clone := m.Clone()
	clone.MountedBy = ""
	gctx.SetEntity(clone)

	result := &DismountResult{MountID: m.GetID()}
	if m.Flying {
		result.FallingCheckRequired = true
		result.FallingDistance = dismountFallDistance[m.Size]
	}

	msg := fmt.Sprintf("dismounted %s", m.Name)
	if result.FallingCheckRequired {
		msg = fmt.Sprintf("%s while flying: falling check from %d feet", msg, result.FallingDistance)
	}
	return engine.OK(msg).WithData(result), nil
}
