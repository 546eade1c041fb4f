// Package rules implements the combat rule families: attack resolution,
// damage calculation, initiative, multiple attacks, mounted combat,
// two-weapon fighting, weapon specialization, and aerial dive attacks.
// Rules communicate only through phase records in the resolution context.
package rules

import (
	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// AttackType distinguishes normal from subdual attacks
type AttackType string

// Attack types
const (
	AttackNormal  AttackType = "normal"
	AttackSubdual AttackType = "subdual"
)

// AttackContext is created by the caller before an attack command and
// carries the resolved hit roll after the attack-roll rule runs. Stored
// under engine.PhaseAttack.
type AttackContext struct {
	AttackerID string
	TargetID   string
	Weapon     *entities.Weapon
	AttackType AttackType

	// CircumstanceModifier is a caller-supplied situational attack modifier
	CircumstanceModifier int

	// AttackNumber and TotalAttacks place this swing in the round's
	// multi-attack sequence (1-based)
	AttackNumber int
	TotalAttacks int

	// OffHand marks the off-hand swing of a two-weapon sequence
	OffHand bool

	// Filled in by the attack-roll rule
	Resolved    bool
	Roll        int
	AttackTotal int
	Hit         bool
	Critical    bool
}

// AttackSequence is the multi-attack rule's schedule for one round.
// Stored under engine.PhaseAttackSequence.
type AttackSequence struct {
	Attacks   int
	Modifiers []int
	Rate      float64
	Carry     float64
}

// DamageMultiplier scales the dice component of the next damage roll.
// Stored under engine.PhaseDamageMultiplier; consumed and cleared by the
// damage rule.
type DamageMultiplier struct {
	Multiplier float64
	Source     string
}

// DamageResult summarizes one damage application. Stored under
// engine.PhaseDamageResult.
type DamageResult struct {
	TargetID      string
	Total         int
	DiceComponent int
	FlatModifier  int
	Critical      bool
	Lethal        int
	NonLethal     int
	HitPointsLeft int
	Unconscious   bool
	Dead          bool
	Message       string
}

// InitiativeMode selects individual or group initiative
type InitiativeMode string

// Initiative modes
const (
	InitiativeIndividual InitiativeMode = "individual"
	InitiativeGroup      InitiativeMode = "group"
)

// InitiativeParticipant is one entity entering the initiative roll
type InitiativeParticipant struct {
	EntityID string
	Side     string

	// CircumstanceModifier is a per-entity situational initiative modifier
	CircumstanceModifier int

	Weapon       *entities.Weapon
	CastingSpell *entities.Spell
}

// InitiativeContext is created by the caller before an initiative command.
// FirstRound gates the surprise check; round numbering itself is the
// caller's concern. Stored under engine.PhaseInitiative.
type InitiativeContext struct {
	Mode         InitiativeMode
	FirstRound   bool
	Participants []InitiativeParticipant
}

// InitiativeResult is one participant's computed initiative. Lower acts
// sooner; ties break on ascending speed factor.
type InitiativeResult struct {
	EntityID    string
	Side        string
	Roll        int
	SpeedFactor int
	Initiative  int
	Surprised   bool
}

// InitiativeResults is the sorted roll outcome plus surprise bookkeeping.
// Stored under engine.PhaseInitiativeResults.
type InitiativeResults struct {
	Results        []InitiativeResult
	SurprisedSides []string
}

// InitiativeOrder is the externally-consumed turn order. Stored under
// engine.PhaseInitiativeOrder.
type InitiativeOrder struct {
	Active    []InitiativeResult
	Surprised []InitiativeResult
}

// MountedCombatContext is created by the caller before mounted commands.
// Stored under engine.PhaseMounted.
type MountedCombatContext struct {
	RiderID  string
	MountID  string
	Weapon   *entities.Weapon
	Charging bool
}

// ChargeResult is the charge resolution outcome. Stored under
// engine.PhaseMountedCharge.
type ChargeResult struct {
	Eligible         bool
	Reason           string
	DamageMultiplier float64
	MovementBonus    int
}

// MountedModifiers are the standing (non-charge) mounted combat modifiers.
// ArmorClassBonus is an improvement: positive lowers the rider's effective
// armor class. Stored under engine.PhaseMountedModifiers.
type MountedModifiers struct {
	AttackBonus     int
	DamageBonus     int
	ArmorClassBonus int
}

// DismountResult reports the dismount outcome
type DismountResult struct {
	MountID              string
	FallingCheckRequired bool
	FallingDistance      int
}

// TwoWeaponContext is created by the caller before a two-weapon check.
// Stored under engine.PhaseTwoWeapon.
type TwoWeaponContext struct {
	AttackerID    string
	MainWeapon    *entities.Weapon
	OffhandWeapon *entities.Weapon
}

// TwoWeaponResult carries the computed two-weapon penalties. Stored under
// engine.PhaseTwoWeaponResult.
type TwoWeaponResult struct {
	MainPenalty    int
	OffhandPenalty int
	ExtraAttacks   int
}

// SpecializationContext asks for a character's standing with one weapon.
// Stored under engine.PhaseSpecialization.
type SpecializationContext struct {
	AttackerID string
	Weapon     *entities.Weapon
}

// SpecializationResult reports specialization combat bonuses
type SpecializationResult struct {
	Level           entities.SpecializationLevel
	HitBonus        int
	DamageBonus     int
	AttacksPerRound float64
}

// AerialContext is created by the caller before a dive-attack check.
// Stored under engine.PhaseAerial.
type AerialContext struct {
	AttackerID   string
	Flying       bool
	DiveDistance int
}

// AerialResult carries the dive-attack bonuses. Stored under
// engine.PhaseAerialResult.
type AerialResult struct {
	DamageMultiplier float64
	AttackBonus      int
}
