// Package combat implements the combat orchestrator: it owns the rule
// pipelines, loads sessions from storage, drives commands through the
// engine, and persists mutated combatants.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/KirkDiggler/adnd-engine/internal/orchestrators/combat Service

import (
	"context"
	"time"

	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/rules"
)

// Service defines the interface for combat operations
type Service interface {
	// Session lifecycle
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	// Round resolution
	ResolveAttackRound(ctx context.Context, input *ResolveAttackRoundInput) (*ResolveAttackRoundOutput, error)
	RollInitiative(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error)

	// Mounted combat
	ResolveCharge(ctx context.Context, input *ResolveChargeInput) (*ResolveChargeOutput, error)
	Dismount(ctx context.Context, input *DismountInput) (*DismountOutput, error)
	CheckMountedCombat(ctx context.Context, input *CheckMountedCombatInput) (*CheckMountedCombatOutput, error)

	// Capability checks
	CheckSpecialization(ctx context.Context, input *CheckSpecializationInput) (*CheckSpecializationOutput, error)
	CheckTwoWeapon(ctx context.Context, input *CheckTwoWeaponInput) (*CheckTwoWeaponOutput, error)
	CheckDiveAttack(ctx context.Context, input *CheckDiveAttackInput) (*CheckDiveAttackOutput, error)
}

// CreateSessionInput contains the combatants opening a combat
type CreateSessionInput struct {
	// SessionID is optional; one is generated when empty
	SessionID  string
	Characters []*entities.Character
	Monsters   []*entities.Monster
	Mounts     []*entities.Mount
	TTL        time.Duration
}

// CreateSessionOutput reports the stored session
type CreateSessionOutput struct {
	SessionID string
}

// GetSessionInput identifies a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput carries the stored session state
type GetSessionOutput struct {
	Characters []*entities.Character
	Monsters   []*entities.Monster
	Mounts     []*entities.Mount
	Round      int
}

// EndSessionInput identifies a session to delete
type EndSessionInput struct {
	SessionID string
}

// EndSessionOutput reports whether a session was deleted
type EndSessionOutput struct {
	Deleted bool
}

// ResolveAttackRoundInput describes one combatant's full attack routine for
// the round
type ResolveAttackRoundInput struct {
	SessionID  string
	AttackerID string
	TargetID   string

	// Weapon is nil for natural or unarmed attacks
	Weapon *entities.Weapon

	// AttackType defaults to normal
	AttackType rules.AttackType

	// CircumstanceModifier is a situational to-hit adjustment
	CircumstanceModifier int
}

// AttackOutcome is the result of one swing
type AttackOutcome struct {
	Hit         bool
	Critical    bool
	Roll        int
	Damage      int
	Message     string
	Unconscious bool
	Dead        bool
}

// ResolveAttackRoundOutput reports every swing of the round
type ResolveAttackRoundOutput struct {
	Attacks        []*AttackOutcome
	TargetDefeated bool

	// Round is the session round after this resolution
	Round int
}

// RollInitiativeInput describes one round's initiative roll
type RollInitiativeInput struct {
	SessionID    string
	Mode         rules.InitiativeMode
	Participants []rules.InitiativeParticipant
}

// RollInitiativeOutput carries the computed turn order
type RollInitiativeOutput struct {
	Order          *rules.InitiativeOrder
	Results        []rules.InitiativeResult
	SurprisedSides []string
}

// ResolveChargeInput describes an attempted mounted charge
type ResolveChargeInput struct {
	SessionID string
	RiderID   string
	MountID   string
	Weapon    *entities.Weapon
}

// ResolveChargeOutput reports the charge outcome; an ineligible charge is a
// result with a reason, not an error
type ResolveChargeOutput struct {
	Result *rules.ChargeResult
}

// DismountInput describes a dismount
type DismountInput struct {
	SessionID string
	RiderID   string
	MountID   string
}

// DismountOutput reports the dismount and any required falling check
type DismountOutput struct {
	Result *rules.DismountResult
}

// CheckMountedCombatInput asks for the standing mounted modifiers
type CheckMountedCombatInput struct {
	SessionID string
	RiderID   string
	MountID   string
}

// CheckMountedCombatOutput carries the standing mounted modifiers
type CheckMountedCombatOutput struct {
	Modifiers *rules.MountedModifiers
}

// CheckSpecializationInput asks for a character's standing with a weapon
type CheckSpecializationInput struct {
	SessionID   string
	CharacterID string
	Weapon      *entities.Weapon
}

// CheckSpecializationOutput reports the specialization bonuses; Specialized
// is false when the character has no standing with the weapon
type CheckSpecializationOutput struct {
	Specialized bool
	Result      *rules.SpecializationResult
}

// CheckTwoWeaponInput asks whether a two-weapon stance is legal and what it
// costs
type CheckTwoWeaponInput struct {
	SessionID     string
	AttackerID    string
	MainWeapon    *entities.Weapon
	OffhandWeapon *entities.Weapon
}

// CheckTwoWeaponOutput reports the stance penalties; Allowed is false with a
// reason when the stance is illegal
type CheckTwoWeaponOutput struct {
	Allowed bool
	Reason  string
	Result  *rules.TwoWeaponResult
}

// CheckDiveAttackInput asks for dive-attack bonuses
type CheckDiveAttackInput struct {
	SessionID    string
	AttackerID   string
	Flying       bool
	DiveDistance int
}

// CheckDiveAttackOutput reports the dive bonuses; Granted is false with a
// reason for shallow or grounded dives
type CheckDiveAttackOutput struct {
	Granted bool
	Reason  string
	Result  *rules.AerialResult
}
