package entities

import (
	"strconv"
	"strings"
)

// Monster represents a creature in combat. DamagePerAttack holds one dice
// expression per natural attack; its length is the monster's attacks per
// round.
type Monster struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	HitDice         string         `json:"hit_dice"`
	HitPoints       HitPoints      `json:"hit_points"`
	ArmorClass      int            `json:"armor_class"`
	THAC0           int            `json:"thac0"`
	Size            Size           `json:"size"`
	MovementRate    int            `json:"movement_rate"`
	DamagePerAttack []string       `json:"damage_per_attack"`
	Statuses        []StatusEffect `json:"statuses,omitempty"`
}

// GetID implements core.Entity
func (m *Monster) GetID() string {
	return m.ID
}

// GetType implements core.Entity
func (m *Monster) GetType() string {
	return TypeMonster
}

// GetName returns the monster's display name
func (m *Monster) GetName() string {
	return m.Name
}

// CurrentHitPoints returns current hit points
func (m *Monster) CurrentHitPoints() int {
	return m.HitPoints.Current
}

// MaxHitPoints returns maximum hit points
func (m *Monster) MaxHitPoints() int {
	return m.HitPoints.Maximum
}

// SetHitPoints sets current hit points
func (m *Monster) SetHitPoints(current int) {
	m.HitPoints.Current = current
}

// BaseArmorClass returns the monster's armor class
func (m *Monster) BaseArmorClass() int {
	return m.ArmorClass
}

// BaseTHAC0 returns the monster's attack stat
func (m *Monster) BaseTHAC0() int {
	return m.THAC0
}

// CreatureSize returns the monster's size
func (m *Monster) CreatureSize() Size {
	if m.Size == "" {
		return SizeMedium
	}
	return m.Size
}

// StatusEffects returns the attached status effects
func (m *Monster) StatusEffects() []StatusEffect {
	return m.Statuses
}

// HasStatus reports whether a status with the given name is attached
func (m *Monster) HasStatus(name string) bool {
	for _, s := range m.Statuses {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddStatus attaches a status effect
func (m *Monster) AddStatus(effect StatusEffect) {
	m.Statuses = append(m.Statuses, effect)
}

// HitDiceCount returns the whole hit dice from notation like "2+1" or "4".
// Fractional notations ("1/2") count as zero.
func (m *Monster) HitDiceCount() int {
	hd := strings.TrimSpace(m.HitDice)
	if hd == "" {
		return 0
	}
	if i := strings.IndexAny(hd, "+-/"); i >= 0 {
		if hd[i] == '/' {
			return 0
		}
		hd = hd[:i]
	}
	n, err := strconv.Atoi(hd)
	if err != nil {
		return 0
	}
	return n
}

// LessThanOneHitDie reports whether the monster is below one hit die,
// which grants fighter-family attackers one attack per level against it
func (m *Monster) LessThanOneHitDie() bool {
	return m.HitDiceCount() < 1
}

// Clone returns a deep copy safe to mutate
func (m *Monster) Clone() *Monster {
	out := *m
	out.Statuses = cloneStatuses(m.Statuses)
	if m.DamagePerAttack != nil {
		out.DamagePerAttack = make([]string, len(m.DamagePerAttack))
		copy(out.DamagePerAttack, m.DamagePerAttack)
	}
	return &out
}

// CloneCombatant implements Combatant
func (m *Monster) CloneCombatant() Combatant {
	return m.Clone()
}
