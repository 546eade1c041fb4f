package entities

// Character represents a player character in combat
type Character struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Class            Class                  `json:"class"`
	Race             Race                   `json:"race"`
	Level            int                    `json:"level"`
	HitPoints        HitPoints              `json:"hit_points"`
	ArmorClass       int                    `json:"armor_class"`
	THAC0            int                    `json:"thac0"`
	Abilities        AbilityScores          `json:"abilities"`
	Size             Size                   `json:"size"`
	CarriedWeight    int                    `json:"carried_weight"`
	MaxCarriedWeight int                    `json:"max_carried_weight"`
	Statuses         []StatusEffect         `json:"statuses,omitempty"`
	Specializations  []WeaponSpecialization `json:"specializations,omitempty"`

	// AttackCarry is the fractional attack-economy remainder carried between
	// rounds. Nil until the first attack sequence primes it.
	AttackCarry *float64 `json:"attack_carry,omitempty"`
}

// GetID implements core.Entity
func (c *Character) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Character) GetType() string {
	return TypeCharacter
}

// GetName returns the character's display name
func (c *Character) GetName() string {
	return c.Name
}

// CurrentHitPoints returns current hit points
func (c *Character) CurrentHitPoints() int {
	return c.HitPoints.Current
}

// MaxHitPoints returns maximum hit points
func (c *Character) MaxHitPoints() int {
	return c.HitPoints.Maximum
}

// SetHitPoints sets current hit points
func (c *Character) SetHitPoints(current int) {
	c.HitPoints.Current = current
}

// BaseArmorClass returns the character's armor class
func (c *Character) BaseArmorClass() int {
	return c.ArmorClass
}

// BaseTHAC0 returns the character's attack stat
func (c *Character) BaseTHAC0() int {
	return c.THAC0
}

// CreatureSize returns the character's size
func (c *Character) CreatureSize() Size {
	if c.Size == "" {
		return SizeMedium
	}
	return c.Size
}

// StatusEffects returns the attached status effects
func (c *Character) StatusEffects() []StatusEffect {
	return c.Statuses
}

// HasStatus reports whether a status with the given name is attached
func (c *Character) HasStatus(name string) bool {
	for _, s := range c.Statuses {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddStatus attaches a status effect
func (c *Character) AddStatus(effect StatusEffect) {
	c.Statuses = append(c.Statuses, effect)
}

// EncumbranceRatio returns carried weight over capacity, 0 when unknown
func (c *Character) EncumbranceRatio() float64 {
	if c.MaxCarriedWeight <= 0 {
		return 0
	}
	return float64(c.CarriedWeight) / float64(c.MaxCarriedWeight)
}

// SpecializationFor returns the specialization for one exact weapon
func (c *Character) SpecializationFor(weaponID string) (WeaponSpecialization, bool) {
	for _, spec := range c.Specializations {
		if spec.WeaponID == weaponID {
			return spec, true
		}
	}
	return WeaponSpecialization{}, false
}

// Clone returns a deep copy safe to mutate
func (c *Character) Clone() *Character {
	out := *c
	out.Statuses = cloneStatuses(c.Statuses)
	if c.Specializations != nil {
		out.Specializations = make([]WeaponSpecialization, len(c.Specializations))
		copy(out.Specializations, c.Specializations)
	}
	if c.AttackCarry != nil {
		carry := *c.AttackCarry
		out.AttackCarry = &carry
	}
	return &out
}

// CloneCombatant implements Combatant
func (c *Character) CloneCombatant() Combatant {
	return c.Clone()
}
