package entities

// Mount represents a rideable creature. MountedBy is a weak back-reference
// to the rider's id, not ownership; the dismount rule clears it. Mounts are
// full combatants: they can be attacked and their hit points gate charging.
type Mount struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	MovementRate int            `json:"movement_rate"`
	ArmorClass   int            `json:"armor_class"`
	THAC0        int            `json:"thac0,omitempty"`
	HitPoints    HitPoints      `json:"hit_points"`
	Size         Size           `json:"size"`
	Flying       bool           `json:"flying"`
	AgilityLevel int            `json:"agility_level,omitempty"`
	Encumbered   bool           `json:"encumbered"`
	MountedBy    string         `json:"mounted_by,omitempty"`
	Statuses     []StatusEffect `json:"statuses,omitempty"`
}

// GetID implements core.Entity
func (m *Mount) GetID() string {
	return m.ID
}

// GetType implements core.Entity
func (m *Mount) GetType() string {
	return TypeMount
}

// GetName returns the mount's display name
func (m *Mount) GetName() string {
	return m.Name
}

// CurrentHitPoints returns current hit points
func (m *Mount) CurrentHitPoints() int {
	return m.HitPoints.Current
}

// MaxHitPoints returns maximum hit points
func (m *Mount) MaxHitPoints() int {
	return m.HitPoints.Maximum
}

// SetHitPoints sets current hit points
func (m *Mount) SetHitPoints(current int) {
	m.HitPoints.Current = current
}

// BaseArmorClass returns the mount's armor class
func (m *Mount) BaseArmorClass() int {
	return m.ArmorClass
}

// BaseTHAC0 returns the mount's attack stat; an unset value reads as 20
func (m *Mount) BaseTHAC0() int {
	if m.THAC0 == 0 {
		return 20
	}
	return m.THAC0
}

// CreatureSize returns the mount's size
func (m *Mount) CreatureSize() Size {
	if m.Size == "" {
		return SizeMedium
	}
	return m.Size
}

// StatusEffects returns the attached status effects
func (m *Mount) StatusEffects() []StatusEffect {
	return m.Statuses
}

// HasStatus reports whether a status with the given name is attached
func (m *Mount) HasStatus(name string) bool {
	for _, s := range m.Statuses {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddStatus attaches a status effect
func (m *Mount) AddStatus(effect StatusEffect) {
	m.Statuses = append(m.Statuses, effect)
}

// HealthyEnoughToCharge reports whether hit points exceed a quarter of max
func (m *Mount) HealthyEnoughToCharge() bool {
	return float64(m.HitPoints.Current) > float64(m.HitPoints.Maximum)*0.25
}

// Clone returns a deep copy safe to mutate
func (m *Mount) Clone() *Mount {
	out := *m
	out.Statuses = cloneStatuses(m.Statuses)
	return &out
}

// CloneCombatant implements Combatant
func (m *Mount) CloneCombatant() Combatant {
	return m.Clone()
}
