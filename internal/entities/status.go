package entities

// Status effect names attached by the combat rules
const (
	StatusDead        = "Dead"
	StatusUnconscious = "Unconscious"
	StatusBleeding    = "Bleeding"
	StatusSubdued     = "Subdued"
)

// PermanentDuration marks a status that never expires on its own
const PermanentDuration = -1

// StatusEffect is a condition attached to a combatant during resolution.
// Duration counts periods; Points is the effect-specific magnitude (the
// subdual pool, the bleed loss per period).
type StatusEffect struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Points   int    `json:"points,omitempty"`
}

// Permanent reports whether the status never expires on its own
func (s StatusEffect) Permanent() bool {
	return s.Duration == PermanentDuration
}
