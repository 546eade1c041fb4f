package entities

// Weapon is immutable reference data supplied alongside a command
type Weapon struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Damage        string     `json:"damage" yaml:"damage"`
	DamageVsLarge string     `json:"damage_vs_large,omitempty" yaml:"damage_vs_large"`
	Speed         int        `json:"speed" yaml:"speed"`
	MagicBonus    int        `json:"magic_bonus,omitempty" yaml:"magic_bonus"`
	TwoHanded     bool       `json:"two_handed,omitempty" yaml:"two_handed"`
	Type          WeaponType `json:"type" yaml:"type"`
	Size          Size       `json:"size" yaml:"size"`
}

// Melee reports whether the weapon is a melee weapon
func (w *Weapon) Melee() bool {
	return w.Type != WeaponRanged
}

// DamageFor returns the damage expression against a target of the given
// size, preferring the vs-large expression when one exists
func (w *Weapon) DamageFor(target Size) string {
	if target.LargeOrBigger() && w.DamageVsLarge != "" {
		return w.DamageVsLarge
	}
	return w.Damage
}

// Spell is external reference data; only the casting time matters to the
// initiative rules
type Spell struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CastingTime string `json:"casting_time"`
}
