// Package entities holds the combat data records: characters, monsters,
// weapons, mounts, spells, and their derived modifiers. All stored records
// implement the rpg-toolkit core.Entity interface.
package entities

// Entity type tags returned by GetType
const (
	TypeCharacter = "character"
	TypeMonster   = "monster"
	TypeMount     = "mount"
)

// Size of a creature, mount, or weapon
type Size string

// Creature sizes
const (
	SizeSmall      Size = "small"
	SizeMedium     Size = "medium"
	SizeLarge      Size = "large"
	SizeHuge       Size = "huge"
	SizeGargantuan Size = "gargantuan"
)

// LargeOrBigger reports whether the size triggers vs-large weapon damage
func (s Size) LargeOrBigger() bool {
	switch s {
	case SizeLarge, SizeHuge, SizeGargantuan:
		return true
	default:
		return false
	}
}

// Class is a character class
type Class string

// Character classes
const (
	ClassFighter   Class = "fighter"
	ClassPaladin   Class = "paladin"
	ClassRanger    Class = "ranger"
	ClassCleric    Class = "cleric"
	ClassDruid     Class = "druid"
	ClassThief     Class = "thief"
	ClassMagicUser Class = "magic-user"
	ClassBard      Class = "bard"
)

// FighterFamily reports whether the class uses the warrior attack-rate tiers
func (c Class) FighterFamily() bool {
	switch c {
	case ClassFighter, ClassPaladin, ClassRanger:
		return true
	default:
		return false
	}
}

// Race is a character race
type Race string

// Character races
const (
	RaceHuman    Race = "human"
	RaceElf      Race = "elf"
	RaceHalfElf  Race = "half-elf"
	RaceDwarf    Race = "dwarf"
	RaceHalfling Race = "halfling"
	RaceGnome    Race = "gnome"
	RaceHalfOrc  Race = "half-orc"
)

// HitPoints tracks current and maximum hit points
type HitPoints struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

// WeaponType distinguishes melee from ranged weapons
type WeaponType string

// Weapon types
const (
	WeaponMelee  WeaponType = "melee"
	WeaponRanged WeaponType = "ranged"
)

// SpecializationLevel is a character's training level with one weapon
type SpecializationLevel string

// Specialization levels
const (
	Specialized       SpecializationLevel = "specialized"
	DoubleSpecialized SpecializationLevel = "double-specialized"
)

// WeaponSpecialization ties a specialization level to one exact weapon
type WeaponSpecialization struct {
	WeaponID string              `json:"weapon_id"`
	Level    SpecializationLevel `json:"level"`
}
