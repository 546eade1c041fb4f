package rules

import (
	"math"
	"strings"

	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// DamageType classifies a weapon for the weapon-vs-armor adjustment
type DamageType string

// Damage types
const (
	DamageSlashing    DamageType = "slashing"
	DamagePiercing    DamageType = "piercing"
	DamageBludgeoning DamageType = "bludgeoning"
)

var piercingNames = []string{
	"spear", "lance", "pike", "javelin", "trident", "dagger", "dirk",
	"pick", "arrow", "bolt", "dart", "bow", "rapier",
}

var bludgeoningNames = []string{
	"mace", "hammer", "club", "flail", "staff", "cudgel", "morningstar",
	"morning star", "sling",
}

// ClassifyWeapon buckets a weapon into a damage type by name. Unknown
// weapons default to slashing.
func ClassifyWeapon(weapon *entities.Weapon) DamageType {
	if weapon == nil {
		return DamageSlashing
	}

	name := strings.ToLower(weapon.Name)
	for _, n := range piercingNames {
		if strings.Contains(name, n) {
			return DamagePiercing
		}
	}
	for _, n := range bludgeoningNames {
		if strings.Contains(name, n) {
			return DamageBludgeoning
		}
	}
	return DamageSlashing
}

// Armor categories band the clamped armor class [0,10] into six buckets:
// plate (0-1), banded (2-3), scale/chain (4-5), ring/studded (6-7),
// leather (8-9), unarmored (10).
var weaponVsArmorTable = map[DamageType][6]int{
	DamageSlashing:    {2, 1, 0, 1, 0, 0},
	DamagePiercing:    {-3, -2, -1, 0, 1, 0},
	DamageBludgeoning: {0, 1, 2, 1, 0, 0},
}

// armorCategory clamps the armor class to [0,10] and returns the band
// index. Non-finite values clamp rather than panic; NaN reads as
// unarmored.
func armorCategory(armorClass float64) int {
	if math.IsNaN(armorClass) {
		armorClass = 10
	}
	if armorClass < 0 {
		armorClass = 0
	}
	if armorClass > 10 {
		armorClass = 10
	}

	ac := int(armorClass)
	if ac >= 10 {
		return 5
	}
	return ac / 2
}

// WeaponVsArmorAdjustment returns the signed attack adjustment for a weapon
// against a banded armor class. Pure: no weapon means no adjustment, and
// out-of-range armor classes snap to the nearest boundary.
func WeaponVsArmorAdjustment(weapon *entities.Weapon, armorClass float64) int {
	if weapon == nil {
		return 0
	}
	return weaponVsArmorTable[ClassifyWeapon(weapon)][armorCategory(armorClass)]
}
