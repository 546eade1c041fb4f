package testutils

import (
	"github.com/KirkDiggler/adnd-engine/internal/entities"
)

// Default fixture names
const (
	TestFighterName = "Bronn of the Vale"
	TestMonsterName = "Cave Orc"
	TestMountName   = "Destrier"
)

// CreateTestFighter creates a mid-level fighter with sensible defaults
func CreateTestFighter(id string) *entities.Character {
	return &entities.Character{
		ID:    id,
		Name:  TestFighterName,
		Class: entities.ClassFighter,
		Race:  entities.RaceHuman,
		Level: 5,
		HitPoints: entities.HitPoints{
			Current: 38,
			Maximum: 38,
		},
		ArmorClass: 4,
		THAC0:      16,
		Abilities: entities.AbilityScores{
			Strength:     16,
			Dexterity:    12,
			Constitution: 14,
			Intelligence: 10,
			Wisdom:       9,
			Charisma:     11,
		},
		Size:             entities.SizeMedium,
		CarriedWeight:    40,
		MaxCarriedWeight: 100,
	}
}

// CreateTestOrc creates a 1-hit-die monster with a single natural attack
func CreateTestOrc(id string) *entities.Monster {
	return &entities.Monster{
		ID:      id,
		Name:    TestMonsterName,
		HitDice: "1",
		HitPoints: entities.HitPoints{
			Current: 7,
			Maximum: 7,
		},
		ArmorClass:      6,
		THAC0:           19,
		Size:            entities.SizeMedium,
		MovementRate:    9,
		DamagePerAttack: []string{"1d8"},
	}
}

// CreateTestWarhorse creates a healthy large mount ridden by riderID
func CreateTestWarhorse(id, riderID string) *entities.Mount {
	return &entities.Mount{
		ID:           id,
		Name:         TestMountName,
		MovementRate: 15,
		ArmorClass:   7,
		HitPoints: entities.HitPoints{
			Current: 20,
			Maximum: 20,
		},
		Size:      entities.SizeLarge,
		MountedBy: riderID,
	}
}

// CreateTestLongSword creates the standard 1d8 test weapon
func CreateTestLongSword() *entities.Weapon {
	return &entities.Weapon{
		ID:     "long-sword",
		Name:   "Long Sword",
		Damage: "1d8",
		Speed:  5,
		Type:   entities.WeaponMelee,
		Size:   entities.SizeMedium,
	}
}

// CreateTestDagger creates a small fast off-hand weapon
func CreateTestDagger() *entities.Weapon {
	return &entities.Weapon{
		ID:     "dagger",
		Name:   "Dagger",
		Damage: "1d4",
		Speed:  2,
		Type:   entities.WeaponMelee,
		Size:   entities.SizeSmall,
	}
}

// CreateTestLance creates the charge-doubling lance
func CreateTestLance() *entities.Weapon {
	return &entities.Weapon{
		ID:     "lance",
		Name:   "Heavy Lance",
		Damage: "1d8+1",
		Speed:  8,
		Type:   entities.WeaponMelee,
		Size:   entities.SizeLarge,
	}
}
