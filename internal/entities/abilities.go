package entities

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DamageAdjustment returns the strength-based melee damage modifier
func (a AbilityScores) DamageAdjustment() int {
	s := a.Strength
	switch {
	case s <= 1:
		return -4
	case s == 2:
		return -2
	case s <= 5:
		return -1
	case s <= 15:
		return 0
	case s <= 17:
		return 1
	case s == 18:
		return 2
	default:
		return 3
	}
}

// HitAdjustment returns the strength-based melee attack modifier
func (a AbilityScores) HitAdjustment() int {
	s := a.Strength
	switch {
	case s <= 1:
		return -5
	case s <= 3:
		return -3
	case s <= 5:
		return -2
	case s <= 7:
		return -1
	case s <= 16:
		return 0
	case s <= 18:
		return 1
	default:
		return 2
	}
}

// ReactionAdjustment returns the dexterity-based reaction modifier. Positive
// is better; initiative negates it so high dexterity acts sooner.
func (a AbilityScores) ReactionAdjustment() int {
	d := a.Dexterity
	switch {
	case d <= 1:
		return -6
	case d == 2:
		return -4
	case d == 3:
		return -3
	case d == 4:
		return -2
	case d == 5:
		return -1
	case d <= 15:
		return 0
	case d == 16:
		return 1
	case d <= 18:
		return 2
	default:
		return 3
	}
}
