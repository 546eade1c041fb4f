// Package roll evaluates dice expressions like "2d6+1" to a total plus the
// individual die results. Rolling goes through the rpg-toolkit dice.Roller
// interface so resolutions can be replayed with a seeded roller.
package roll

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

// Regex for dice notation like "2d6", "1d20+5", "1d8-1"
var notationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Expression is a parsed dice expression
type Expression struct {
	Notation string
	Count    int
	Sides    int
	Modifier int
}

// Result holds one evaluated expression
type Result struct {
	Notation  string
	Rolls     []int
	DiceTotal int
	Modifier  int
	Total     int
}

// Parse parses dice notation into an Expression
func Parse(notation string) (*Expression, error) {
	matches := notationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(notation)))
	if matches == nil {
		return nil, errors.InvalidArgumentf("invalid dice notation: %s (expected format: XdY or XdY+Z)", notation)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}

	modifier := 0
	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[3])
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid modifier in notation: %s", notation)
		}
	}

	if count <= 0 || sides <= 0 {
		return nil, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
	}

	return &Expression{
		Notation: notation,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}, nil
}

// Roll evaluates the expression with the given roller
func (e *Expression) Roll(roller dice.Roller) (*Result, error) {
	rolls, err := roller.RollN(e.Count, e.Sides)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s", e.Notation)
	}

	diceTotal := 0
	for _, r := range rolls {
		diceTotal += r
	}

	return &Result{
		Notation:  e.Notation,
		Rolls:     rolls,
		DiceTotal: diceTotal,
		Modifier:  e.Modifier,
		Total:     diceTotal + e.Modifier,
	}, nil
}

// Eval parses and rolls a dice expression in one step
func Eval(notation string, roller dice.Roller) (*Result, error) {
	expr, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	return expr.Roll(roller)
}

// Die rolls a single die of the given size
func Die(roller dice.Roller, sides int) (int, error) {
	n, err := roller.Roll(sides)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", sides)
	}
	return n, nil
}
