package testutils

import (
	"fmt"
)

// ScriptedRoller returns a fixed sequence of die values regardless of die
// size, so tests can pin exact outcomes. It errors once the script runs out.
type ScriptedRoller struct {
	values []int
	next   int
}

// NewScriptedRoller creates a roller that replays the given values in order
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Roll returns the next scripted value
func (r *ScriptedRoller) Roll(_ int) (int, error) {
	if r.next >= len(r.values) {
		return 0, fmt.Errorf("scripted roller exhausted after %d rolls", len(r.values))
	}
	v := r.values[r.next]
	r.next++
	return v, nil
}

// RollN returns the next count scripted values
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Remaining reports how many scripted values are left
func (r *ScriptedRoller) Remaining() int {
	return len(r.values) - r.next
}
