package roll

import (
	"math/rand"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

// seededRoller implements dice.Roller on top of a seeded PRNG so whole
// resolutions can be replayed in tests.
type seededRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Seeded returns a roller that produces the same sequence for the same seed
func Seeded(seed int64) dice.Roller {
	return &seededRoller{
		rng: rand.New(rand.NewSource(seed)), // #nosec G404 // determinism is the point
	}
}

// Roll rolls a single die of the given size
func (s *seededRoller) Roll(size int) (int, error) {
	if size < 1 {
		return 0, errors.InvalidArgumentf("die size must be positive, got %d", size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(size) + 1, nil
}

// RollN rolls count dice of the given size
func (s *seededRoller) RollN(count, size int) ([]int, error) {
	if count < 1 {
		return nil, errors.InvalidArgumentf("dice count must be positive, got %d", count)
	}

	rolls := make([]int, count)
	for i := range rolls {
		n, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		rolls[i] = n
	}
	return rolls, nil
}
