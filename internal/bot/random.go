package bot

import (
	"sync"

	"golang.org/x/exp/rand"

	"github.com/jaminalder/gamey/internal/domain"
)

// Random picks uniformly among the available cells.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random strategy seeded with seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) ChooseMove(v GameView) (domain.Coordinates, bool) {
	if _, ok := v.NextPlayer(); !ok {
		return domain.Coordinates{}, false
	}
	free := v.AvailableCells()
	if len(free) == 0 {
		return domain.Coordinates{}, false
	}
	r.mu.Lock()
	idx := free[r.rng.Intn(len(free))]
	r.mu.Unlock()
	return domain.FromIndex(idx, v.Size()), true
}
