package bot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jaminalder/gamey/internal/domain"
)

// Errors returned by the bot package.
var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNoMove          = errors.New("strategy returned no move")
)

// GameView is the read-only query surface a strategy may use.
// *domain.Game satisfies it.
type GameView interface {
	Size() int
	NextPlayer() (domain.PlayerID, bool)
	PlayerAt(c domain.Coordinates) (domain.PlayerID, bool)
	AvailableCells() []int
}

// Strategy selects a move for the player to move. It must not mutate the
// view, and it returns false when the game is over or no cell is free.
type Strategy interface {
	Name() string
	ChooseMove(v GameView) (domain.Coordinates, bool)
}

// Registry maps strategy names to implementations. It is built once at
// startup and only read afterwards.
type Registry struct {
	byName map[string]Strategy
}

// NewRegistry registers the given strategies under their names.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{byName: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		if _, dup := r.byName[s.Name()]; dup {
			return nil, fmt.Errorf("duplicate strategy %q", s.Name())
		}
		r.byName[s.Name()] = s
	}
	return r, nil
}

// DefaultRegistry holds the "random" and "heuristic" strategies.
func DefaultRegistry(seed uint64) *Registry {
	r, _ := NewRegistry(NewRandom(seed), NewHeuristic())
	return r
}

// Get looks a strategy up by name.
func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PlayOut plays g to completion, players[p] choosing every move of player p,
// and returns the winner.
func PlayOut(g *domain.Game, players [2]Strategy) (domain.PlayerID, error) {
	for {
		p, ok := g.NextPlayer()
		if !ok {
			winner, _ := g.Winner()
			return winner, nil
		}
		c, ok := players[p].ChooseMove(g)
		if !ok {
			return 0, fmt.Errorf("%w: %s as player %d", ErrNoMove, players[p].Name(), p)
		}
		if err := g.AddMove(p, c); err != nil {
			return 0, fmt.Errorf("%s played %v: %w", players[p].Name(), c, err)
		}
	}
}
