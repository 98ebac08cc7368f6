package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/gamey/internal/domain"
)

func newGame(t *testing.T, size int, moves ...domain.Coordinates) *domain.Game {
	t.Helper()
	g, err := domain.New(size)
	require.NoError(t, err)
	for _, c := range moves {
		p, ok := g.NextPlayer()
		require.True(t, ok)
		require.NoError(t, g.AddMove(p, c))
	}
	return g
}

func isAvailable(g *domain.Game, c domain.Coordinates) bool {
	idx := c.ToIndex(g.Size())
	for _, free := range g.AvailableCells() {
		if free == idx {
			return true
		}
	}
	return false
}

func within(c domain.Coordinates, around domain.Coordinates, hops int) bool {
	frontier := []domain.Coordinates{around}
	for i := 0; i < hops; i++ {
		var next []domain.Coordinates
		for _, f := range frontier {
			next = append(next, f.Neighbors()...)
		}
		for _, n := range next {
			if n == c {
				return true
			}
		}
		frontier = next
	}
	return false
}

func strategies() []Strategy {
	return []Strategy{NewRandom(7), NewHeuristic()}
}

func TestStrategiesChooseAvailableCells(t *testing.T) {
	for _, s := range strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			g := newGame(t, 6, domain.Coordinates{X: 2, Y: 2, Z: 1}, domain.Coordinates{X: 0, Y: 0, Z: 5})
			for i := 0; i < 50; i++ {
				c, ok := s.ChooseMove(g)
				require.True(t, ok)
				require.True(t, isAvailable(g, c), "%v is not available", c)
			}
		})
	}
}

func TestStrategiesReturnNoneWhenFinished(t *testing.T) {
	for _, s := range strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			g := newGame(t, 1, domain.Coordinates{})
			_, ok := s.ChooseMove(g)
			require.False(t, ok)

			g = newGame(t, 3,
				domain.Coordinates{X: 2}, domain.Coordinates{Y: 2},
				domain.Coordinates{X: 1, Z: 1}, domain.Coordinates{X: 1, Y: 1},
				domain.Coordinates{Y: 1, Z: 1})
			require.Equal(t, domain.Finished, g.Status().State)
			require.NotEmpty(t, g.AvailableCells())
			_, ok = s.ChooseMove(g)
			require.False(t, ok, "finished game with free cells must yield no move")
		})
	}
}

func TestStrategiesDoNotMutate(t *testing.T) {
	for _, s := range strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			g := newGame(t, 5, domain.Coordinates{X: 2, Y: 1, Z: 1})
			before := g.Clone()
			_, ok := s.ChooseMove(g)
			require.True(t, ok)
			require.Equal(t, before.BoardState(), g.BoardState())
			require.Equal(t, before.Status(), g.Status())
		})
	}
}

func TestHeuristicPrefersCentreOnEmptyBoard(t *testing.T) {
	g := newGame(t, 7)
	c, ok := NewHeuristic().ChooseMove(g)
	require.True(t, ok)
	require.GreaterOrEqual(t, min(c.X, c.Y, c.Z), 1, "chose %v", c)
	require.Equal(t, domain.Coordinates{X: 2, Y: 2, Z: 2}, c)
}

func TestHeuristicPlaysNearOpponent(t *testing.T) {
	opp := domain.Coordinates{X: 2, Y: 1, Z: 1}
	g := newGame(t, 5, opp)
	c, ok := NewHeuristic().ChooseMove(g)
	require.True(t, ok)
	require.True(t, within(c, opp, 2), "chose %v, not within 2 hops of %v", c, opp)
}

func TestHeuristicExtendsOwnChain(t *testing.T) {
	own := domain.Coordinates{X: 2, Y: 1, Z: 1}
	g := newGame(t, 5, own, domain.Coordinates{X: 0, Y: 0, Z: 4})
	c, ok := NewHeuristic().ChooseMove(g)
	require.True(t, ok)
	require.Contains(t, own.Neighbors(), c)
}

func TestHeuristicTieBreaksOnFirstIndex(t *testing.T) {
	// with only the side-touch term every vertex scores highest on size 2
	h := NewHeuristic(WithWeights(Weights{SideTouch: 1}))
	c, ok := h.ChooseMove(newGame(t, 2))
	require.True(t, ok)
	require.Equal(t, domain.FromIndex(0, 2), c)
}

func TestHeuristicScore(t *testing.T) {
	h := NewHeuristic()
	g := newGame(t, 5, domain.Coordinates{X: 2, Y: 1, Z: 1}, domain.Coordinates{X: 0, Y: 0, Z: 4})

	t.Run("interior next to own piece", func(t *testing.T) {
		// centrality 1/(4/3), one own neighbour, (0,0,4) reached through two neighbours
		got := h.score(g, domain.Coordinates{X: 1, Y: 1, Z: 2}, domain.Player0)
		require.InDelta(t, 3.0*0.75+2.5*1+2.0*2, got, 1e-9)
	})
	t.Run("edge next to opponent", func(t *testing.T) {
		// adjacent to (0,0,4) and reaching it again through (1,0,3)
		got := h.score(g, domain.Coordinates{X: 0, Y: 1, Z: 3}, domain.Player0)
		require.InDelta(t, 2.0*(2.0*1+1.0*1)+0.5*1, got, 1e-9)
	})
	t.Run("size one board has no centrality term", func(t *testing.T) {
		got := h.score(newGame(t, 1), domain.Coordinates{}, domain.Player0)
		require.InDelta(t, 0.5*3, got, 1e-9)
	})
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(1)
	require.Equal(t, []string{"heuristic", "random"}, r.Names())

	s, err := r.Get("heuristic")
	require.NoError(t, err)
	require.Equal(t, "heuristic", s.Name())

	_, err = r.Get("minimax")
	require.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = NewRegistry(NewRandom(1), NewRandom(2))
	require.Error(t, err)
}

func TestPlayOutAlwaysProducesWinner(t *testing.T) {
	random := NewRandom(99)
	heuristic := NewHeuristic()
	pairs := [][2]Strategy{
		{random, random},
		{heuristic, random},
		{random, heuristic},
		{heuristic, heuristic},
	}
	for size := 1; size <= 9; size++ {
		for _, pair := range pairs {
			g := newGame(t, size)
			winner, err := PlayOut(g, pair)
			require.NoError(t, err)
			require.True(t, winner.Valid())
			st := g.Status()
			require.Equal(t, domain.Finished, st.State)
			require.Equal(t, winner, st.Player)
			require.NotEmpty(t, g.WinningGroup())
		}
	}
}
