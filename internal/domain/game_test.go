package domain

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"golang.org/x/exp/rand"
)

// helper to apply a sequence of moves, alternating from player 0
func playMoves(t *testing.T, g *Game, moves []Coordinates) {
	t.Helper()
	for i, m := range moves {
		p, ok := g.NextPlayer()
		if !ok {
			t.Fatalf("move %d (%v): game already over", i, m)
		}
		if err := g.AddMove(p, m); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
}

func mustNew(t *testing.T, size int) *Game {
	t.Helper()
	g, err := New(size)
	if err != nil {
		t.Fatalf("New(%d): %v", size, err)
	}
	return g
}

func TestNewGameInitialState(t *testing.T) {
	for n := 1; n <= 12; n++ {
		g := mustNew(t, n)
		if got, want := len(g.AvailableCells()), n*(n+1)/2; got != want {
			t.Fatalf("size %d: expected %d empty cells, got %d", n, want, got)
		}
		if st := g.Status(); st.State != Ongoing || st.Player != Player0 {
			t.Fatalf("size %d: expected ongoing with player 0, got %v", n, st)
		}
		if len(g.BoardState()) != 0 {
			t.Fatalf("size %d: expected empty board state", n)
		}
		if _, ok := g.Winner(); ok {
			t.Fatalf("size %d: expected no winner", n)
		}
	}
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, n := range []int{0, -1, -7} {
		if _, err := New(n); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("expected ErrInvalidSize for %d, got %v", n, err)
		}
	}
}

func TestAddMoveRejections(t *testing.T) {
	g := mustNew(t, 4)
	playMoves(t, g, []Coordinates{{1, 1, 1}})

	cases := []struct {
		name   string
		player PlayerID
		c      Coordinates
		want   error
	}{
		{"wrong player", Player0, Coordinates{3, 0, 0}, ErrWrongTurn},
		{"unknown player", PlayerID(2), Coordinates{3, 0, 0}, ErrWrongTurn},
		{"sum too small", Player1, Coordinates{1, 1, 0}, ErrInvalidCoordinate},
		{"sum too large", Player1, Coordinates{2, 2, 2}, ErrInvalidCoordinate},
		{"negative", Player1, Coordinates{-1, 2, 2}, ErrInvalidCoordinate},
		{"overflowing sum", Player1, Coordinates{math.MaxInt, math.MaxInt, 5}, ErrInvalidCoordinate},
		{"occupied", Player1, Coordinates{1, 1, 1}, ErrCellOccupied},
	}
	for _, tc := range cases {
		before := g.BoardState()
		status := g.Status()
		free := len(g.AvailableCells())
		if err := g.AddMove(tc.player, tc.c); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if !reflect.DeepEqual(before, g.BoardState()) || status != g.Status() || free != len(g.AvailableCells()) {
			t.Fatalf("%s: rejected move changed the game", tc.name)
		}
	}
	if len(g.Moves()) != 1 {
		t.Fatalf("expected 1 recorded move, got %d", len(g.Moves()))
	}
}

func TestTurnAlternates(t *testing.T) {
	g := mustNew(t, 6)
	want := Player0
	for _, idx := range []int{0, 20, 5, 11, 9, 14} {
		p, ok := g.NextPlayer()
		if !ok || p != want {
			t.Fatalf("expected player %d to move, got %d (ok=%v)", want, p, ok)
		}
		if err := g.AddMove(p, FromIndex(idx, 6)); err != nil {
			t.Fatalf("move at %d failed: %v", idx, err)
		}
		want = want.Other()
	}
}

func TestSizeOneImmediateWin(t *testing.T) {
	g := mustNew(t, 1)
	if err := g.AddMove(Player0, Coordinates{0, 0, 0}); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if st := g.Status(); st.State != Finished || st.Player != Player0 {
		t.Fatalf("expected player 0 to win, got %v", st)
	}
	if _, ok := g.NextPlayer(); ok {
		t.Fatalf("expected no next player")
	}
	if len(g.AvailableCells()) != 0 {
		t.Fatalf("expected no available cells")
	}
}

func TestSizeTwoWinOnThirdMove(t *testing.T) {
	g := mustNew(t, 2)
	playMoves(t, g, []Coordinates{{1, 0, 0}, {0, 1, 0}})
	if g.Status().State != Ongoing {
		t.Fatalf("expected game to continue, got %v", g.Status())
	}
	playMoves(t, g, []Coordinates{{0, 0, 1}})
	if st := g.Status(); st.State != Finished || st.Player != Player0 {
		t.Fatalf("expected player 0 to win, got %v", st)
	}
	if got := len(g.WinningGroup()); got != 2 {
		t.Fatalf("expected winning group of 2, got %d", got)
	}
}

func TestDisconnectedSidesDoNotWin(t *testing.T) {
	g := mustNew(t, 3)
	// player 0 holds two vertices that together touch every side
	playMoves(t, g, []Coordinates{{2, 0, 0}, {1, 1, 0}, {0, 2, 0}})
	if g.Status().State != Ongoing {
		t.Fatalf("expected ongoing game, got %v", g.Status())
	}
	if got := len(g.Group(Coordinates{0, 2, 0})); got != 1 {
		t.Fatalf("expected singleton group, got %d", got)
	}
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
	g := mustNew(t, 2)
	playMoves(t, g, []Coordinates{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	before := g.BoardState()
	for _, p := range []PlayerID{Player0, Player1} {
		if err := g.AddMove(p, Coordinates{0, 1, 0}); !errors.Is(err, ErrGameAlreadyFinished) {
			t.Fatalf("expected ErrGameAlreadyFinished, got %v", err)
		}
	}
	if !reflect.DeepEqual(before, g.BoardState()) {
		t.Fatalf("board changed after game over")
	}
}

func TestBoardStateIsIndexOrdered(t *testing.T) {
	g := mustNew(t, 5)
	playMoves(t, g, []Coordinates{{0, 0, 4}, {4, 0, 0}, {2, 1, 1}})
	want := []Movement{
		{Player: Player1, Coords: Coordinates{4, 0, 0}},
		{Player: Player0, Coords: Coordinates{2, 1, 1}},
		{Player: Player0, Coords: Coordinates{0, 0, 4}},
	}
	if got := g.BoardState(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected board state:\n got %v\nwant %v", got, want)
	}
	if p, ok := g.PlayerAt(Coordinates{4, 0, 0}); !ok || p != Player1 {
		t.Fatalf("expected player 1 at (4,0,0), got %d (ok=%v)", p, ok)
	}
	if _, ok := g.PlayerAt(Coordinates{3, 1, 0}); ok {
		t.Fatalf("expected (3,1,0) to be empty")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustNew(t, 4)
	playMoves(t, g, []Coordinates{{1, 1, 1}})
	cp := g.Clone()
	playMoves(t, cp, []Coordinates{{3, 0, 0}})
	if len(g.BoardState()) != 1 || len(cp.BoardState()) != 2 {
		t.Fatalf("clone shares state with original")
	}
	if g.Status().Player != Player1 {
		t.Fatalf("original turn changed: %v", g.Status())
	}
}

// Random alternating play always ends with a winner no later than the last
// cell, and the union-find result agrees with a breadth-first search.
func TestRandomPlayoutsAlwaysFinish(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 1; n <= 9; n++ {
		for game := 0; game < 40; game++ {
			g := mustNew(t, n)
			for g.Status().State == Ongoing {
				free := g.AvailableCells()
				if len(free) == 0 {
					t.Fatalf("size %d: board full without a winner", n)
				}
				p, _ := g.NextPlayer()
				if err := g.AddMove(p, FromIndex(free[rng.Intn(len(free))], n)); err != nil {
					t.Fatalf("size %d: %v", n, err)
				}
			}
			winner, _ := g.Winner()
			if !connects(g, winner) {
				t.Fatalf("size %d: winner %d has no connecting group", n, winner)
			}
			if connects(g, winner.Other()) {
				t.Fatalf("size %d: both players connect", n)
			}
			if sides := groupSides(g.WinningGroup()); sides != allSides {
				t.Fatalf("size %d: winning group touches %b", n, sides)
			}
		}
	}
}

// Every full colouring of a small board has exactly one winner.
func TestFullBoardHasExactlyOneWinner(t *testing.T) {
	for n := 1; n <= 5; n++ {
		total := TotalCells(n)
		for mask := 0; mask < 1<<total; mask++ {
			g := mustNew(t, n)
			var found [2]bool
			for i := 0; i < total; i++ {
				p := PlayerID(mask >> i & 1)
				if g.place(i, p) {
					found[p] = true
				}
			}
			if found[0] == found[1] {
				t.Fatalf("size %d mask %b: union-find winners %v", n, mask, found)
			}
			if connects(g, Player0) != found[0] || connects(g, Player1) != found[1] {
				t.Fatalf("size %d mask %b: union-find disagrees with search", n, mask)
			}
		}
	}
}

func connects(g *Game, p PlayerID) bool {
	for _, m := range g.BoardState() {
		if m.Player == p && groupSides(g.Group(m.Coords)) == allSides {
			return true
		}
	}
	return false
}

func groupSides(cs []Coordinates) sideSet {
	var s sideSet
	for _, c := range cs {
		s |= c.sides()
	}
	return s
}
