package domain

import (
	"errors"
	"fmt"
)

// PlayerID identifies one of the two players.
type PlayerID uint8

const (
	Player0 PlayerID = iota
	Player1
)

// Other returns the opponent of p.
func (p PlayerID) Other() PlayerID { return 1 - p }

// Valid reports whether p is one of the two players.
func (p PlayerID) Valid() bool { return p == Player0 || p == Player1 }

// Movement is a placement of one piece. It also describes an occupied cell
// in BoardState.
type Movement struct {
	Player PlayerID    `json:"player"`
	Coords Coordinates `json:"coords"`
}

// State is the phase of a match.
type State uint8

const (
	Ongoing State = iota
	Finished
)

func (s State) String() string {
	if s == Finished {
		return "finished"
	}
	return "ongoing"
}

// Status is Ongoing{next player} or Finished{winner}. Player holds the
// player to move while ongoing and the winner once finished.
type Status struct {
	State  State
	Player PlayerID
}

func (s Status) String() string {
	if s.State == Finished {
		return fmt.Sprintf("finished (winner %d)", s.Player)
	}
	return fmt.Sprintf("ongoing (next %d)", s.Player)
}

// Errors returned by domain operations.
var (
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrWrongTurn           = errors.New("wrong turn")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrCellOccupied        = errors.New("cell occupied")
	ErrInvalidSize         = errors.New("invalid board size")
)

// cell is 0 when empty, otherwise owner+1.
type cell uint8

const empty cell = 0

func owned(p PlayerID) cell { return cell(p) + 1 }

// Game holds the state of a Game of Y match. It is not safe for concurrent
// use; callers that share one Game must serialize access.
type Game struct {
	size   int
	cells  []cell
	free   int
	status Status
	moves  []Movement
	groups groups
}

// New returns an empty board of the given side length with player 0 to move.
func New(size int) (*Game, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	n := TotalCells(size)
	return &Game{
		size:   size,
		cells:  make([]cell, n),
		free:   n,
		status: Status{State: Ongoing, Player: Player0},
		groups: newGroups(n),
	}, nil
}

func (g *Game) Size() int { return g.size }

func (g *Game) Status() Status { return g.status }

// NextPlayer returns the player to move, or false once the game is finished.
func (g *Game) NextPlayer() (PlayerID, bool) {
	if g.status.State == Finished {
		return 0, false
	}
	return g.status.Player, true
}

// Winner returns the winner, or false while the game is ongoing.
func (g *Game) Winner() (PlayerID, bool) {
	if g.status.State != Finished {
		return 0, false
	}
	return g.status.Player, true
}

// PlayerAt returns the owner of c, or false if c is empty or off the board.
func (g *Game) PlayerAt(c Coordinates) (PlayerID, bool) {
	if !c.Valid(g.size) {
		return 0, false
	}
	v := g.cells[c.ToIndex(g.size)]
	if v == empty {
		return 0, false
	}
	return PlayerID(v - 1), true
}

// AvailableCells returns the indices of all empty cells in ascending order.
func (g *Game) AvailableCells() []int {
	out := make([]int, 0, g.free)
	for i, v := range g.cells {
		if v == empty {
			out = append(out, i)
		}
	}
	return out
}

// BoardState returns the occupied cells ordered by index.
func (g *Game) BoardState() []Movement {
	out := make([]Movement, 0, len(g.cells)-g.free)
	for i, v := range g.cells {
		if v != empty {
			out = append(out, Movement{Player: PlayerID(v - 1), Coords: FromIndex(i, g.size)})
		}
	}
	return out
}

// Moves returns the accepted placements in the order they were played.
func (g *Game) Moves() []Movement {
	return append([]Movement(nil), g.moves...)
}

// AddMove places a piece for player at c. On failure the game is unchanged.
func (g *Game) AddMove(player PlayerID, c Coordinates) error {
	if g.status.State == Finished {
		return ErrGameAlreadyFinished
	}
	if !player.Valid() || player != g.status.Player {
		return fmt.Errorf("%w: player %d, expected %d", ErrWrongTurn, player, g.status.Player)
	}
	if !c.Valid(g.size) {
		return fmt.Errorf("%w: %v on board of size %d", ErrInvalidCoordinate, c, g.size)
	}
	idx := c.ToIndex(g.size)
	if g.cells[idx] != empty {
		return fmt.Errorf("%w: %v", ErrCellOccupied, c)
	}

	g.moves = append(g.moves, Movement{Player: player, Coords: c})
	if g.place(idx, player) {
		g.status = Status{State: Finished, Player: player}
		return nil
	}
	g.status.Player = player.Other()
	return nil
}

// place records ownership of idx and merges it with adjacent same-owner
// groups. It reports whether the resulting group touches all three sides.
func (g *Game) place(idx int, player PlayerID) bool {
	c := FromIndex(idx, g.size)
	g.cells[idx] = owned(player)
	g.free--
	g.groups.sides[idx] = c.sides()
	root := idx
	for _, nb := range c.Neighbors() {
		j := nb.ToIndex(g.size)
		if g.cells[j] == owned(player) {
			root = g.groups.union(root, j)
		}
	}
	return g.groups.sides[g.groups.find(root)] == allSides
}

// Group returns the connectivity group containing c, ordered by index, or
// nil if c is empty or off the board.
func (g *Game) Group(c Coordinates) []Coordinates {
	p, ok := g.PlayerAt(c)
	if !ok {
		return nil
	}
	seen := make([]bool, len(g.cells))
	start := c.ToIndex(g.size)
	seen[start] = true
	queue := []int{start}
	for k := 0; k < len(queue); k++ {
		for _, nb := range FromIndex(queue[k], g.size).Neighbors() {
			j := nb.ToIndex(g.size)
			if !seen[j] && g.cells[j] == owned(p) {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}
	out := make([]Coordinates, 0, len(queue))
	for i, ok := range seen {
		if ok {
			out = append(out, FromIndex(i, g.size))
		}
	}
	return out
}

// WinningGroup returns the winner's group that connects all three sides,
// or nil while the game is ongoing.
func (g *Game) WinningGroup() []Coordinates {
	winner, ok := g.Winner()
	if !ok {
		return nil
	}
	for i, v := range g.cells {
		if v == owned(winner) && g.groups.sides[g.groups.root(i)] == allSides {
			return g.Group(FromIndex(i, g.size))
		}
	}
	return nil
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	cp := *g
	cp.cells = append([]cell(nil), g.cells...)
	cp.moves = append([]Movement(nil), g.moves...)
	cp.groups = g.groups.clone()
	return &cp
}
