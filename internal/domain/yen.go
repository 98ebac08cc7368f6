package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNotation is returned when a YEN document cannot be decoded.
var ErrInvalidNotation = errors.New("invalid YEN notation")

// DefaultPlayers are the symbols used for player 0 and player 1.
var DefaultPlayers = []string{"B", "R"}

const emptySymbol = '.'

// YEN is the textual board notation exchanged with bots. Layout holds one
// row per board row joined by '/', row r having r+1 cells.
type YEN struct {
	Size    int      `json:"size"`
	Turn    int      `json:"turn"`
	Players []string `json:"players"`
	Layout  string   `json:"layout"`
}

// EncodeYEN renders the current position of g. Turn is the next player while
// ongoing and the winner once finished.
func EncodeYEN(g *Game) YEN {
	var sb strings.Builder
	idx := 0
	for r := 0; r < g.size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c <= r; c++ {
			switch v := g.cells[idx]; v {
			case empty:
				sb.WriteByte(emptySymbol)
			default:
				sb.WriteString(DefaultPlayers[v-1])
			}
			idx++
		}
	}
	return YEN{
		Size:    g.size,
		Turn:    int(g.status.Player),
		Players: append([]string(nil), DefaultPlayers...),
		Layout:  sb.String(),
	}
}

// DecodeYEN rebuilds a game from y. The status is Finished if either
// player already has a group touching all three sides, otherwise it is
// Ongoing with Turn to move. The move history of the result is empty.
func DecodeYEN(y YEN) (*Game, error) {
	if y.Size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidNotation, y.Size)
	}
	if y.Turn != 0 && y.Turn != 1 {
		return nil, fmt.Errorf("%w: turn %d", ErrInvalidNotation, y.Turn)
	}
	players := y.Players
	if len(players) == 0 {
		players = DefaultPlayers
	}
	if len(players) != 2 || len(players[0]) != 1 || len(players[1]) != 1 ||
		players[0] == players[1] || players[0][0] == emptySymbol || players[1][0] == emptySymbol {
		return nil, fmt.Errorf("%w: players %q", ErrInvalidNotation, players)
	}
	rows := strings.Split(y.Layout, "/")
	if len(rows) != y.Size {
		return nil, fmt.Errorf("%w: %d rows for size %d", ErrInvalidNotation, len(rows), y.Size)
	}

	for r, row := range rows {
		if len(row) != r+1 {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidNotation, r, len(row), r+1)
		}
	}

	g, err := New(y.Size)
	if err != nil {
		return nil, err
	}
	var winner *PlayerID
	idx := 0
	for r, row := range rows {
		for i := 0; i < len(row); i++ {
			var p PlayerID
			switch row[i] {
			case emptySymbol:
				idx++
				continue
			case players[0][0]:
				p = Player0
			case players[1][0]:
				p = Player1
			default:
				return nil, fmt.Errorf("%w: unknown symbol %q in row %d", ErrInvalidNotation, row[i], r)
			}
			if g.place(idx, p) && winner == nil {
				w := p
				winner = &w
			}
			idx++
		}
	}

	if winner != nil {
		g.status = Status{State: Finished, Player: *winner}
	} else {
		g.status = Status{State: Ongoing, Player: PlayerID(y.Turn)}
	}
	return g, nil
}
