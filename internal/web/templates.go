package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jaminalder/gamey/internal/app"
	"github.com/jaminalder/gamey/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Game of Y</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex;justify-content:center}
.row form{margin:1px}
.cell{width:2.2em;height:2.2em;border-radius:50%}
.p0{background:#2b6cb0;color:#fff}.p1{background:#c53030;color:#fff}
.win{outline:3px solid gold}
</style>
</head><body>{{template "content" .}}</body></html>`))
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Game of Y</h1>
<form action="/game" method="post">
  <label>Board size <input type="number" name="size" min="1" value="{{.DefaultSize}}"></label>
  <button>New game</button>
</form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/events">
  <div id="board" sse-swap="board">{{template "board" .}}</div>
</div>
<form action="/game" method="post"><input type="hidden" name="size" value="{{.Size}}"><button>Restart</button></form>`))
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, data any) []byte {
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Status}}</p>
  {{range .Rows}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/play">
        <input type="hidden" name="x" value="{{.X}}">
        <input type="hidden" name="y" value="{{.Y}}">
        <input type="hidden" name="z" value="{{.Z}}">
        <input type="hidden" name="player" value="{{$.Next}}">
        <button type="submit" class="cell {{.Class}}" title="({{.X}},{{.Y}},{{.Z}})"{{if $.Finished}} disabled{{end}}>{{.Symbol}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if not .Finished}}
  {{range .Bots}}
  <form hx-post="/game/bot" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/bot">
    <input type="hidden" name="bot" value="{{.}}">
    <button type="submit">Let {{.}} move</button>
  </form>
  {{end}}
  {{end}}
</div>
`

type cellView struct {
	X, Y, Z int
	Symbol  string
	Class   string
}

type boardView struct {
	Size     int
	Rows     [][]cellView
	Status   string
	Next     int
	Finished bool
	Bots     []string
	Error    string
}

// newBoardView lays the cells out row by row from the top vertex, row r
// holding the r+1 cells with x == size-1-r.
func newBoardView(gs *app.GameState, bots []string, errMsg string) boardView {
	g := gs.Game
	size := g.Size()
	winning := make(map[domain.Coordinates]bool)
	for _, c := range g.WinningGroup() {
		winning[c] = true
	}

	v := boardView{Size: size, Bots: bots, Error: errMsg}
	idx := 0
	for r := 0; r < size; r++ {
		row := make([]cellView, 0, r+1)
		for i := 0; i <= r; i++ {
			c := domain.FromIndex(idx, size)
			cv := cellView{X: c.X, Y: c.Y, Z: c.Z}
			if p, ok := g.PlayerAt(c); ok {
				cv.Symbol = domain.DefaultPlayers[p]
				cv.Class = fmt.Sprintf("p%d", p)
				if winning[c] {
					cv.Class += " win"
				}
			}
			row = append(row, cv)
			idx++
		}
		v.Rows = append(v.Rows, row)
	}

	if w, ok := g.Winner(); ok {
		v.Finished = true
		v.Status = fmt.Sprintf("Player %d (%s) wins", w, domain.DefaultPlayers[w])
	} else {
		p, _ := g.NextPlayer()
		v.Next = int(p)
		v.Status = fmt.Sprintf("Player %d (%s) to move", p, domain.DefaultPlayers[p])
	}
	return v
}
