package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jaminalder/gamey/internal/app"
	"github.com/jaminalder/gamey/internal/bot"
	"github.com/jaminalder/gamey/internal/domain"
)

type handlers struct {
	svc         *app.Service
	tpl         *templates
	heartbeat   time.Duration
	defaultSize int
}

func (h *handlers) renderBoard(gs *app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, newBoardView(gs, h.svc.Bots(), errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, struct{ DefaultSize int }{h.defaultSize}))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	size := h.defaultSize
	if v := r.Form.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid board size", http.StatusBadRequest)
			return
		}
		size = n
	}
	if _, err := h.svc.NewGame(size); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/game", http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Current()
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	v := newBoardView(gs, h.svc.Bots(), "")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, v))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	var vals [4]int
	for i, key := range []string{"x", "y", "z", "player"} {
		n, err := strconv.Atoi(r.Form.Get(key))
		if err != nil {
			http.Error(w, "invalid "+key, http.StatusBadRequest)
			return
		}
		vals[i] = n
	}
	var gs *app.GameState
	var err error
	if vals[3] != 0 && vals[3] != 1 {
		err = domain.ErrWrongTurn
	} else {
		gs, err = h.svc.Play(domain.PlayerID(vals[3]), domain.NewCoordinates(vals[0], vals[1], vals[2]))
	}
	h.writeBoard(w, gs, err)
}

func (h *handlers) botMove(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	gs, _, err := h.svc.PlayBot(r.Form.Get("bot"))
	h.writeBoard(w, gs, err)
}

// writeBoard renders the board fragment, falling back to the current game
// with an error banner when the action failed.
func (h *handlers) writeBoard(w http.ResponseWriter, gs *app.GameState, err error) {
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		if gs == nil {
			gs, _ = h.svc.Current()
		}
	}
	if gs == nil {
		http.Error(w, errMsg, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(gs, errMsg))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotStarted):
		return "No game in progress"
	case errors.Is(err, domain.ErrWrongTurn):
		return "Not your turn"
	case errors.Is(err, domain.ErrCellOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return "Not a cell of this board"
	case errors.Is(err, domain.ErrGameAlreadyFinished):
		return "Game is over"
	case errors.Is(err, bot.ErrUnknownStrategy):
		return "Unknown bot"
	default:
		return "Invalid move"
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx)
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case gs, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", h.renderBoard(&gs, ""))
			flusher.Flush()
		}
	}
}

// writeEvent emits one server-sent event, one data line per payload line.
func writeEvent(w io.Writer, name string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range strings.Split(string(payload), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
