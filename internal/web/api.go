package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/gamey/internal/app"
	"github.com/jaminalder/gamey/internal/bot"
	"github.com/jaminalder/gamey/internal/domain"
)

type stateResponse struct {
	ID           string               `json:"id"`
	Size         int                  `json:"size"`
	Status       string               `json:"status"`
	NextPlayer   *domain.PlayerID     `json:"next_player"`
	Winner       *domain.PlayerID     `json:"winner"`
	Board        []domain.Movement    `json:"board"`
	Moves        []domain.Movement    `json:"moves"`
	Available    int                  `json:"available"`
	WinningGroup []domain.Coordinates `json:"winning_group,omitempty"`
	YEN          domain.YEN           `json:"yen"`
}

func newStateResponse(gs *app.GameState) stateResponse {
	g := gs.Game
	resp := stateResponse{
		ID:           gs.ID,
		Size:         g.Size(),
		Status:       g.Status().State.String(),
		Board:        g.BoardState(),
		Moves:        g.Moves(),
		Available:    len(g.AvailableCells()),
		WinningGroup: g.WinningGroup(),
		YEN:          domain.EncodeYEN(g),
	}
	if p, ok := g.NextPlayer(); ok {
		resp.NextPlayer = &p
	}
	if p, ok := g.Winner(); ok {
		resp.Winner = &p
	}
	return resp
}

type newGameRequest struct {
	Size int `json:"size"`
}

type moveRequest struct {
	Player int `json:"player"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Z      int `json:"z"`
}

type moveResponse struct {
	Coords domain.Coordinates `json:"coords"`
	State  stateResponse      `json:"state"`
}

type chooseResponse struct {
	Coords domain.Coordinates `json:"coords"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("malformed request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotStarted), errors.Is(err, bot.ErrUnknownStrategy):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWrongTurn),
		errors.Is(err, domain.ErrCellOccupied),
		errors.Is(err, domain.ErrGameAlreadyFinished),
		errors.Is(err, bot.ErrNoMove):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrInvalidSize),
		errors.Is(err, domain.ErrInvalidNotation),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func (h *handlers) apiState(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(gs))
}

func (h *handlers) apiNewGame(w http.ResponseWriter, r *http.Request) {
	req := newGameRequest{Size: h.defaultSize}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	gs, err := h.svc.NewGame(req.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newStateResponse(gs))
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Player != 0 && req.Player != 1 {
		writeError(w, domain.ErrWrongTurn)
		return
	}
	c := domain.NewCoordinates(req.X, req.Y, req.Z)
	gs, err := h.svc.Play(domain.PlayerID(req.Player), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Coords: c, State: newStateResponse(gs)})
}

func (h *handlers) apiBotMove(w http.ResponseWriter, r *http.Request) {
	gs, c, err := h.svc.PlayBot(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Coords: c, State: newStateResponse(gs)})
}

func (h *handlers) apiSuggest(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Suggest(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chooseResponse{Coords: c})
}

func (h *handlers) apiBots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Bots []string `json:"bots"`
	}{h.svc.Bots()})
}

// apiChoose is the stateless bot endpoint: the position comes in as YEN and
// only the chosen coordinates go back.
func (h *handlers) apiChoose(w http.ResponseWriter, r *http.Request) {
	var y domain.YEN
	if err := decodeBody(r, &y); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Choose(chi.URLParam(r, "name"), y)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chooseResponse{Coords: c})
}
