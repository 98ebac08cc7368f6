package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaminalder/gamey/internal/app"
)

type Option func(h *handlers)

// WithHeartbeat sets the idle interval for SSE and websocket keepalives.
func WithHeartbeat(d time.Duration) Option {
	return func(h *handlers) {
		h.heartbeat = d
	}
}

// WithDefaultSize sets the board size used when a request names none.
func WithDefaultSize(size int) Option {
	return func(h *handlers) {
		h.defaultSize = size
	}
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, options ...Option) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: 15 * time.Second, defaultSize: 11}
	for _, option := range options {
		option(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Route("/game", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/", h.create)
		r.Post("/play", h.play)
		r.Post("/bot", h.botMove)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/game", h.apiState)
		r.Post("/game", h.apiNewGame)
		r.Post("/game/move", h.apiMove)
		r.Post("/game/bot/{name}", h.apiBotMove)
		r.Get("/game/suggest/{name}", h.apiSuggest)
		r.Get("/bots", h.apiBots)
		r.Post("/bots/{name}/choose", h.apiChoose)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
		}{"ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
