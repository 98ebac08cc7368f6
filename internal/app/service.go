package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/gamey/internal/bot"
	"github.com/jaminalder/gamey/internal/domain"
)

// ErrNotStarted is returned when no game has been created yet.
var ErrNotStarted = errors.New("no game in progress")

// GameState is the active match plus bookkeeping. Every value handed out by
// the service carries its own copy of Game.
type GameState struct {
	ID      string
	Game    *domain.Game
	Created time.Time
	Updated time.Time
}

// subscriberBuffer is how many updates a subscriber may fall behind before
// it is dropped.
const subscriberBuffer = 16

type subscriber struct {
	ch        chan GameState
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service owns the single shared game. Every read-then-write sequence
// (status, choose, apply) runs under one mutex.
type Service struct {
	mu      sync.Mutex
	current *GameState
	bots    *bot.Registry
	maxSize int
	subs    map[*subscriber]struct{}
}

// NewService creates a service without an active game. Boards larger than
// maxSize are refused.
func NewService(bots *bot.Registry, maxSize int) *Service {
	return &Service{
		bots:    bots,
		maxSize: maxSize,
		subs:    make(map[*subscriber]struct{}),
	}
}

// Bots lists the registered strategy names.
func (s *Service) Bots() []string { return s.bots.Names() }

// NewGame starts a fresh game, replacing the current one.
func (s *Service) NewGame(size int) (*GameState, error) {
	if err := s.checkSize(size); err != nil {
		return nil, err
	}
	g, err := domain.New(size)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := time.Now()
	s.current = &GameState{ID: uuid.NewString(), Game: g, Created: now, Updated: now}
	s.publishLocked()
	cp := s.snapshotLocked()
	s.mu.Unlock()

	GamesStarted.Inc()
	log.Info().Str("game", cp.ID).Int("size", size).Msg("game started")
	return &cp, nil
}

// Current returns a copy of the active game.
func (s *Service) Current() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotStarted
	}
	cp := s.snapshotLocked()
	return &cp, nil
}

// Play applies a placement for player.
func (s *Service) Play(player domain.PlayerID, c domain.Coordinates) (*GameState, error) {
	gs, err := s.apply(func(g *domain.Game) error {
		return g.AddMove(player, c)
	})
	if err != nil {
		countRejected(err)
		log.Debug().Err(err).Msg("move rejected")
		return nil, err
	}
	s.moved(gs, "human")
	return gs, nil
}

// PlayBot lets the named strategy move for the player to move.
func (s *Service) PlayBot(name string) (*GameState, domain.Coordinates, error) {
	strategy, err := s.bots.Get(name)
	if err != nil {
		return nil, domain.Coordinates{}, err
	}

	var c domain.Coordinates
	gs, err := s.apply(func(g *domain.Game) error {
		player, ok := g.NextPlayer()
		if !ok {
			return domain.ErrGameAlreadyFinished
		}
		if c, ok = choose(strategy, g); !ok {
			return fmt.Errorf("%w: %s", bot.ErrNoMove, name)
		}
		if err := g.AddMove(player, c); err != nil {
			return fmt.Errorf("%s chose %v: %w", name, c, err)
		}
		return nil
	})
	if err != nil {
		countRejected(err)
		return nil, domain.Coordinates{}, err
	}
	s.moved(gs, "bot")
	return gs, c, nil
}

// Suggest asks the named strategy for a move without applying it.
func (s *Service) Suggest(name string) (domain.Coordinates, error) {
	strategy, err := s.bots.Get(name)
	if err != nil {
		return domain.Coordinates{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Coordinates{}, ErrNotStarted
	}
	c, ok := choose(strategy, s.current.Game)
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", bot.ErrNoMove, name)
	}
	return c, nil
}

// Choose answers a stateless bot request for the position described by y.
// The active game is not involved.
func (s *Service) Choose(name string, y domain.YEN) (domain.Coordinates, error) {
	strategy, err := s.bots.Get(name)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if err := s.checkSize(y.Size); err != nil {
		return domain.Coordinates{}, err
	}
	g, err := domain.DecodeYEN(y)
	if err != nil {
		return domain.Coordinates{}, err
	}
	c, ok := choose(strategy, g)
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", bot.ErrNoMove, name)
	}
	return c, nil
}

// Subscribe registers for a copy of the game after every change. The
// channel is closed when ctx ends, on unsubscribe, or when the subscriber
// falls behind.
func (s *Service) Subscribe(ctx context.Context) (<-chan GameState, func()) {
	sub := &subscriber{ch: make(chan GameState, subscriberBuffer)}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	Subscribers.Inc()
	s.mu.Unlock()

	done := make(chan struct{})
	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			close(done)
			s.mu.Lock()
			s.dropLocked(sub)
			s.mu.Unlock()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-done:
		}
	}()
	return sub.ch, unsub
}

func choose(strategy bot.Strategy, g *domain.Game) (domain.Coordinates, bool) {
	start := time.Now()
	c, ok := strategy.ChooseMove(g)
	BotDecision.WithLabelValues(strategy.Name()).Observe(time.Since(start).Seconds())
	return c, ok
}

func (s *Service) checkSize(size int) error {
	if size > s.maxSize {
		return fmt.Errorf("%w: %d exceeds maximum %d", domain.ErrInvalidSize, size, s.maxSize)
	}
	return nil
}

// apply runs move against the active game under s.mu. On success the
// subscribers are notified and a copy is returned.
func (s *Service) apply(move func(g *domain.Game) error) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotStarted
	}
	if err := move(s.current.Game); err != nil {
		return nil, err
	}
	s.current.Updated = time.Now()
	s.publishLocked()
	cp := s.snapshotLocked()
	return &cp, nil
}

func (s *Service) moved(gs *GameState, source string) {
	recordMove(gs.Game, source)
	if w, ok := gs.Game.Winner(); ok {
		log.Info().Str("game", gs.ID).Uint8("winner", uint8(w)).Int("moves", len(gs.Game.Moves())).Msg("game finished")
	}
}

func (s *Service) snapshotLocked() GameState {
	cp := *s.current
	cp.Game = s.current.Game.Clone()
	return cp
}

// publishLocked hands each subscriber its own copy without blocking; slow
// subscribers are dropped. Holding s.mu keeps deliveries in order.
func (s *Service) publishLocked() {
	for sub := range s.subs {
		select {
		case sub.ch <- s.snapshotLocked():
		default:
			s.dropLocked(sub)
		}
	}
}

func (s *Service) dropLocked(sub *subscriber) {
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	sub.close()
	Subscribers.Dec()
}
