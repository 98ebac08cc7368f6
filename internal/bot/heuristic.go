package bot

import "github.com/jaminalder/gamey/internal/domain"

// Weights scale the terms of the heuristic score.
type Weights struct {
	Centrality  float64
	OwnAdjacent float64
	Threat      float64
	SideTouch   float64
}

// DefaultWeights favour the centre first, then chain extension and blocking.
var DefaultWeights = Weights{
	Centrality:  3.0,
	OwnAdjacent: 2.5,
	Threat:      2.0,
	SideTouch:   0.5,
}

type HeuristicOption func(h *Heuristic)

func WithWeights(w Weights) HeuristicOption {
	return func(h *Heuristic) {
		h.weights = w
	}
}

// Heuristic scores every free cell and plays the best one. Ties go to the
// lowest index.
type Heuristic struct {
	weights Weights
}

func NewHeuristic(options ...HeuristicOption) *Heuristic {
	h := &Heuristic{weights: DefaultWeights}
	for _, option := range options {
		option(h)
	}
	return h
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) ChooseMove(v GameView) (domain.Coordinates, bool) {
	me, ok := v.NextPlayer()
	if !ok {
		return domain.Coordinates{}, false
	}
	size := v.Size()
	var (
		best      domain.Coordinates
		bestScore float64
		found     bool
	)
	for _, idx := range v.AvailableCells() {
		c := domain.FromIndex(idx, size)
		s := h.score(v, c, me)
		if !found || s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}

// score is the weighted sum of centrality, own adjacency, opponent threat
// and side touches for placing me at c.
func (h *Heuristic) score(v GameView, c domain.Coordinates, me domain.PlayerID) float64 {
	opp := me.Other()
	size := v.Size()

	centrality := 0.0
	if maxCentrality := float64(size-1) / 3.0; maxCentrality > 0 {
		centrality = float64(min(c.X, c.Y, c.Z)) / maxCentrality
	}

	var own, oppNear, oppFar int
	nbs := c.Neighbors()
	for _, nb := range nbs {
		if p, ok := v.PlayerAt(nb); ok {
			if p == me {
				own++
			} else if p == opp {
				oppNear++
			}
		}
	}
	// neighbors of neighbors, counted with multiplicity, origin excluded
	for _, nb := range nbs {
		for _, nb2 := range nb.Neighbors() {
			if nb2 == c {
				continue
			}
			if p, ok := v.PlayerAt(nb2); ok && p == opp {
				oppFar++
			}
		}
	}
	threat := 2.0*float64(oppNear) + 1.0*float64(oppFar)

	return h.weights.Centrality*centrality +
		h.weights.OwnAdjacent*float64(own) +
		h.weights.Threat*threat +
		h.weights.SideTouch*float64(c.SidesTouched())
}
