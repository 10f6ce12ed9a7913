package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"route-cost-service/internal/domain"
	"time"

	"github.com/rs/zerolog/log"
)

type FirstSolutionStrategy int

const (
	// PathCheapestArc extends the route from the start along the cheapest
	// feasible arc until every node is placed.
	PathCheapestArc FirstSolutionStrategy = iota
)

type Metaheuristic int

const (
	// GuidedLocalSearch escapes local optima by penalizing the expensive arcs
	// that keep showing up in them.
	GuidedLocalSearch Metaheuristic = iota
	// GreedyDescent stops at the first local optimum.
	GreedyDescent
)

func (m Metaheuristic) String() string {
	switch m {
	case GuidedLocalSearch:
		return "guided_local_search"
	case GreedyDescent:
		return "greedy_descent"
	default:
		return fmt.Sprintf("metaheuristic(%d)", int(m))
	}
}

// SolverOptions configures one search. Zero fields fall back to
// DefaultSolverOptions.
type SolverOptions struct {
	FirstSolution FirstSolutionStrategy
	Metaheuristic Metaheuristic

	// TimeLimit bounds the whole search, construction included.
	TimeLimit time.Duration
	// StallIterations ends the improvement phase after this many guided
	// rounds without a better route. Graphs of up to eight real nodes are
	// then finished by exhaustive enumeration.
	StallIterations int
	// LambdaCoefficient scales arc penalties against the average arc cost of
	// the current local optimum.
	LambdaCoefficient float64

	// HorizonMultiplier sets the cumulative time cap to the largest single arc
	// time times this value; zero means N+1.
	HorizonMultiplier int
	// Horizon, when positive, replaces the multiplier with an absolute cap,
	// rounded up to whole seconds.
	Horizon time.Duration

	LogSearch bool
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		FirstSolution:     PathCheapestArc,
		Metaheuristic:     GuidedLocalSearch,
		TimeLimit:         30 * time.Second,
		StallIterations:   100,
		LambdaCoefficient: 0.1,
	}
}

// Solution of one search in augmented index space. Next[i] is the node
// visited after i; the terminal has no successor (-1).
type Assignment struct {
	Next []int
	// Objective values as seen by the search (truncated to integers).
	Distance int64
	Time     int64
}

type StopReason string

const (
	StopConverged StopReason = "converged"
	StopTimeLimit StopReason = "time_limit"
	StopCanceled  StopReason = "canceled"
)

type SearchStats struct {
	Iterations   int
	Improvements int
	InitialCost  int64
	BestCost     int64
	Elapsed      time.Duration
	StopReason   StopReason
}

// Solver finds a low-distance open path from the graph's start through every
// real node to the terminal. It holds no per-search state.
type Solver struct {
	opts SolverOptions
}

func NewSolver(opts SolverOptions) *Solver {
	def := DefaultSolverOptions()
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = def.TimeLimit
	}
	if opts.StallIterations <= 0 {
		opts.StallIterations = def.StallIterations
	}
	if opts.LambdaCoefficient <= 0 {
		opts.LambdaCoefficient = def.LambdaCoefficient
	}
	return &Solver{opts: opts}
}

func (s *Solver) Options() SolverOptions { return s.opts }

// Solve runs construction then improvement until convergence, the time limit
// or ctx cancellation. Once a feasible route exists it is always returned;
// ErrNoSolutionFound is reported only when construction found none.
func (s *Solver) Solve(ctx context.Context, g *AugmentedGraph) (*Assignment, SearchStats, error) {
	began := time.Now()

	sr, err := newSearch(ctx, g, s.opts, began)
	if err != nil {
		return nil, SearchStats{}, fmt.Errorf("solve: %w", err)
	}

	path, ok := sr.construct()
	if !ok {
		stats := sr.stats(began)
		if cerr := ctx.Err(); cerr != nil {
			return nil, stats, fmt.Errorf("solve: %w: %w", domain.ErrNoSolutionFound, cerr)
		}
		return nil, stats, fmt.Errorf("solve: %w", domain.ErrNoSolutionFound)
	}

	best := sr.improve(path)
	a := sr.assignment(best)
	stats := sr.stats(began)
	stats.BestCost = a.Distance

	if s.opts.LogSearch {
		log.Debug().
			Str("metaheuristic", s.opts.Metaheuristic.String()).
			Int("nodes", g.Size()).
			Int("iterations", stats.Iterations).
			Int64("initial_cost", stats.InitialCost).
			Int64("best_cost", stats.BestCost).
			Str("stop", string(stats.StopReason)).
			Dur("elapsed", stats.Elapsed).
			Msg("search finished")
	}

	return a, stats, nil
}

// maxArcValue keeps truncated arc sums exact in float64 and far from int64
// overflow.
const maxArcValue = 1e15

type search struct {
	ctx  context.Context
	opts SolverOptions

	n     int // real nodes
	size  int // real nodes + terminal
	start int

	// Flattened size×size arc tables; ok is false for missing arcs.
	cost []int64
	tm   []int64
	ok   []bool

	horizon  int64
	deadline time.Time

	penalty []int
	lambda  float64

	evals        int
	expired      bool
	reason       StopReason
	iterations   int
	improvements int
	initialCost  int64
}

func newSearch(ctx context.Context, g *AugmentedGraph, opts SolverOptions, began time.Time) (*search, error) {
	size := g.Size()
	if size < 3 || g.Terminal != size-1 || g.Start < 0 || g.Start >= g.Terminal {
		return nil, fmt.Errorf("malformed augmented graph (size=%d start=%d terminal=%d): %w",
			size, g.Start, g.Terminal, domain.ErrInternalFailure)
	}

	s := &search{
		ctx:     ctx,
		opts:    opts,
		n:       size - 1,
		size:    size,
		start:   g.Start,
		cost:    make([]int64, size*size),
		tm:      make([]int64, size*size),
		ok:      make([]bool, size*size),
		penalty: make([]int, size*size),
	}

	var maxTime int64
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			d, t := g.Distance[i][j], g.Time[i][j]
			if i == j || math.IsInf(d, 1) || math.IsInf(t, 1) {
				continue
			}
			if d > maxArcValue || t > maxArcValue {
				return nil, fmt.Errorf("arc %d->%d exceeds the integer search range: %w", i, j, domain.ErrShapeMismatch)
			}
			a := i*size + j
			s.ok[a] = true
			s.cost[a] = int64(d) // truncates toward zero
			s.tm[a] = int64(t)
			if s.tm[a] > maxTime {
				maxTime = s.tm[a]
			}
		}
	}

	mult := int64(opts.HorizonMultiplier)
	if mult <= 0 {
		mult = int64(size)
	}
	s.horizon = maxTime * mult
	if opts.Horizon > 0 {
		// Round up so a sub-second cap never collapses to zero.
		s.horizon = int64((opts.Horizon + time.Second - 1) / time.Second)
	}

	s.deadline = began.Add(opts.TimeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(s.deadline) {
		s.deadline = d
	}

	return s, nil
}

// done reports whether the search budget is spent. The clock and ctx are
// sampled every 64 calls.
func (s *search) done() bool {
	if s.expired {
		return true
	}
	s.evals++
	if s.evals&63 != 0 {
		return false
	}

	if err := s.ctx.Err(); err != nil {
		s.expired = true
		s.reason = StopCanceled
		if errors.Is(err, context.DeadlineExceeded) {
			s.reason = StopTimeLimit
		}
		return true
	}
	if time.Now().After(s.deadline) {
		s.expired = true
		s.reason = StopTimeLimit
		return true
	}
	return false
}

// evaluate returns the truncated distance and time of a path over real nodes.
// The final hop to the terminal is free and always allowed.
func (s *search) evaluate(path []int) (dist, elapsed int64, ok bool) {
	for k := 0; k+1 < len(path); k++ {
		a := path[k]*s.size + path[k+1]
		if !s.ok[a] {
			return 0, 0, false
		}
		dist += s.cost[a]
		elapsed += s.tm[a]
		if elapsed > s.horizon {
			return 0, 0, false
		}
	}
	return dist, elapsed, true
}

func (s *search) trueCost(path []int) (float64, bool) {
	d, _, ok := s.evaluate(path)
	return float64(d), ok
}

func (s *search) augmentedCost(path []int) (float64, bool) {
	d, _, ok := s.evaluate(path)
	if !ok {
		return 0, false
	}
	var p int
	for k := 0; k+1 < len(path); k++ {
		p += s.penalty[path[k]*s.size+path[k+1]]
	}
	return float64(d) + s.lambda*float64(p), true
}

func (s *search) assignment(path []int) *Assignment {
	next := make([]int, s.size)
	for i := range next {
		next[i] = -1
	}
	for k := 0; k+1 < len(path); k++ {
		next[path[k]] = path[k+1]
	}
	next[path[len(path)-1]] = s.n

	d, t, _ := s.evaluate(path)
	return &Assignment{Next: next, Distance: d, Time: t}
}

func (s *search) stats(began time.Time) SearchStats {
	reason := s.reason
	if reason == "" {
		reason = StopConverged
	}
	return SearchStats{
		Iterations:   s.iterations,
		Improvements: s.improvements,
		InitialCost:  s.initialCost,
		Elapsed:      time.Since(began),
		StopReason:   reason,
	}
}
