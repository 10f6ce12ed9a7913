package routing

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog/log"
)

const improvementEps = 1e-9

// exactNodeLimit is the largest real node count whose guided search result is
// checked against a full branch-and-bound enumeration.
const exactNodeLimit = 8

// construct builds the first route by always taking the cheapest feasible arc
// out of the current node (ties go to the lower index). When the greedy walk
// dead-ends it falls back to a depth-first completion in the same order.
func (s *search) construct() ([]int, bool) {
	path := make([]int, 1, s.n)
	path[0] = s.start
	visited := make([]bool, s.n)
	visited[s.start] = true

	var elapsed int64
	for len(path) < s.n {
		cur := path[len(path)-1]
		next := -1
		for j := 0; j < s.n; j++ {
			if visited[j] {
				continue
			}
			a := cur*s.size + j
			if !s.ok[a] || elapsed+s.tm[a] > s.horizon {
				continue
			}
			if next == -1 || s.cost[a] < s.cost[cur*s.size+next] {
				next = j
			}
		}
		if next == -1 {
			return s.complete()
		}

		elapsed += s.tm[cur*s.size+next]
		visited[next] = true
		path = append(path, next)
	}

	return path, true
}

func (s *search) complete() ([]int, bool) {
	path := make([]int, 1, s.n)
	path[0] = s.start
	visited := make([]bool, s.n)
	visited[s.start] = true

	var walk func(elapsed int64) bool
	walk = func(elapsed int64) bool {
		if len(path) == s.n {
			return true
		}
		if s.done() {
			return false
		}

		cur := path[len(path)-1]
		for _, j := range s.cheapestFirst(cur, visited) {
			a := cur*s.size + j
			if elapsed+s.tm[a] > s.horizon {
				continue
			}
			visited[j] = true
			path = append(path, j)
			if walk(elapsed + s.tm[a]) {
				return true
			}
			path = path[:len(path)-1]
			visited[j] = false
		}
		return false
	}

	if walk(0) {
		return path, true
	}
	return nil, false
}

// cheapestFirst lists the unvisited real nodes reachable from cur, cheapest
// arc first, lower index first on ties.
func (s *search) cheapestFirst(cur int, visited []bool) []int {
	out := make([]int, 0, s.n)
	for j := 0; j < s.n; j++ {
		if !visited[j] && s.ok[cur*s.size+j] {
			out = append(out, j)
		}
	}
	slices.SortStableFunc(out, func(a, b int) int {
		return cmp.Compare(s.cost[cur*s.size+a], s.cost[cur*s.size+b])
	})
	return out
}

// improve runs local search on the first route, then guided rounds until the
// route stops improving or the budget runs out. It returns the cheapest
// route seen.
func (s *search) improve(initial []int) []int {
	s.initialCost, _, _ = s.evaluate(initial)

	cur := s.descend(initial, s.trueCost)
	best := slices.Clone(cur)
	bestCost, _, _ := s.evaluate(best)

	if s.opts.Metaheuristic == GreedyDescent {
		return best
	}

	stall := 0
	for !s.expired && bestCost > 0 && stall < s.opts.StallIterations {
		s.iterations++

		curCost, _, _ := s.evaluate(cur)
		s.lambda = s.opts.LambdaCoefficient * float64(curCost) / float64(s.n)
		s.penalize(cur)
		cur = s.descend(cur, s.augmentedCost)

		c, _, _ := s.evaluate(cur)
		if c < bestCost {
			best = slices.Clone(cur)
			bestCost = c
			s.improvements++
			stall = 0
			if s.opts.LogSearch {
				log.Debug().Int("iteration", s.iterations).Int64("cost", c).Msg("search improved")
			}
			continue
		}
		stall++
	}

	if s.n <= exactNodeLimit && !s.expired {
		if p := s.enumerate(best); p != nil {
			best = p
			s.improvements++
		}
	}

	return best
}

// enumerate walks every feasible path from the start, pruning partial paths
// that already cost at least the incumbent. It returns the cheapest complete
// path strictly better than incumbent, or nil.
func (s *search) enumerate(incumbent []int) []int {
	bound, _, _ := s.evaluate(incumbent)
	var best []int

	path := make([]int, 1, s.n)
	path[0] = s.start
	visited := make([]bool, s.n)
	visited[s.start] = true

	var walk func(dist, elapsed int64)
	walk = func(dist, elapsed int64) {
		if len(path) == s.n {
			if dist < bound {
				bound = dist
				best = slices.Clone(path)
			}
			return
		}
		if s.done() {
			return
		}

		cur := path[len(path)-1]
		for j := 0; j < s.n; j++ {
			if visited[j] {
				continue
			}
			a := cur*s.size + j
			if !s.ok[a] || elapsed+s.tm[a] > s.horizon || dist+s.cost[a] >= bound {
				continue
			}
			visited[j] = true
			path = append(path, j)
			walk(dist+s.cost[a], elapsed+s.tm[a])
			path = path[:len(path)-1]
			visited[j] = false
		}
	}

	walk(0, 0)
	return best
}

// penalize bumps the penalty of every arc of path with maximal utility
// cost/(1+penalty).
func (s *search) penalize(path []int) {
	maxUtil := -1.0
	for k := 0; k+1 < len(path); k++ {
		a := path[k]*s.size + path[k+1]
		if u := float64(s.cost[a]) / float64(1+s.penalty[a]); u > maxUtil {
			maxUtil = u
		}
	}
	for k := 0; k+1 < len(path); k++ {
		a := path[k]*s.size + path[k+1]
		if float64(s.cost[a])/float64(1+s.penalty[a]) == maxUtil {
			s.penalty[a]++
		}
	}
}

// descend applies the best improving relocate, exchange or reversal move
// until none improves f. Position 0 (the start) never moves.
func (s *search) descend(path []int, f func([]int) (float64, bool)) []int {
	cur := slices.Clone(path)
	curVal, _ := f(cur)

	cand := make([]int, 0, len(cur))
	best := make([]int, len(cur))

	for !s.expired {
		found := false
		bestVal := curVal

		try := func(c []int) {
			if v, ok := f(c); ok && v < bestVal-improvementEps {
				bestVal = v
				copy(best, c)
				found = true
			}
		}

	scan:
		for i := 1; i < len(cur); i++ {
			for j := 1; j < len(cur); j++ {
				if i == j {
					continue
				}
				if s.done() {
					break scan
				}

				try(relocate(cand, cur, i, j))
				if i < j {
					try(exchange(cand, cur, i, j))
					try(reverse(cand, cur, i, j))
				}
			}
		}

		if !found {
			break
		}
		cur, best = best, cur
		curVal = bestVal
	}

	return cur
}

// relocate writes src with the element at i moved to position j.
func relocate(dst, src []int, i, j int) []int {
	dst = dst[:0]
	dst = append(dst, src[:i]...)
	dst = append(dst, src[i+1:]...)
	return slices.Insert(dst, j, src[i])
}

func exchange(dst, src []int, i, j int) []int {
	dst = append(dst[:0], src...)
	dst[i], dst[j] = dst[j], dst[i]
	return dst
}

// reverse writes src with the segment [i, j] reversed.
func reverse(dst, src []int, i, j int) []int {
	dst = append(dst[:0], src...)
	slices.Reverse(dst[i : j+1])
	return dst
}
