// Package genregraph learns genre statistics from a game catalog: how often
// each genre shows up, which genres appear together, and which genres are
// "near strangers" of each other.
//
// A Model is built in one pass by Build and is read-only afterwards, so a
// single instance can be shared by concurrent recommendation requests.
package genregraph

import (
	"math"
	"sort"

	"gamerec/internal/models"
)

const (
	// DefaultWeight is returned for genres the model has never seen.
	DefaultWeight = 1.0

	// MaxComplementary bounds the complementary list of every genre.
	MaxComplementary = 3

	// DefaultDepth is the traversal depth used for related-genre lookups.
	DefaultDepth = 2

	baseMultiplier = 6.0
	rankPenalty    = 0.2
)

// Model holds the derived genre statistics. Every genre seen during Build is
// a key of weights, complementary and adjacency.
type Model struct {
	weights       map[string]float64
	frequency     map[string]int
	complementary map[string][]string
	adjacency     map[string]map[string]struct{}

	// genres in weight order (descending frequency, first-seen on ties)
	order []string
	games int
}

// pairKey is a co-occurrence key with A <= B so (A,B) and (B,A) collapse.
type pairKey struct {
	A, B string
}

func newPairKey(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{A: x, B: y}
}

// Build derives a fresh model from games. Games without genres contribute
// nothing; the input slice is not retained.
func Build(games []models.Game) *Model {
	m := &Model{
		weights:       make(map[string]float64),
		frequency:     make(map[string]int),
		complementary: make(map[string][]string),
		adjacency:     make(map[string]map[string]struct{}),
		games:         len(games),
	}

	var seen []string
	cooc := make(map[pairKey]int)
	var pairOrder []pairKey

	for _, g := range games {
		genres := g.Genres

		for _, name := range genres {
			if _, ok := m.frequency[name]; !ok {
				seen = append(seen, name)
				m.adjacency[name] = make(map[string]struct{})
			}
			m.frequency[name]++
		}

		// a pair counts once per game even if a genre is listed twice
		counted := make(map[pairKey]struct{})
		for i := 0; i < len(genres); i++ {
			for j := i + 1; j < len(genres); j++ {
				a, b := genres[i], genres[j]
				if a == b {
					continue
				}
				m.adjacency[a][b] = struct{}{}
				m.adjacency[b][a] = struct{}{}

				key := newPairKey(a, b)
				if _, ok := counted[key]; ok {
					continue
				}
				counted[key] = struct{}{}
				if _, ok := cooc[key]; !ok {
					pairOrder = append(pairOrder, key)
				}
				cooc[key]++
			}
		}
	}

	// 1) weights: log frequency scaled by rank
	m.order = append([]string(nil), seen...)
	sort.SliceStable(m.order, func(i, j int) bool {
		return m.frequency[m.order[i]] > m.frequency[m.order[j]]
	})
	for rank, name := range m.order {
		freq := float64(m.frequency[name])
		m.weights[name] = math.Log(freq+1) * (baseMultiplier - rankPenalty*float64(rank))
	}

	// 2) complementary: least co-occurring counterparts first
	for _, name := range m.order {
		type counterpart struct {
			genre string
			count int
		}
		var cands []counterpart
		for _, key := range pairOrder {
			switch name {
			case key.A:
				cands = append(cands, counterpart{genre: key.B, count: cooc[key]})
			case key.B:
				cands = append(cands, counterpart{genre: key.A, count: cooc[key]})
			}
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].count < cands[j].count })
		if len(cands) > MaxComplementary {
			cands = cands[:MaxComplementary]
		}

		list := make([]string, 0, len(cands))
		for _, c := range cands {
			list = append(list, c.genre)
		}
		m.complementary[name] = list
	}

	return m
}

// Weight returns the learned weight of genre, or DefaultWeight if unknown.
func (m *Model) Weight(genre string) float64 {
	if m == nil {
		return DefaultWeight
	}
	if w, ok := m.weights[genre]; ok {
		return w
	}
	return DefaultWeight
}

// Complementary returns up to MaxComplementary genres that rarely appear
// together with genre. The returned slice is a copy.
func (m *Model) Complementary(genre string) []string {
	if m == nil {
		return []string{}
	}
	return append([]string{}, m.complementary[genre]...)
}

// Related returns every genre reachable from genre in 1..depth hops, sorted by
// name. The start genre is never part of the result.
func (m *Model) Related(genre string, depth int) []string {
	if m == nil || depth <= 0 {
		return []string{}
	}
	if _, ok := m.adjacency[genre]; !ok {
		return []string{}
	}

	type node struct {
		genre string
		depth int
	}

	visited := map[string]struct{}{genre: {}}
	queue := []node{{genre: genre}}
	out := []string{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= depth {
			continue
		}
		for next := range m.adjacency[cur.genre] {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			out = append(out, next)
			queue = append(queue, node{genre: next, depth: cur.depth + 1})
		}
	}

	sort.Strings(out)
	return out
}

// Neighbors returns the direct co-occurrence neighbors of genre, sorted.
func (m *Model) Neighbors(genre string) []string {
	return m.Related(genre, 1)
}

// Frequency returns how many catalog games carried genre.
func (m *Model) Frequency(genre string) int {
	if m == nil {
		return 0
	}
	return m.frequency[genre]
}

// Genres lists the known genres in weight order.
func (m *Model) Genres() []string {
	if m == nil {
		return []string{}
	}
	return append([]string{}, m.order...)
}

// Games is the number of games the model was built from.
func (m *Model) Games() int {
	if m == nil {
		return 0
	}
	return m.games
}

// Edges counts undirected adjacency edges.
func (m *Model) Edges() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, neigh := range m.adjacency {
		n += len(neigh)
	}
	return n / 2
}

// Snapshot is a deep copy of the model's maps.
type Snapshot struct {
	Weights       map[string]float64
	Frequency     map[string]int
	Complementary map[string][]string
	Adjacency     map[string][]string
}

// Snapshot copies the model state; adjacency lists are sorted.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Weights:       make(map[string]float64),
		Frequency:     make(map[string]int),
		Complementary: make(map[string][]string),
		Adjacency:     make(map[string][]string),
	}
	if m == nil {
		return s
	}
	for k, v := range m.weights {
		s.Weights[k] = v
	}
	for k, v := range m.frequency {
		s.Frequency[k] = v
	}
	for k, v := range m.complementary {
		s.Complementary[k] = append([]string{}, v...)
	}
	for k := range m.adjacency {
		s.Adjacency[k] = m.Neighbors(k)
	}
	return s
}
