// Package ranking keeps an in-memory leaderboard of rated charts.
//
// Ordering: overall score DESC, then chart key ASC. The comparator treats
// "less" as "ranks earlier", so an in-order walk of the treap yields the
// leaderboard from hardest to easiest.
package ranking

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/seiru/msdcalc/internal/skillset"
)

// scoreScale controls fixed-point scaling from float64. Six decimal places
// is finer than any rating difference the engine produces, so charts whose
// overalls differ only by float noise order by key instead.
const scoreScale = 1_000_000

type scoreFP int64

func toFixed(x float64) scoreFP {
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return math.MaxInt64
	case math.IsInf(x, -1):
		return math.MinInt64
	}
	scaled := math.Round(x * scoreScale)
	switch {
	case scaled >= float64(math.MaxInt64):
		return math.MaxInt64
	case scaled <= float64(math.MinInt64):
		return math.MinInt64
	}
	return scoreFP(scaled)
}

// record stores the quantized ordering score plus the full rating for a chart.
type record struct {
	score  scoreFP
	path   string
	scores skillset.ScoreSet
}

// Entry represents a leaderboard row.
type Entry struct {
	Rank   int               `json:"rank"`
	Key    string            `json:"key"`
	Path   string            `json:"path"`
	Score  float64           `json:"score"`
	Scores skillset.ScoreSet `json:"scores"`
}

// treap node
type node struct {
	key   string
	score scoreFP
	prio  uint64
	left  *node
	right *node
}

// less reports whether (aScore, aKey) ranks earlier than (bScore, bKey).
func less(aScore scoreFP, aKey string, bScore scoreFP, bKey string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aKey < bKey // tie-break by key asc
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func insert(n *node, key string, score scoreFP, prio uint64) *node {
	if n == nil {
		return &node{key: key, score: score, prio: prio}
	}
	if less(score, key, n.score, n.key) {
		n.left = insert(n.left, key, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func remove(n *node, key string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && key == n.key:
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, key, score)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, key, score)
		}
	case less(score, key, n.score, n.key):
		n.left = remove(n.left, key, score)
	default:
		n.right = remove(n.right, key, score)
	}
	return n
}

// collectTop appends up to limit entries in rank order, hardest first.
func collectTop(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTop(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.key]; ok {
			*out = append(*out, Entry{Key: n.key, Path: rec.path, Score: rec.scores.Overall, Scores: rec.scores})
		}
	}
	if len(*out) < limit {
		collectTop(n.right, limit, records, out)
	}
}

// assignRanks assigns dense ranks over entries already in rank order.
// Entries whose quantized scores match share a rank.
func assignRanks(entries []Entry) {
	rank := 0
	var prev scoreFP
	for i := range entries {
		fp := toFixed(entries[i].Score)
		if rank == 0 || fp != prev {
			rank++
			prev = fp
		}
		entries[i].Rank = rank
	}
}

// Store is a treap-backed, concurrency-safe chart leaderboard.
// The zero value is not usable; construct with NewStore.
type Store struct {
	mu    sync.RWMutex
	root  *node
	byKey map[string]record
}

// NewStore returns an empty ranking store.
func NewStore() *Store {
	return &Store{byKey: make(map[string]record)}
}

// Upsert records the rating for a chart, replacing any previous entry under
// the same key, in O(log n) expected time. It reports whether the stored
// state changed.
func (s *Store) Upsert(key, path string, scores skillset.ScoreSet) bool {
	ns := toFixed(scores.Overall)

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byKey[key]
	if ok && old.score == ns && old.path == path && old.scores == scores {
		return false
	}
	if ok && old.score != ns {
		s.root = remove(s.root, key, old.score)
	}
	if !ok || old.score != ns {
		s.root = insert(s.root, key, ns, rand.Uint64())
	}
	s.byKey[key] = record{score: ns, path: path, scores: scores}
	return true
}

// Rank returns the entry for one chart with its current rank. Charts with
// equal quantized scores share a rank, and the next distinct score takes
// the following rank.
// Returns ErrNotFound if the key is unknown.
func (s *Store) Rank(key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byKey[key]; !ok {
		return Entry{}, ErrNotFound
	}

	all := make([]Entry, 0, len(s.byKey))
	collectTop(s.root, len(s.byKey), s.byKey, &all)
	assignRanks(all)

	for _, e := range all {
		if e.Key == key {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the n hardest charts in rank order.
func (s *Store) TopN(n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byKey)))
	collectTop(s.root, n, s.byKey, &out)
	assignRanks(out)
	return out, nil
}

// Count returns the number of charts tracked.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
