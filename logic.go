package main

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

var ErrNoEligibleQuestion = errors.New("no eligible question")

// QuizSelector serves the "next question" of a quiz session.
type QuizSelector struct {
	store Store

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuizSelector uses seed for the random source; seed 0 seeds from the clock.
func NewQuizSelector(store Store, seed int64) *QuizSelector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &QuizSelector{store: store, rnd: rand.New(rand.NewSource(seed))}
}

// SelectNext draws one question uniformly from the eligible set: questions in
// categoryID (0 = any category) whose id is not in exclude.
func (s *QuizSelector) SelectNext(ctx context.Context, categoryID int, exclude []int) (*Question, error) {
	candidates, err := s.store.ListQuestions(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	pool := eligible(candidates, exclude)
	if len(pool) == 0 {
		return nil, ErrNoEligibleQuestion
	}

	s.mu.Lock()
	i := s.rnd.Intn(len(pool))
	s.mu.Unlock()

	q := pool[i]
	return &q, nil
}

func eligible(candidates []Question, exclude []int) []Question {
	if len(exclude) == 0 {
		return candidates
	}
	skip := make(map[int]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make([]Question, 0, len(candidates))
	for _, q := range candidates {
		if _, ok := skip[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// paginate returns the 1-based page of size items. Out-of-range pages are empty.
func paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 || len(items) == 0 {
		return nil
	}
	if page-1 > (len(items)-1)/size {
		return nil
	}
	start := (page - 1) * size
	end := len(items)
	if size < end-start {
		end = start + size
	}
	return items[start:end]
}

// parsePage reads ?page=; missing or non-numeric values fall back to 1.
// Numbers too large for an int map to a page that can never exist.
func parsePage(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return 0
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}
