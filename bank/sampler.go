package bank

import (
	"math/rand"
	"time"

	"github.com/nonsonwune/fe_practice/models"
)

// Sampler draws random, size-bounded subsets from a question bank
type Sampler struct {
	rng *rand.Rand
}

func NewSampler() *Sampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler gives a reproducible sampler, mainly for tests
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Filter keeps questions whose category is in categories. An empty
// categories list means no filter. The bank itself is never modified.
func Filter(questions []models.Question, categories []string) []models.Question {
	if len(categories) == 0 {
		out := make([]models.Question, len(questions))
		copy(out, questions)
		return out
	}

	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	var out []models.Question
	for _, q := range questions {
		if allowed[q.Category] {
			out = append(out, q)
		}
	}
	return out
}

// Sample filters questions by categories, shuffles the result uniformly and
// returns the first min(n, len(filtered)) records. Asking for more than is
// available is not an error.
func (s *Sampler) Sample(questions []models.Question, categories []string, n int) []models.Question {
	pool := Filter(questions, categories)
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n < 0 {
		n = 0
	}
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

// Reshuffle returns a fresh random ordering of subset without changing its members
func (s *Sampler) Reshuffle(subset []models.Question) []models.Question {
	out := make([]models.Question, len(subset))
	copy(out, subset)
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
