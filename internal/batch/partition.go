package batch

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/davissontiago/Mateco/internal/domain"
)

// ErrInvalidInput is returned when a build request fails validation
// before any network call is made.
var ErrInvalidInput = errors.New("invalid input")

// Partitioner splits a target total into randomized positive parts
type Partitioner struct {
	rng *rand.Rand
}

// NewPartitioner creates a partitioner seeded from the clock
func NewPartitioner() *Partitioner {
	return NewPartitionerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewPartitionerWithSource creates a partitioner with a caller-supplied
// randomness source, used by tests for reproducible draws
func NewPartitionerWithSource(source rand.Source) *Partitioner {
	return &Partitioner{rng: rand.New(source)}
}

// Partition splits total into count positive amounts that sum exactly
// to total at cent precision. Each part gets a weight drawn from
// [0.5, 1.0) normalized against the sum of all weights; the first
// count-1 parts are truncated at cent precision and the last part is
// forced to the remainder, absorbing all rounding drift.
func (p *Partitioner) Partition(total float64, count int) ([]float64, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total must be positive, got %.2f", ErrInvalidInput, total)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidInput, count)
	}

	total = domain.RoundCurrency(total)
	if count == 1 {
		return []float64{total}, nil
	}

	weights := make([]float64, count)
	var weightSum float64
	for i := range weights {
		weights[i] = p.rng.Float64()*0.5 + 0.5
		weightSum += weights[i]
	}

	parts := make([]float64, 0, count)
	var allocated float64
	for i := 0; i < count-1; i++ {
		part := domain.TruncateCurrency(weights[i] / weightSum * total)
		if part <= 0 {
			// Truncation at cent precision bottomed out; the total is
			// too small for this many parts
			return nil, fmt.Errorf("%w: cannot split %.2f into %d positive parts", ErrInvalidInput, total, count)
		}
		parts = append(parts, part)
		allocated += part
	}

	last := domain.RoundCurrency(total - allocated)
	if last <= 0 {
		// Accumulated truncation drove the forced remainder to zero or
		// below. The caller asked for more parts than the total supports.
		return nil, fmt.Errorf("%w: cannot split %.2f into %d positive parts", ErrInvalidInput, total, count)
	}
	parts = append(parts, last)

	return parts, nil
}
