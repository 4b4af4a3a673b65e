// package assign implements the weighted operator lottery. It is a pure
// computation over the eligible-operator set and the per-source weights,
// queried fresh for every contact; no assignment state survives between
// calls.
package assign

import (
	"math/rand"
	"sync"

	"github.com/leadhub/lead-intake-service/internal/domain"
)

// Picker draws operators from a weighted lottery. The randomness source is
// injected so tests can seed it; a mutex guards the underlying rand.Rand,
// which is not safe for concurrent use across request goroutines.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPicker(src rand.Source) *Picker {
	return &Picker{rnd: rand.New(src)}
}

// Pick selects one operator id among the eligible operators that have a
// weight entry. It returns false when no operator qualifies, which is an
// expected outcome, not an error.
//
// Operators without a weight entry are skipped: the weight row is the only
// thing binding an operator to the source. When every present weight is
// zero the pick is uniform. Otherwise each operator wins with probability
// weight/total, realized as an integer cumulative walk: r is uniform in
// [1, total] and the first operator whose running sum reaches r wins. The
// inclusive comparison keeps boundary draws deterministic, so seeded tests
// reproduce exact picks.
func (p *Picker) Pick(eligible []domain.Operator, weights map[int64]int64) (int64, bool) {
	candidates := make([]domain.Operator, 0, len(eligible))

	var total int64

	for _, op := range eligible {
		w, ok := weights[op.ID]
		if !ok {
			continue
		}

		candidates = append(candidates, op)
		total += w
	}

	if len(candidates) == 0 {
		return 0, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if total <= 0 {
		return candidates[p.rnd.Intn(len(candidates))].ID, true
	}

	r := p.rnd.Int63n(total) + 1

	var sum int64

	for _, op := range candidates {
		sum += weights[op.ID]
		if sum >= r {
			return op.ID, true
		}
	}

	// Unreachable given the integer math above; kept as a guard.
	return candidates[0].ID, true
}
