// Package ledger implements the consistency engine of splitbook: exact
// share splitting, division determination, lazy recurrence backfill and
// period balance aggregation.
package ledger

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/backend/internal/money"
)

// Share is one recipient's integer weight in a split.
type Share struct {
	UserID uuid.UUID
	Weight uint
}

// Part is one recipient's slice of a split sum.
type Part struct {
	UserID uuid.UUID
	Sum    money.Money
}

// Splitter partitions amounts proportionally to integer shares, exact
// to the cent. The leftover cents of the truncating division are
// handed out over shuffled weight slots so that no recipient is
// favored by iteration order across repeated splits.
type Splitter struct {
	factory money.Factory
	rng     *rand.Rand
}

// NewSplitter returns a splitter with a time-based shuffle seed.
func NewSplitter(factory money.Factory) *Splitter {
	return NewSeededSplitter(factory, time.Now().UnixNano())
}

// NewSeededSplitter returns a splitter with a fixed shuffle seed.
// The parts sum to the input for any seed; a fixed seed only makes
// the per-recipient cent placement reproducible.
func NewSeededSplitter(factory money.Factory, seed int64) *Splitter {
	return &Splitter{
		factory: factory,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// SplitByShares splits sum into one part per share, proportional to the
// weights. The parts always sum to exactly the input, and every part is
// within one cent of its proportional value.
func (s *Splitter) SplitByShares(sum money.Money, shares []Share) ([]Part, error) {
	var total uint
	for _, share := range shares {
		total += share.Weight
	}

	if total == 0 {
		return nil, ErrNoShares
	}

	divisor, err := s.factory.From(int64(total))
	if err != nil {
		return nil, err
	}

	// Truncating toward zero loses less than one cent per part, so the
	// remainder is always smaller than the number of parts.
	parts := make([]Part, 0, len(shares))
	assigned := int64(0)
	for _, share := range shares {
		weight, err := s.factory.From(int64(share.Weight))
		if err != nil {
			return nil, err
		}

		part := sum.Mul(weight).Div(divisor)
		assigned += part.Cents()
		parts = append(parts, Part{UserID: share.UserID, Sum: part})
	}

	s.reconcile(parts, shares, sum.Cents()-assigned)
	return parts, nil
}

// reconcile distributes the remainder cents over the shuffled weight
// slots, at most one cent per part. Each unit of weight is one slot,
// so recipients with larger shares are proportionally more likely to
// carry a cent, and the one-cent cap keeps every part within one cent
// of its proportional value.
func (s *Splitter) reconcile(parts []Part, shares []Share, remainder int64) {
	if remainder == 0 {
		return
	}

	step := s.factory.FromCents(1)
	if remainder < 0 {
		step = step.Neg()
		remainder = -remainder
	}

	var slots []int
	for i, share := range shares {
		for u := uint(0); u < share.Weight; u++ {
			slots = append(slots, i)
		}
	}

	s.rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})

	adjusted := make([]bool, len(parts))
	given := int64(0)
	for _, idx := range slots {
		if given == remainder {
			break
		}

		if adjusted[idx] {
			continue
		}

		adjusted[idx] = true
		parts[idx].Sum = parts[idx].Sum.Add(step)
		given++
	}
}
