package validation

import (
	"math/rand"

	"brandreco/pkg/logger"
)

// Splitter partitions hits into train and test sets with the cycle-holdout
// scheme: within each (member, gender) group, rows are numbered positionally
// modulo CycleCount, and one bucket index, drawn once per run, is held out.
// Groups with fewer than BGCutpoint rows are dropped entirely.
type Splitter struct {
	BGCutpoint int
	CycleCount int
	rng        *rand.Rand
}

// NewSplitter builds a splitter around an injected random source so the
// holdout bucket is reproducible under a fixed seed.
func NewSplitter(bgCutpoint, cycleCount int, rng *rand.Rand) *Splitter {
	return &Splitter{
		BGCutpoint: bgCutpoint,
		CycleCount: cycleCount,
		rng:        rng,
	}
}

type groupKey struct {
	memberID uint64
	gender   int8
}

// Split returns the train and test partitions. The holdout bucket index is
// fixed for the whole run, not re-drawn per customer.
func (s *Splitter) Split(hits []Hit) (train, test []Hit) {
	counts := make(map[groupKey]int)
	for _, h := range hits {
		counts[groupKey{h.MemberID, h.Gender}]++
	}

	holdout := s.rng.Intn(s.CycleCount)

	cursor := make(map[groupKey]int)
	for _, h := range hits {
		key := groupKey{h.MemberID, h.Gender}
		if counts[key] < s.BGCutpoint {
			continue
		}

		roll := cursor[key] % s.CycleCount
		cursor[key]++

		if roll == holdout {
			test = append(test, h)
		} else {
			train = append(train, h)
		}
	}

	logger.Info("Train/test split done",
		"incoming_rows", len(hits),
		"train_rows", len(train),
		"test_rows", len(test),
		"holdout_bucket", holdout,
	)

	return train, test
}
