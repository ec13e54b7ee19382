package validation

import (
	"math"
	"sort"

	"brandreco/domain"
	"brandreco/pkg/logger"
)

// Blender merges a collaborative and a content-based recommendation set for
// the same population into one ranked list via a convex combination.
type Blender struct {
	Alpha float64
}

type blendKey struct {
	memberID uint64
	brand    int
	gender   int8
}

// RescaleContent linearly interpolates the content side's per-gender scores
// into the collaborative side's score range: for each gender the target
// interval is [lower bound, 1], where the lower bound is the minimum
// collaborative score observed for that gender across the population. This
// equalizes the two models' otherwise incomparable scales.
func RescaleContent(content, reference []domain.Recommendation) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(content))

	for _, gender := range []int8{domain.GenderWomen, domain.GenderMen} {
		lowerBound := math.Inf(1)
		for _, ref := range reference {
			if ref.Gender == gender && ref.Score < lowerBound {
				lowerBound = ref.Score
			}
		}

		minScore := math.Inf(1)
		for _, rec := range content {
			if rec.Gender == gender && rec.Score < minScore {
				minScore = rec.Score
			}
		}
		if math.IsInf(minScore, 1) {
			continue
		}
		if math.IsInf(lowerBound, 1) {
			// content rows without a collaborative score range cannot be
			// rescaled onto a comparable scale
			DroppedGenderPartitions.Inc()
			logger.Warn("Content gender partition dropped during rescale",
				"gender", gender, "reason", "no collaborative reference scores")
			continue
		}

		denom := 1 - minScore
		for _, rec := range content {
			if rec.Gender != gender {
				continue
			}

			scaled := 1.0
			if denom != 0 {
				scaled = (rec.Score - minScore) / denom
			}
			rec.Score = scaled*(1-lowerBound) + lowerBound
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Blend full-outer-joins the two sets on (memberID, brand, gender). A key
// present on one side only keeps that side's score unchanged; overlapping
// keys get alpha*content + (1-alpha)*collaborative. The liked flag
// coalesces with the collaborative side winning when both are present.
func (b *Blender) Blend(cf, cb []domain.Recommendation) []domain.Recommendation {
	cbByKey := make(map[blendKey]domain.Recommendation, len(cb))
	for _, rec := range cb {
		cbByKey[blendKey{rec.MemberID, rec.Brand, rec.Gender}] = rec
	}

	seen := make(map[blendKey]struct{}, len(cf))
	out := make([]domain.Recommendation, 0, len(cf)+len(cb))

	for _, rec := range cf {
		key := blendKey{rec.MemberID, rec.Brand, rec.Gender}
		seen[key] = struct{}{}

		blended := rec
		if other, ok := cbByKey[key]; ok {
			blended.Score = b.Alpha*other.Score + (1-b.Alpha)*rec.Score
		}
		out = append(out, blended)
	}

	for _, rec := range cb {
		key := blendKey{rec.MemberID, rec.Brand, rec.Gender}
		if _, ok := seen[key]; ok {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MemberID != out[j].MemberID {
			return out[i].MemberID < out[j].MemberID
		}
		return out[i].Score > out[j].Score
	})

	return out
}
