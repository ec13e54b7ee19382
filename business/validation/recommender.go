package validation

import (
	"math"
	"sort"

	"brandreco/business/scoring"
	"brandreco/domain"
)

// Recommender turns one customer's train-window hits plus a similarity
// artifact into a ranked, gender-partitioned Top-N recommendation list.
type Recommender struct {
	NRec int
}

type rawRec struct {
	brand  int
	gender int8
	score  float64
}

// Recommend computes the affinity of every segment for one customer as the
// product of the customer's historical vector with the similarity matrix,
// drops segments the customer already interacted with, and post-processes
// the survivors per gender. Any negative post-similarity score marks a
// degenerate fit: the whole list is withheld for this customer.
func (r *Recommender) Recommend(memberID uint64, userHits []Hit, art SimilarityArtifact) []domain.Recommendation {
	n := art.Index.Len()
	userItems := make([]float64, n)
	liked := make(map[int]struct{})

	for _, h := range userHits {
		pos, ok := art.Index.Pos(h.BrandGender)
		if !ok || h.TotalHits == 0 {
			continue
		}
		userItems[pos] = h.TotalHits
		liked[pos] = struct{}{}
	}

	recScores := art.Matrix.VecMul(userItems)

	var best []rawRec
	for pos, score := range recScores {
		if score == 0 {
			continue
		}
		if _, ok := liked[pos]; ok {
			continue
		}

		brand, gender, err := ParseBrandGender(art.Index.ID(pos))
		if err != nil {
			continue
		}
		best = append(best, rawRec{brand: brand, gender: gender, score: score})
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].score > best[j].score
	})

	for _, rec := range best {
		if rec.score < 0 {
			DegenerateScoreDrops.Inc()
			return nil
		}
	}

	return r.postProcess(memberID, best)
}

// postProcess truncates to NRec per gender (men first, then women), applies
// log1p and renormalizes by each gender's own maximum log-score, then
// re-sorts the concatenation by normalized score.
func (r *Recommender) postProcess(memberID uint64, best []rawRec) []domain.Recommendation {
	var out []domain.Recommendation

	for _, gender := range []int8{domain.GenderMen, domain.GenderWomen} {
		var logScores []float64
		var subset []rawRec
		for _, rec := range best {
			if rec.gender != gender {
				continue
			}
			subset = append(subset, rec)
			logScores = append(logScores, math.Log1p(rec.score))
			if len(subset) == r.NRec {
				break
			}
		}
		if len(subset) == 0 {
			continue
		}

		maxLog := logScores[0]
		for _, ls := range logScores[1:] {
			if ls > maxLog {
				maxLog = ls
			}
		}

		for i, rec := range subset {
			score := logScores[i]
			if maxLog != 0 {
				score = logScores[i] / maxLog
			}
			out = append(out, domain.Recommendation{
				MemberID:    memberID,
				Brand:       rec.brand,
				Gender:      rec.gender,
				Score:       score,
				Liked:       false,
				BrandGender: scoring.BrandGenderKey(rec.brand, rec.gender),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	for i := range out {
		out[i].Score = math.Round(out[i].Score*1e6) / 1e6
	}

	return out
}
