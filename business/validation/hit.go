package validation

import (
	"fmt"
	"strconv"
	"strings"

	"brandreco/domain"
)

// Hit is a scored interaction with its segment key parsed back into brand
// and gender, the working row of the validation pipeline.
type Hit struct {
	MemberID    uint64
	Brand       int
	Gender      int8
	BrandGender string
	TotalHits   float64
}

// ParseBrandGender splits a "<brand> <gender>" segment key.
func ParseBrandGender(bg string) (int, int8, error) {
	parts := strings.SplitN(bg, " ", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed brand_gender key %q", bg)
	}

	brand, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed brand in key %q: %w", bg, err)
	}

	gender, err := strconv.ParseInt(parts[1], 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed gender in key %q: %w", bg, err)
	}

	return brand, int8(gender), nil
}

// SplitBrandGender lifts scored interactions into validation hits.
func SplitBrandGender(scored []domain.ScoredInteraction) ([]Hit, error) {
	hits := make([]Hit, 0, len(scored))
	for _, sc := range scored {
		brand, gender, err := ParseBrandGender(sc.BrandGender)
		if err != nil {
			return nil, err
		}

		hits = append(hits, Hit{
			MemberID:    sc.MemberID,
			Brand:       brand,
			Gender:      gender,
			BrandGender: sc.BrandGender,
			TotalHits:   sc.TotalHits,
		})
	}

	return hits, nil
}
