package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"brandreco/domain"
	"brandreco/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyInteractions means the raw event table had zero rows. Scoring on
// empty data is meaningless, the caller must treat this as fatal.
var ErrEmptyInteractions = errors.New("can not score empty user interactions")

// Params are the weighting and decay coefficients. Every field feeds the
// decay-rate denominator, so zero values are rejected at construction.
type Params struct {
	LastNWeeks            int     `validate:"gt=0"`
	PWeight               float64 `validate:"gt=0"`
	WWeight               float64 `validate:"gt=0"`
	DecayWeight           float64 `validate:"gt=0"`
	DecayWeightMultiplier float64 `validate:"gt=0"`
}

// Service turns raw interaction events into one decayed, weighted affinity
// score per (customer, brand/gender) pair.
type Service struct {
	params Params
}

func NewService(params Params, validate *validator.Validate) (*Service, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid scoring params: %w", err)
	}

	return &Service{params: params}, nil
}

// weightedEvent is a scoring-internal working row: the raw event with its
// derived segment key and weighted view count.
type weightedEvent struct {
	memberID    uint64
	brandGender string
	date        time.Time
	views       float64
	decay       float64
}

// ScoreInteractions runs weight -> decay -> aggregate over the raw event
// table and returns one row per (memberID, brand_gender) key.
func (s *Service) ScoreInteractions(events []domain.InteractionEvent) ([]domain.ScoredInteraction, error) {
	if len(events) == 0 {
		return nil, ErrEmptyInteractions
	}

	start := time.Now()

	weighted := s.weightInteractions(events)
	s.applyDecay(weighted)
	scored := s.aggregateInteractions(weighted)

	logger.Info("Customer interaction scoring done",
		"raw_rows", len(events),
		"scored_rows", len(scored),
		"elapsed", time.Since(start).String(),
	)

	return scored, nil
}

// BrandGenderKey derives the joint segment identity used throughout the
// pipeline: "<brand_id> <gender_code>".
func BrandGenderKey(brandID int, gender int8) string {
	return strconv.Itoa(brandID) + " " + strconv.Itoa(int(gender))
}

// weightInteractions multiplies views by the purchase weight for purchased
// rows, and by the wishlist/cart weight for non-purchased rows that were
// carted or wishlisted. The two rules are mutually exclusive.
func (s *Service) weightInteractions(events []domain.InteractionEvent) []weightedEvent {
	logger.Info("Weighting customer interactions...", "rows", len(events))

	weighted := make([]weightedEvent, 0, len(events))
	for _, ev := range events {
		views := float64(ev.Views)
		switch {
		case ev.Purchased:
			views = s.params.PWeight * views
		case ev.AddToCart || ev.AddToWishlist:
			views = s.params.WWeight * views
		}

		weighted = append(weighted, weightedEvent{
			memberID:    ev.CustomerID,
			brandGender: BrandGenderKey(ev.BrandID, ev.Gender),
			date:        ev.Date,
			views:       views,
		})
	}

	return weighted
}

func (s *Service) decayRate() float64 {
	return 1 / (s.params.DecayWeight * s.params.DecayWeightMultiplier * float64(s.params.LastNWeeks))
}

// applyDecay discounts each weighted row by exp(-rate * age), where age is
// the row's distance in days from the most recent date in the table. Rows
// at the maximum date decay by factor 1.
func (s *Service) applyDecay(weighted []weightedEvent) {
	logger.Info("Applying decay function to customer interactions...")

	lastBrowsingDate := weighted[0].date
	for _, ev := range weighted[1:] {
		if ev.date.After(lastBrowsingDate) {
			lastBrowsingDate = ev.date
		}
	}

	rate := s.decayRate()
	for i := range weighted {
		decayDays := int(lastBrowsingDate.Sub(weighted[i].date).Hours() / 24)
		weighted[i].decay = weighted[i].views * math.Exp(-rate*float64(decayDays))
	}
}

type aggregateKey struct {
	memberID    uint64
	brandGender string
}

// aggregateInteractions groups decayed rows by (memberID, brand_gender) and
// sums decay into total_hits. Sum is commutative, so the result does not
// depend on input order; the final sort fixes the emission order.
func (s *Service) aggregateInteractions(weighted []weightedEvent) []domain.ScoredInteraction {
	logger.Info("Aggregating customer interactions...")

	totals := make(map[aggregateKey]float64)
	for _, ev := range weighted {
		totals[aggregateKey{ev.memberID, ev.brandGender}] += ev.decay
	}

	scored := make([]domain.ScoredInteraction, 0, len(totals))
	for key, hits := range totals {
		scored = append(scored, domain.ScoredInteraction{
			MemberID:    key.memberID,
			BrandGender: key.brandGender,
			TotalHits:   hits,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].MemberID != scored[j].MemberID {
			return scored[i].MemberID < scored[j].MemberID
		}
		return scored[i].BrandGender < scored[j].BrandGender
	})

	return scored
}
