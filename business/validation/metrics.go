package validation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Customers whose whole recommendation set was withheld because a
	// post-similarity score came back negative.
	DegenerateScoreDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "brand_gender_degenerate_score_drops_total",
			Help: "Customers dropped from recommendations due to a negative similarity score.",
		},
	)

	// Sampled customers that produced no predictions during a validation run
	SkippedMembersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "brand_gender_validation_skipped_members_total",
			Help: "Sampled customers skipped during validation because prediction produced no output.",
		},
	)

	// Content gender partitions discarded during rescale because the
	// collaborative side carried no scores for that gender
	DroppedGenderPartitions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "brand_gender_rescale_dropped_gender_partitions_total",
			Help: "Content gender partitions dropped during rescale due to missing collaborative reference scores.",
		},
	)
)

func init() {
	prometheus.MustRegister(DegenerateScoreDrops, SkippedMembersTotal, DroppedGenderPartitions)
}
