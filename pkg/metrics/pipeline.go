package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Wall-clock duration of a full db-update run
	UpdateRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "brand_gender_update_run_duration_seconds",
		Help:    "Duration of a full scored-interaction update run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// Wall-clock duration of a full validation run
	ValidationRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "brand_gender_validation_run_duration_seconds",
		Help:    "Duration of a full recommendation validation run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// Raw rows fetched from the interaction source on the last run
	InteractionRowsFetched = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "brand_gender_interaction_rows_fetched",
		Help: "Raw interaction rows fetched on the last update run",
	})

	// Scored rows produced on the last run
	ScoredRowsProduced = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "brand_gender_scored_rows_produced",
		Help: "Scored interaction rows produced on the last update run",
	})
)

func Init() {
	prometheus.MustRegister(
		UpdateRunDuration,
		ValidationRunDuration,
		InteractionRowsFetched,
		ScoredRowsProduced,
	)
}
