package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sulam_ai_provider_attempts_total",
		Help: "AI provider attempts by provider and outcome",
	}, []string{"provider", "outcome"})
	ProviderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sulam_ai_provider_duration_ms",
		Help:    "AI provider request duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"provider"})
	AnswersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sulam_answers_total",
		Help: "Questions answered by result (answered, unavailable, superseded, no_selection)",
	}, []string{"result"})
	RecommendationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sulam_recommendations_total",
		Help: "Recommendation computations",
	})
	ProjectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sulam_projections_total",
		Help: "GPS fixes projected onto the map",
	})
	CatalogPlaces = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sulam_catalog_places",
		Help: "Places in the current catalog snapshot by kind",
	}, []string{"kind"})
	SummaryCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sulam_summary_cache_total",
		Help: "Knowledge summary cache lookups by result (hit, miss)",
	}, []string{"result"})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sulam_active_sessions",
		Help: "Viewing sessions currently held in memory",
	})
)

func init() {
	prometheus.MustRegister(ProviderAttemptsTotal)
	prometheus.MustRegister(ProviderDurationMs)
	prometheus.MustRegister(AnswersTotal)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(ProjectionsTotal)
	prometheus.MustRegister(CatalogPlaces)
	prometheus.MustRegister(SummaryCacheTotal)
	prometheus.MustRegister(ActiveSessions)
}

// Handler は /metrics 用のハンドラー
func Handler() http.Handler { return promhttp.Handler() }
