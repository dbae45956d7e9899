package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trivia_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"prefix"},
	)

	// Результаты
	ScoresSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_scores_submitted_total",
			Help: "Score records persisted, by author kind",
		},
		[]string{"author"},
	)

	ScoreReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_score_reads_total",
			Help: "Score listing and stats reads, by resolution kind",
		},
		[]string{"operation", "resolution"},
	)

	// Игры
	GamesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trivia_games_started_total",
			Help: "Game sessions started",
		},
	)

	GamesFinished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trivia_games_finished_total",
			Help: "Game sessions finished with a persisted score",
		},
	)

	// Live feed
	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trivia_live_feed_clients",
			Help: "Connected websocket clients of the live score feed",
		},
	)

	LiveFeedDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trivia_live_feed_dropped_total",
			Help: "Live feed messages dropped because a client buffer was full",
		},
	)
)

// RecordAPIRequest записывает метрики одного HTTP запроса
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordScoreSubmitted увеличивает счётчик сохранённых результатов
func RecordScoreSubmitted(author string) {
	ScoresSubmitted.WithLabelValues(author).Inc()
}

// RecordScoreRead увеличивает счётчик чтений результатов
func RecordScoreRead(operation, resolution string) {
	ScoreReads.WithLabelValues(operation, resolution).Inc()
}
