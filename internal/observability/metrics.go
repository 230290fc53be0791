package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	interviewsStarted   *prometheus.CounterVec
	answersSubmitted    *prometheus.CounterVec
	interviewsCompleted *prometheus.CounterVec
	interviewScore      *prometheus.HistogramVec
	scoreParseFailures  prometheus.Counter
	eventsPublished     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainer_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trainer_http_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}, []string{"method", "route"})

		interviewsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainer_interviews_started_total",
			Help: "Interviews started, by role and outcome.",
		}, []string{"role", "outcome"})

		answersSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainer_answers_submitted_total",
			Help: "Answers submitted, by role and outcome.",
		}, []string{"role", "outcome"})

		interviewsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainer_interviews_completed_total",
			Help: "Interviews completed, by role and whether every question was answered.",
		}, []string{"role", "finished"})

		interviewScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trainer_interview_score",
			Help:    "Aggregate score of completed interviews.",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		}, []string{"role"})

		scoreParseFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainer_score_parse_failures_total",
			Help: "Feedback responses whose score could not be read.",
		})

		eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trainer_events_published_total",
			Help: "Interview events published, by transport and outcome.",
		}, []string{"transport", "outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			interviewsStarted,
			answersSubmitted,
			interviewsCompleted,
			interviewScore,
			scoreParseFailures,
			eventsPublished,
		)
	})
}

// HTTPRequests exposes the counter for HTTP requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for HTTP requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// InterviewsStarted exposes the interview start counter.
func InterviewsStarted() *prometheus.CounterVec {
	RegisterMetrics()
	return interviewsStarted
}

// AnswersSubmitted exposes the answer submission counter.
func AnswersSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return answersSubmitted
}

// InterviewsCompleted exposes the interview completion counter.
func InterviewsCompleted() *prometheus.CounterVec {
	RegisterMetrics()
	return interviewsCompleted
}

// InterviewScore exposes the aggregate score histogram.
func InterviewScore() *prometheus.HistogramVec {
	RegisterMetrics()
	return interviewScore
}

// ScoreParseFailures exposes the unreadable score counter.
func ScoreParseFailures() prometheus.Counter {
	RegisterMetrics()
	return scoreParseFailures
}

// EventsPublished exposes the event publishing counter.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublished
}
