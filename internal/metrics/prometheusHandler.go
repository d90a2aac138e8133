package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var documentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_processed_total",
	Help: "Documents successfully ingested into the index",
})

var questionsAsked = promauto.NewCounter(prometheus.CounterOpts{
	Name: "questions_asked_total",
	Help: "Questions that reached the retrieval pipeline",
})

var chunksRetrieved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_retrieved_total",
	Help: "Chunks returned by similarity search across all questions",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementDocumentsProcessed() {
	documentsProcessed.Inc()
}

func IncrementQuestionsAsked() {
	questionsAsked.Inc()
}

func AddChunksRetrieved(n int) {
	chunksRetrieved.Add(float64(n))
}

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60, 180},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
