package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QuotesTotal         *prometheus.CounterVec
	QuoteTotalDollars   prometheus.Histogram
	InquiriesSaved      *prometheus.CounterVec
	DepositIntents      *prometheus.CounterVec
	RateLimited         prometheus.Counter
	HTTPRequestDuration *prometheus.HistogramVec
	BotUpdates          prometheus.Counter
	ErrorsTotal         *prometheus.CounterVec
}

// New registers the service metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "djbooking_quotes_total",
			Help: "Quotes computed by event type and pricing mode",
		}, []string{"event_type", "mode"}),

		QuoteTotalDollars: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "djbooking_quote_total_dollars",
			Help:    "Distribution of quoted totals in dollars",
			Buckets: []float64{400, 500, 600, 750, 1000, 1250, 1500, 2000},
		}),

		InquiriesSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "djbooking_inquiries_saved_total",
			Help: "Inquiries stored by source",
		}, []string{"source"}),

		DepositIntents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "djbooking_deposit_intents_total",
			Help: "Deposit payment intents by result",
		}, []string{"result"}),

		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "djbooking_rate_limited_total",
			Help: "Requests rejected by the quote rate limit",
		}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "djbooking_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		BotUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "djbooking_bot_updates_total",
			Help: "Telegram updates processed",
		}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "djbooking_errors_total",
			Help: "Errors by component",
		}, []string{"component"}),
	}
}

// ObserveQuote records a computed quote.
func (m *Metrics) ObserveQuote(eventType string, pkg bool, total int64) {
	mode := "additive"
	if pkg {
		mode = "package"
	}
	m.QuotesTotal.WithLabelValues(eventType, mode).Inc()
	m.QuoteTotalDollars.Observe(float64(total))
}
