package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"dj-booking/internal/metrics"
	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"
	"dj-booking/pkg/payment"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type InquiryStore interface {
	SaveInquiry(ctx context.Context, inquiry storage.Inquiry) (int64, error)
	ListInquiries(ctx context.Context, limit int) ([]storage.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, inquiryID int64, status string) error
	GetInquiryStatistics(ctx context.Context) (*storage.InquiryStatistics, error)
	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

type PaymentCreator interface {
	Enabled() bool
	CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error)
}

type Options struct {
	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	QuoteRateLimit  int64
	QuoteRateWindow time.Duration
	Currency        string
	AdminToken      string

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type Server struct {
	calc     *pricing.Calculator
	store    InquiryStore
	payments PaymentCreator
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

func NewServer(
	calc *pricing.Calculator,
	store InquiryStore,
	payments PaymentCreator,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Server{
		calc:     calc,
		store:    store,
		payments: payments,
		metrics:  m,
		gatherer: gatherer,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rates", s.GetRates)
		r.Route("/quotes", func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/", s.CreateQuote)
			r.Post("/deposit", s.CreateDeposit)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/inquiries", s.ListInquiries)
			r.Patch("/inquiries/{id}", s.UpdateInquiryStatus)
			r.Get("/stats", s.GetStats)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.QuoteRateLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		limited, err := s.store.CheckRateLimit(r.Context(), "quote:"+ip, s.opts.QuoteRateLimit, s.opts.QuoteRateWindow)
		if err != nil {
			s.logger.Warn("Rate limit check failed, allowing request",
				zap.String("client_ip", ip),
				zap.Error(err))
		}
		if limited {
			s.metrics.RateLimited.Inc()
			respondError(w, http.StatusTooManyRequests, "rate_limited", "too many quote requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if s.opts.AdminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.AdminToken)) != 1 {
			respondError(w, http.StatusUnauthorized, "unauthorized", "admin token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}
