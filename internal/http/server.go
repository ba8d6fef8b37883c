// Package http serves the JSON API over the home, investment and report services.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/middleware/ratelimit"
	"skybank/internal/middleware/security"
	"skybank/internal/middleware/trace"
	"skybank/internal/report"
)

// HomeBuilder composes the home summary.
type HomeBuilder interface {
	Build(ctx context.Context, date string) (*core.HomeSummary, error)
}

// InvestmentProjector computes the monthly round-up.
type InvestmentProjector interface {
	Project(ctx context.Context, month string, limit int) (*core.InvestmentRecord, error)
}

// ReportRenderer encodes category reports in memory.
type ReportRenderer interface {
	Render(ctx context.Context, category, date string, format report.Format) ([]byte, int, error)
}

// Options wires the services and tunables into a Server.
type Options struct {
	Home       HomeBuilder
	Investment InvestmentProjector
	Reports    ReportRenderer
	Logger     *log.Logger

	// RequestsPerMinute limits /api/ calls per client; zero uses the default.
	RequestsPerMinute int
	// TrustedProxies are CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
	// Now is the clock used for default dates; nil means time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	home       HomeBuilder
	investment InvestmentProjector
	reports    ReportRenderer
	logger     *log.Logger
	now        func() time.Time

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		home:       opts.Home,
		investment: opts.Investment,
		reports:    opts.Reports,
		logger:     logger.WithComponent(log.ComponentHTTP),
		now:        now,
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector:   security.NewDetector(),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/home", s.handleHome)
	api.HandleFunc("GET /api/investment", s.handleInvestment)
	api.HandleFunc("GET /api/reports", s.handleReports)
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded. Please try again later.")
	})(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.Handle("/api/", limited)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "Unknown endpoint")
	})

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = s.detector.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics exposes request counters from the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
