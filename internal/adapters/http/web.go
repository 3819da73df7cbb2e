package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sportsdesk/internal/adapters/http/middleware"
	"sportsdesk/internal/adapters/http/perf"
	"sportsdesk/internal/application/orchestrators"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DefaultRateLimitPerSecond is the per-client allowance for state-changing requests.
const DefaultRateLimitPerSecond = 10

// Deps holds everything the web adapter serves.
type Deps struct {
	Desk               *orchestrators.Desk
	Collector          *perf.Collector
	Sports             []string // booking form choices
	CSRFKey            []byte   // 32 bytes, see DeriveCSRFKey
	SecureCookies      bool
	TrustedOrigins     []string
	TrustProxy         bool // take the client address from X-Forwarded-For / X-Real-IP
	SlowRequest        time.Duration
	RateLimitPerSecond int
}

// Server handles desk HTTP requests.
type Server struct {
	desk      *orchestrators.Desk
	collector *perf.Collector
	sports    []string
}

// NewRouter wires routes and middleware.
// PRE: deps.Desk is non-nil, len(deps.CSRFKey) == 32
// POST: Form posts require a CSRF token; JSON requests do not
func NewRouter(deps Deps) http.Handler {
	s := &Server{desk: deps.Desk, collector: deps.Collector, sports: deps.Sports}
	rate := deps.RateLimitPerSecond
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Timing(deps.Collector, deps.SlowRequest))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(rate, time.Second)))
	r.Use(middleware.CSRF(deps.CSRFKey, deps.SecureCookies, deps.TrustedOrigins))

	r.Get("/", s.handleDashboard)
	r.Post("/bookings", s.handleSubmitBooking)
	r.Post("/registrations", s.handleSubmitRegistration)
	r.Get("/reports/detailed", s.handleDetailedReport)
	r.Post("/reports/detailed/close", s.handleCloseReport)

	r.Route("/api", func(r chi.Router) {
		r.Get("/metrics", s.handleMetrics)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/perf", s.handlePerf)
	})
	r.Get("/healthz", handleHealth)

	return r
}
