package web

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"directory/internal/adapters/http/middleware"
	"directory/internal/adapters/http/perf"
	"directory/internal/adapters/objectstore"
	businessStore "directory/internal/adapters/storage/business"
	doctorStore "directory/internal/adapters/storage/doctor"
	donationStore "directory/internal/adapters/storage/donation"
	eventStore "directory/internal/adapters/storage/event"
	hostelStore "directory/internal/adapters/storage/hostel"
	memberStore "directory/internal/adapters/storage/member"
	newsStore "directory/internal/adapters/storage/news"
	"directory/internal/application/listutil"
	"directory/internal/application/orchestrators"
)

// DefaultMaxUploadBytes bounds a multipart submission when Options.MaxUploadBytes is not set.
const DefaultMaxUploadBytes = 32 << 20

// Stores holds all storage dependencies.
type Stores struct {
	Members    memberStore.Store
	Businesses businessStore.Store
	Events     eventStore.Store
	Donations  donationStore.Store
	News       newsStore.Store
	Doctors    doctorStore.Store
	Hostel     hostelStore.Store
}

// Options configures NewMux. Zero values select development defaults.
type Options struct {
	Objects        objectstore.Store
	LocalFiles     *objectstore.LocalStore // serves /files/ when set
	Collector      *perf.Collector         // exposes /metrics when set
	Notifier       *orchestrators.Notifier
	Ping           func(ctx context.Context) error // backs /healthz when set
	Limits         listutil.Limits
	CSRF           middleware.CSRFOptions
	RateLimit      int // requests per minute per IP; 0 disables
	SlowRequestMs  int
	MaxUploadBytes int64
	GenerateID     func() string
	Now            func() time.Time
}

// server carries the dependencies every handler reads.
type server struct {
	stores   Stores
	opts     Options
	resolver *objectstore.Resolver
}

// LoadCSRFKey validates a configured CSRF secret.
// An empty secret yields a random per-process key outside production.
// POST: Returns a 32-byte key or an error
func LoadCSRFKey(raw string, production bool) ([]byte, error) {
	if raw != "" {
		if len(raw) != 32 {
			return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(raw))
		}
		return []byte(raw), nil
	}
	if production {
		return nil, errors.New("csrf key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("csrf_key_random", "detail", "form tokens will not survive a restart")
	return key, nil
}

// NewMux wires HTTP handlers for the directory API.
// PRE: every field of stores is set
func NewMux(stores Stores, opts Options) (http.Handler, error) {
	if len(opts.CSRF.Key) == 0 {
		key, err := LoadCSRFKey("", false)
		if err != nil {
			return nil, err
		}
		opts.CSRF.Key = key
	}
	if opts.Limits.Default <= 0 {
		opts.Limits = listutil.DefaultLimits
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.GenerateID == nil {
		opts.GenerateID = generateID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &server{
		stores:   stores,
		opts:     opts,
		resolver: objectstore.NewResolver(opts.Objects),
	}
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var limiter *middleware.RateLimiter
	if opts.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(opts.RateLimit, time.Minute)
	}

	// Timing -> Recover -> RateLimit -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRF),
		middleware.RateLimit(limiter),
		middleware.Recover,
		middleware.Timing(opts.Collector, opts.SlowRequestMs),
	), nil
}

func (s *server) registerRoutes(mux *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Route(h))
	}

	handle("GET /healthz", s.handleHealth)
	if s.opts.Collector != nil {
		mux.Handle("GET /metrics", s.opts.Collector.Handler())
	}
	if s.opts.LocalFiles != nil {
		handle("GET /files/{bucket}/{key...}", s.handleFile)
	}

	handle("GET /api/members", s.handleListMembers)
	handle("GET /api/members/lookup", s.handleLookupMember)
	handle("GET /api/members/{id}", s.handleGetMember)
	handle("GET /api/families/{familyNo}", s.handleGetFamily)

	handle("GET /api/businesses", s.handleListBusinesses)
	handle("GET /api/businesses/{id}", s.handleGetBusiness)
	handle("POST /api/businesses", s.handleSubmitBusiness)

	handle("GET /api/events", s.handleListEvents)
	handle("GET /api/events/{id}", s.handleGetEvent)
	handle("POST /api/events", s.handleSubmitEvent)

	handle("GET /api/donations", s.handleListDonations)
	handle("POST /api/donations", s.handleSubmitDonation)

	handle("GET /api/news", s.handleListNews)
	handle("GET /api/news/{id}", s.handleGetArticle)

	handle("GET /api/doctors", s.handleListDoctors)

	handle("POST /api/applications/hostel", s.handleSubmitHostel)
}

func (s *server) uploads() orchestrators.UploadDeps {
	return orchestrators.UploadDeps{
		Objects:   s.opts.Objects,
		Collector: s.opts.Collector,
		Notifier:  s.opts.Notifier,
	}
}
