// Package server exposes the catalog, matching and saved-listings features
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/ai"
	"github.com/safestay/safestay/internal/catalog"
	"github.com/safestay/safestay/internal/store"
)

const defaultRequestTimeout = 60 * time.Second

// SavedStore is the saved-listings persistence the server depends on.
type SavedStore interface {
	SaveListing(ctx context.Context, userID, listingID string) error
	UnsaveListing(ctx context.Context, userID, listingID string) error
	SavedListings(ctx context.Context, userID string) ([]string, error)
	WatchSaved(ctx context.Context, userID string) (<-chan []string, error)
}

// ReportStore is the incident-report persistence the server depends on.
type ReportStore interface {
	SubmitReport(ctx context.Context, listingID int, issueType, description string) (*store.Report, error)
	ReportsForListing(ctx context.Context, listingID int) ([]*store.Report, error)
}

// Server holds the wired dependencies for all HTTP handlers. The ranker,
// summarizer and stores may be nil; the corresponding endpoints then answer
// with a service-unavailable error instead of failing at startup.
type Server struct {
	logger     *zap.Logger
	listings   *catalog.Listings
	profiles   *catalog.Profiles
	ranker     ai.Ranker
	summarizer ai.Summarizer
	saved      SavedStore
	reports    ReportStore
	timeout    time.Duration
}

type Config struct {
	Listings       *catalog.Listings
	Profiles       *catalog.Profiles
	Ranker         ai.Ranker
	Summarizer     ai.Summarizer
	Saved          SavedStore
	Reports        ReportStore
	RequestTimeout time.Duration
}

func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &Server{
		logger:     logger,
		listings:   cfg.Listings,
		profiles:   cfg.Profiles,
		ranker:     cfg.Ranker,
		summarizer: cfg.Summarizer,
		saved:      cfg.Saved,
		reports:    cfg.Reports,
		timeout:    cfg.RequestTimeout,
	}
}

// Router builds the chi router with every route the service exposes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handler(s.getHealth))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", s.handler(s.getListings))
			r.Get("/{id}", s.handler(s.getListing))
			r.Post("/{id}/reviews/summary", s.handler(s.postReviewSummary))
			r.Post("/{id}/reports", s.handler(s.postReport))
			r.Get("/{id}/reports", s.handler(s.getReports))
		})

		r.Route("/roommates", func(r chi.Router) {
			r.Get("/", s.handler(s.getRoommates))
			r.Post("/match", s.handler(s.postMatch))
		})

		r.Route("/users/{userID}/saved", func(r chi.Router) {
			r.Get("/", s.handler(s.getSaved))
			r.Get("/watch", s.handler(s.watchSaved))
			r.Put("/{listingID}", s.handler(s.putSaved))
			r.Delete("/{listingID}", s.handler(s.deleteSaved))
		})
	})

	return r
}

// handler adapts an error-returning handler to http.HandlerFunc so error
// mapping lives in one place.
func (s *Server) handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			s.writeError(r.Context(), w, err)
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// aiContext bounds model-backed work with the configured request timeout.
func (s *Server) aiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	status := map[string]string{"status": "ok"}

	if pinger, ok := s.saved.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["redis"] = "unavailable"
			writeJSON(r.Context(), w, http.StatusServiceUnavailable, status)
			return nil
		}
		status["redis"] = "ok"
	}

	writeJSON(r.Context(), w, http.StatusOK, status)
	return nil
}
