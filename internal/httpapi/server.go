package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/five82/marquee/internal/browse"
	"github.com/five82/marquee/internal/favorites"
	"github.com/five82/marquee/internal/metrics"
	"github.com/five82/marquee/internal/tmdb"
)

const (
	defaultRequestsPerMinute = 120
	defaultMaxPage           = 500
)

// Options configures the server.
type Options struct {
	API       tmdb.MovieAPI
	Favorites *favorites.Store
	Logger    *slog.Logger
	// CORSOrigins lists allowed browser origins. Empty disables CORS headers.
	CORSOrigins []string
	// RequestsPerMinute limits each client IP. Zero uses the default; a
	// negative value disables limiting.
	RequestsPerMinute int
	// Language is the TMDB language code used for title collation.
	Language   string
	BatchLimit int
	ImageURL   func(path, size string) string
}

// Server serves the movie browser API.
type Server struct {
	api        tmdb.MovieAPI
	favs       *favorites.Store
	logger     *slog.Logger
	lang       language.Tag
	batchLimit int
	imageURL   func(path, size string) string
	handler    http.Handler
}

// New builds the server and its route table.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	favs := opts.Favorites
	if favs == nil {
		favs = favorites.Load(nil, logger)
	}
	imageURL := opts.ImageURL
	if imageURL == nil {
		imageURL = tmdb.ImageURL
	}
	limit := opts.BatchLimit
	if limit <= 0 {
		limit = browse.DefaultBatchLimit
	}

	s := &Server{
		api:        opts.API,
		favs:       favs,
		logger:     logger,
		lang:       browse.LanguageTag(opts.Language),
		batchLimit: limit,
		imageURL:   imageURL,
	}
	metrics.FavoritesCount.Set(float64(favs.Len()))
	s.handler = s.routes(opts)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))
	r.Use(instrument)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		rpm := opts.RequestsPerMinute
		if rpm == 0 {
			rpm = defaultRequestsPerMinute
		}
		if rpm > 0 {
			r.Use(httprate.LimitByIP(rpm, time.Minute))
		}

		r.Route("/movies", func(r chi.Router) {
			r.Get("/popular", s.handlePopular)
			r.Get("/search", s.handleSearch)
			r.Get("/{slug}", s.handleMovie)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", s.handleListFavorites)
			r.Delete("/", s.handleClearFavorites)
			r.Get("/movies", s.handleFavoriteMovies)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", s.handleAddFavorite)
				r.Delete("/", s.handleRemoveFavorite)
				r.Post("/toggle", s.handleToggleFavorite)
			})
		})
	})

	return r
}
