package router

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/showroom-gallery/internal/config"
	"github.com/leca/showroom-gallery/internal/handler"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	Handler *handler.Handler
	Config  *config.Config
	Router  chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(h *handler.Handler, cfg *config.Config) *Server {
	s := &Server{Handler: h, Config: cfg}

	r := chi.NewRouter()

	// CORS — must be before other middleware to handle preflight OPTIONS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check.
	r.Get("/health", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/upload", h.UploadImage)

		// The query-param delete variant must be registered on the
		// collection path so ids containing slashes (remote object
		// keys) survive routing.
		r.Delete("/images", h.DeleteImageByQuery)
		r.Get("/images/{section}", h.ListImages)
		r.Delete("/images/{id}", h.DeleteImage)
	})

	// Local-mode blobs are served straight off the uploads directory.
	if cfg.StorageMode == config.StorageLocal {
		fileServer := http.FileServer(http.Dir(cfg.UploadsPath))
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}
