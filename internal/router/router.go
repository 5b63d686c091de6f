package router

import (
	"net/http"
	"time"

	_ "pet-adoption-hub/docs"
	"pet-adoption-hub/internal/adapters/directions/googlemaps"
	mediamem "pet-adoption-hub/internal/adapters/media/memory"
	mem "pet-adoption-hub/internal/adapters/storage/memory"
	"pet-adoption-hub/internal/domain/animals"
	"pet-adoption-hub/internal/domain/claims"
	"pet-adoption-hub/internal/domain/directory"
	"pet-adoption-hub/internal/domain/intake"
	"pet-adoption-hub/internal/domain/users"
	"pet-adoption-hub/internal/middleware"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/directions"
	"pet-adoption-hub/internal/ports/media"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Stores: si vienen nil se usan los in-memory.
	Animals animals.Repository
	Users   users.Repository
	Media   media.Store

	Directions directions.Launcher
	Logger     logger.Logger
	Metrics    *metrics.Metrics

	SnapshotTTL  time.Duration
	DirectoryTTL time.Duration
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	animalRepo := opts.Animals
	if animalRepo == nil {
		animalRepo = mem.NewAnimalsRepo()
	}
	userRepo := opts.Users
	if userRepo == nil {
		userRepo = mem.NewUsersRepo()
	}
	mediaStore := opts.Media
	if mediaStore == nil {
		mediaStore = mediamem.New("")
	}
	launcher := opts.Directions
	if launcher == nil {
		launcher = googlemaps.New()
	}

	// Services por módulo; todos comparten el mismo handle de store.
	catalog := animals.NewCatalog(animalRepo, log)
	view := animals.NewSnapshot(catalog, opts.SnapshotTTL)
	usersSvc := users.NewService(userRepo, catalog, log)
	coordinator := claims.NewCoordinator(animalRepo, userRepo, claims.Options{View: view, Logger: log, Metrics: m})
	assembler := intake.NewAssembler(catalog, mediaStore, intake.Options{View: view, Logger: log, Metrics: m})
	index := directory.NewIndex(userRepo, directory.Options{TTL: opts.DirectoryTTL, Logger: log, Metrics: m})

	// Rutas por módulo
	animals.RegisterRoutes(r, catalog, view, launcher)
	intake.RegisterRoutes(r, assembler)
	claims.RegisterRoutes(r, coordinator)
	users.RegisterRoutes(r, usersSvc)
	directory.RegisterRoutes(r, index)

	return r
}
