package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pet-adoption-hub/internal/adapters/auth/identity"
	"pet-adoption-hub/internal/adapters/auth/jwtverify"
	mediamem "pet-adoption-hub/internal/adapters/media/memory"
	mediaS3 "pet-adoption-hub/internal/adapters/media/s3"
	mem "pet-adoption-hub/internal/adapters/storage/memory"
	"pet-adoption-hub/internal/adapters/storage/sqlstore"
	"pet-adoption-hub/internal/config"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/media"
	"pet-adoption-hub/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title       Pet Adoption Hub API
// @version     1.0
// @BasePath    /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "pet-adoption-hub",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := router.Options{
		Logger:       log,
		Metrics:      m,
		SnapshotTTL:  cfg.Catalog.SnapshotTTL,
		DirectoryTTL: cfg.Directory.RebuildTTL,
	}

	closeStore, err := wireStore(ctx, cfg.Store, log, &opts)
	if err != nil {
		return err
	}
	defer closeStore()

	opts.Media, err = newMediaStore(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("media: %w", err)
	}

	opts.AuthVerifier, err = newVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if opts.AuthVerifier == nil {
		log.Warn("auth dev mode: trusting X-Debug-User-ID", nil)
	}

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":         addr,
			"store_driver": cfg.Store.Driver,
			"media_driver": cfg.Media.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// wireStore completa los repos de opts según el driver y devuelve el close.
func wireStore(ctx context.Context, sc config.StoreConfig, log logger.Logger, opts *router.Options) (func(), error) {
	if sc.Driver == "memory" {
		opts.Animals = mem.NewAnimalsRepo()
		opts.Users = mem.NewUsersRepo()
		return func() {}, nil
	}

	db, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:       sc.Driver,
		DSN:          sc.DSN,
		MaxOpenConns: sc.MaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if sc.Migrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store migrate: %w", err)
		}
		log.Info("migrations applied", map[string]any{"driver": db.Driver()})
	}

	opts.Animals = sqlstore.NewAnimalsRepo(db)
	opts.Users = sqlstore.NewUsersRepo(db)
	return func() { _ = db.Close() }, nil
}

func newMediaStore(ctx context.Context, mc config.MediaConfig) (media.Store, error) {
	if mc.Driver != "s3" {
		return mediamem.New(mc.PublicBaseURL), nil
	}
	return mediaS3.New(ctx, mediaS3.Config{
		Region:          mc.Region,
		Bucket:          mc.Bucket,
		Endpoint:        mc.Endpoint,
		PathStyle:       mc.PathStyle,
		AccessKeyID:     mc.AccessKeyID,
		SecretAccessKey: mc.SecretAccessKey,
		PublicBaseURL:   mc.PublicBaseURL,
	})
}

// newVerifier devuelve nil en modo dev.
func newVerifier(ac config.AuthConfig) (auth.AuthVerifier, error) {
	switch {
	case ac.UsesJWT():
		return jwtverify.New(ac.JWTSecret, ac.JWTIssuer)
	case ac.UsesIdentity():
		return identity.NewVerifier(identity.Config{
			BaseURL: ac.IdentityURL,
			APIKey:  ac.IdentityAPIKey,
			Timeout: ac.Timeout,
		})
	default:
		return nil, nil
	}
}
