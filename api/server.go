package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/auth"
	"github.com/Chaeeun2/alolot/config"
	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/services"
	"github.com/Chaeeun2/alolot/storage"
)

// paletteLoadTimeout bounds the initial category load at startup.
const paletteLoadTimeout = 10 * time.Second

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer wires the router over database and files using the settings in c.
func NewServer(database database.Database, files storage.ObjectStore, c map[string]string) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, err := newRouter(database, withConfig(c), withStartupTime(startupTime), withFiles(files))
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180*time.Second),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	files       storage.ObjectStore
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withFiles(files storage.ObjectStore) func(*router) {
	return func(r *router) {
		r.files = files
	}
}

func newRouter(database database.Database, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.files == nil {
		return nil, errs.NewConfigError("object store", fmt.Errorf("no object store configured"))
	}

	secret := config.GetString(router.config, "JWT_SECRET", "")
	if secret == "" {
		return nil, errs.NewEnvironmentVariableError("JWT_SECRET")
	}
	tokens := auth.NewService(secret, time.Duration(config.GetInt(router.config, "JWT_TTL_MINUTES", 720))*time.Minute)

	credentials, err := auth.NewCredentials(
		config.GetString(router.config, "ADMIN_PASSWORD_HASH", ""),
		config.GetString(router.config, "ADMIN_PASSWORD", ""),
	)
	if err != nil {
		return nil, err
	}

	palette := services.NewPaletteProvider(database.CategoryRepo())
	ctx, cancel := context.WithTimeout(context.Background(), paletteLoadTimeout)
	defer cancel()
	if err := palette.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("starting with an empty category palette")
	}

	handlers := initializeHandlers(database, handlerDeps{
		tokens:      tokens,
		credentials: credentials,
		uploader:    services.NewUploader(router.files),
		sitemap:     services.NewSitemapGenerator(database.ProjectRepo(), config.GetString(router.config, "PUBLIC_BASE_URL", services.DefaultPublicBaseURL)),
		palette:     palette,
	})

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware)
	chiRouter.Use(corsMiddleware(config.GetList(router.config, "ACCEPTED_ORIGINS")))

	if memory, ok := router.files.(*storage.MemoryStore); ok {
		chiRouter.Handle("/files/*", http.StripPrefix("/files", memory))
	}

	setupPublicRoutes(chiRouter, handlers, router.startupTime, NewResponder(log.With().Str("handlerName", "health").Logger()))
	setupAdminRoutes(chiRouter, handlers, newAuthMiddleware(tokens))

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
