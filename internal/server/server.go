// Package server wires the configuration, storage and API into an HTTP
// server.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dhyhn5012/tccb/internal/api"
	"github.com/dhyhn5012/tccb/internal/config"
	"github.com/dhyhn5012/tccb/internal/exporter"
	"github.com/dhyhn5012/tccb/internal/importer"
	"github.com/dhyhn5012/tccb/internal/profile"
	"github.com/dhyhn5012/tccb/internal/session"
	"github.com/dhyhn5012/tccb/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	store  *store.Store
	redis  *redis.Client
	logger *zap.Logger
}

// NewServer opens the database and session backend and builds the router.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := zap.L().Named("server")

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Warn("ensure data dir", zap.Error(err))
		dataDir = cfg.Data.DataDir
	}

	sqliteStore, err := store.New(filepath.Join(dataDir, store.DefaultFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{store: sqliteStore, logger: logger}

	sessions, err := s.newSessionStore(cfg.Session)
	if err != nil {
		_ = sqliteStore.Close()
		return nil, err
	}

	handler := api.NewHandler(api.Deps{
		Importer: importer.NewCoordinator(sqliteStore, importer.Config{
			DefaultDepartment: cfg.Roster.DefaultDepartment,
			Workers:           cfg.Roster.Workers,
		}),
		Sessions:    sessions,
		ImportLogs:  sqliteStore,
		Profiles:    profile.NewService(sqliteStore),
		Exporter:    exporter.NewExporter(),
		MaxUploadMB: cfg.Server.MaxUploadMB,
	})

	s.router = gin.New()
	s.setupRoutes(cfg.Server, handler)
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) newSessionStore(cfg config.SessionConfig) (session.Store, error) {
	if cfg.Backend != config.SessionRedis {
		return session.NewMemoryStore(cfg.TTL()), nil
	}

	s.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	rs := session.NewRedisStore(s.redis, cfg.TTL())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		_ = s.redis.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.RedisAddr, err)
	}
	s.logger.Info("session backend", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
	return rs, nil
}

func (s *Server) setupRoutes(cfg config.ServerConfig, handler *api.Handler) {
	s.router.Use(RequestID(), RequestLogger(zap.L().Named("http")), gin.Recovery(), CORS())

	apiGroup := s.router.Group("/api")
	handler.RegisterRoutes(apiGroup, RateLimitByIP(rate.Limit(cfg.UploadRate), cfg.UploadBurst))

	if cfg.DevMode {
		// frontend dev server
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}

	sub, _ := fs.Sub(staticFiles, "static")
	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)
	s.router.NoRoute(index)
}

// Handler exposes the router (used by tests).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address built from the configured port.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run serves until Shutdown is called. A Shutdown that happens first makes
// Run return immediately.
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

// GetStore returns the database (used by tests).
func (s *Server) GetStore() *store.Store {
	return s.store
}
