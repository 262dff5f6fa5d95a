// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waterlab/sensorlog/api"
	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/database"
	"github.com/waterlab/sensorlog/internal/ingest"
	"github.com/waterlab/sensorlog/internal/models"
	"github.com/waterlab/sensorlog/internal/monitoring"
	"github.com/waterlab/sensorlog/internal/notify"
	"github.com/waterlab/sensorlog/internal/repository/sqlstore"
	"github.com/waterlab/sensorlog/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	service    *service.Service
	monitoring *monitoring.Service
	notifier   *notify.RedisNotifier
	ingestor   *ingest.MQTTIngestor
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		srv:        srv,
		monitoring: monitoring.NewService(),
	}
}

// Start wires all components, begins listening and blocks until shutdown
func (s *Server) Start() error {
	if err := s.initialize(context.Background()); err != nil {
		return err
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

func (s *Server) initialize(ctx context.Context) error {
	db, err := initDB(ctx, s.config.Database)
	if err != nil {
		return err
	}
	s.db = db

	repo := sqlstore.NewSensorDataRepository(db)
	if s.config.Database.AutoCreate {
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	s.service = service.New(repo)
	if err := s.service.Validate(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	if s.config.Redis.Enabled() {
		s.notifier = notify.NewRedisNotifier(s.config.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.notifier.Ping(pingCtx); err != nil {
			nuts.L.Warnf("[Server] Redis not reachable yet, notifications will retry per reading: %v", err)
		}
		cancel()
	}

	if err := s.setupEventHandlers(); err != nil {
		return fmt.Errorf("setup event handlers: %w", err)
	}
	s.srv.Handler = api.NewRouter(s.service, s.config.CORS, os.Stdout)

	if s.config.MQTT.Enabled() {
		s.ingestor = ingest.NewMQTTIngestor(s.config.MQTT, s.service)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := s.ingestor.Start(connectCtx); err != nil {
			return fmt.Errorf("start mqtt ingest: %w", err)
		}
	}
	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if s.ingestor != nil {
		s.ingestor.Stop()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.close()

	nuts.L.Infof("[Server] Server shut down successfully (events: %v)", s.monitoring.EventCounts())
	return nil
}

func (s *Server) close() {
	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing redis client: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
	}
}

// setupEventHandlers attaches side effects to stored readings. Handler
// failures are logged only; the reading is already committed.
func (s *Server) setupEventHandlers() error {
	err := s.service.OnReadingInserted("monitoring", func(r models.SensorReading) {
		s.monitoring.RecordEvent("reading_inserted", map[string]string{
			"location": r.Location,
			"date":     r.Date,
		})
	})
	if err != nil {
		return err
	}

	if s.notifier == nil {
		return nil
	}
	return s.service.OnReadingInserted("redis", func(r models.SensorReading) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := s.notifier.NotifyReading(ctx, r); err != nil {
			nuts.L.Warnf("[Server] Failed to publish reading for %s: %v", r.Location, err)
			return
		}
		s.monitoring.RecordEvent("reading_published", map[string]string{"location": r.Location})
	})
}

func initDB(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}
