package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/partner-transaction/internal"
	"github.com/frahmantamala/partner-transaction/internal/core/events"
	"github.com/frahmantamala/partner-transaction/internal/partner"
	partnerPostgres "github.com/frahmantamala/partner-transaction/internal/partner/postgres"
	"github.com/frahmantamala/partner-transaction/internal/transaction"
	"github.com/frahmantamala/partner-transaction/internal/transport"
	"github.com/frahmantamala/partner-transaction/internal/transport/rest"
	"github.com/frahmantamala/partner-transaction/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var openAPIFile string

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that accepts partner transaction submissions`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().StringVar(&openAPIFile, "openapi", "./api/openapi.yml", "OpenAPI document served at /openapi.yml")
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Registry *partner.StaticRegistry
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func (d *Dependencies) sqlDB() *sql.DB {
	if d.DB == nil {
		return nil
	}
	return d.DB.DB
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "partners", deps.Registry.Keys())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Error("Event handlers did not drain", "error", err)
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	txService := transaction.NewService(deps.Registry, deps.EventBus, deps.Logger)
	txHandler := transaction.NewHandler(transport.NewBaseHandler(deps.Logger), txService)

	rest.RegisterAllRoutes(deps.Router, deps.sqlDB(), deps.Registry, txHandler, deps.Logger, rest.RouterOptions{
		OpenAPIFile: openAPIFile,
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.LoggerWrapper()

	var db *sqlx.DB
	if config.Database.Source != "" {
		db, err = initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	registry, err := loadRegistry(config, db, lg)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	bus := events.NewEventBus(lg)
	audit := events.AuditLogger(lg.With("component", "audit"))
	bus.Subscribe(events.EventTypeTransactionPriced, audit)
	bus.Subscribe(events.EventTypeTransactionRejected, audit)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Registry: registry,
		EventBus: bus,
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}

// loadRegistry builds the partner registry once; it is never reloaded while
// the server runs.
func loadRegistry(cfg *internal.Config, db *sqlx.DB, lg *slog.Logger) (*partner.StaticRegistry, error) {
	if cfg.Registry.Source != internal.RegistrySourceDatabase {
		return partner.NewStaticRegistry(cfg.Registry.Secrets()), nil
	}
	if db == nil {
		return nil, errors.New("registry source is database but database.source is empty")
	}

	gdb, err := openGorm(db.DB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(context.Background(), cfg.Registry.LoadTimeout)
	defer cancel()

	svc := partner.NewService(partnerPostgres.NewPartnerRepository(gdb), lg)
	registry, err := svc.LoadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if registry.Len() == 0 {
		return nil, errors.New("partners table has no active partners")
	}
	return registry, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// openGorm wraps an existing pool; closing the pool is the caller's job.
func openGorm(db *sql.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gdb, nil
}
