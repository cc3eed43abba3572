package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/npezzotti/go-ideaboard/internal/api"
	"github.com/npezzotti/go-ideaboard/internal/config"
	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/ledger"
	"github.com/npezzotti/go-ideaboard/internal/stats"
	"github.com/npezzotti/go-ideaboard/internal/workflow"
)

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	signingKey     string
	allowedOrigins stringSliceFlag
	runMigrations  bool
	migrationsURL  string
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&dsn, "dsn", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable", "database connection string")
	flag.StringVar(&signingKey, "signing-key", defaultSigningKey, "base64 encoded signing key")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.BoolVar(&runMigrations, "migrate", false, "run database migrations on startup")
	flag.StringVar(&migrationsURL, "migrations", "file://db/migrations", "migrations source URL")
	flag.Parse()

	logger := log.New(os.Stderr, "[ideaboard] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dsn, signingKey, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}
	cfg.RunMigrations = runMigrations

	dbConn, err := database.NewPgBoardRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if cfg.RunMigrations {
		if err := dbConn.Migrate(migrationsURL); err != nil {
			logger.Fatal("migrate:", err)
		}
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	eventHub := hub.NewHub(logger, statsUpdater)
	voteLedger := ledger.NewVoteLedger(logger, dbConn, eventHub, statsUpdater)
	stateMachine := workflow.NewStateMachine(logger, dbConn, eventHub, statsUpdater)

	srv := api.NewBoardApp(mux, logger, dbConn, eventHub, voteLedger, stateMachine, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down event hub...")
	eventHub.Shutdown()

	logger.Println("shutdown complete")
}
