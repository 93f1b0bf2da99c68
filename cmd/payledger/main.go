package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/payledger/internal/api"
	"github.com/baharkarakas/payledger/internal/config"
	"github.com/baharkarakas/payledger/internal/export"
	"github.com/baharkarakas/payledger/internal/ingest"
	"github.com/baharkarakas/payledger/internal/logger"
	"github.com/baharkarakas/payledger/internal/metrics"
	"github.com/baharkarakas/payledger/internal/repository/memory"
	"github.com/baharkarakas/payledger/internal/services"
	"github.com/baharkarakas/payledger/internal/worker"
)

func main() {
	serve := flag.Bool("serve", false, "keep running after processing and serve the report API")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-serve] transactions.csv\n", os.Args[0])
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	repos := memory.NewRepositories()
	ledger := services.NewLedgerService(repos.Accounts, repos.Journal, log)
	pool := worker.NewPool(cfg.Workers, cfg.QueueSize)

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Error("open input", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	var srv *http.Server
	if *serve {
		srv = &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           api.NewRouter(cfg, ledger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("report API starting", "port", cfg.HTTPPort)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("server", "err", err)
			}
		}()
	}

	pipeline := ingest.NewPipeline(ingest.NewCSVSource(f), pool, ledger, log)
	runErr := pipeline.Run(ctx)
	if runErr != nil {
		log.Error("ingestion stopped", "err", runErr)
	}

	// accounts touched before a fault remain valid, so always report
	if err := export.WriteCSV(os.Stdout, ledger.Snapshot()); err != nil {
		log.Error("write report", "err", err)
		os.Exit(1)
	}

	if srv != nil {
		log.Info("processing done, serving report API")
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	if runErr != nil {
		os.Exit(1)
	}
}
