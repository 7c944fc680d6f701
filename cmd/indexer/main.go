package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/rxtech-lab/split-indexer/internal/aggregator"
	"github.com/rxtech-lab/split-indexer/internal/api"
	"github.com/rxtech-lab/split-indexer/internal/config"
	"github.com/rxtech-lab/split-indexer/internal/database"
	"github.com/rxtech-lab/split-indexer/internal/events"
	"github.com/rxtech-lab/split-indexer/internal/metrics"
	"github.com/rxtech-lab/split-indexer/internal/services"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
)

func main() {
	var eventsPath = flag.String("events", "-", "NDJSON event stream to apply (- for stdin)")
	var showVersion = flag.Bool("version", false, "Show version information")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *showVersion {
		log.Infof("split-indexer %s (%s)", Version, CommitHash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	var db *database.Database
	switch cfg.DatabaseDriver {
	case "postgres":
		db, err = database.NewPostgresDatabase(cfg.DatabaseDSN)
	default:
		db, err = database.NewDatabase(cfg.DatabasePath)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to open entity store")
	}
	defer db.Close()

	ledger := services.NewLedgerService(db.DB)
	pools := services.NewPoolService(db.DB)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	agg := aggregator.New(ledger, pools, log, m)

	apiServer := api.NewAPIServer(ledger, pools, registry)
	port, err := apiServer.Start(cfg.ListenPort)
	if err != nil {
		log.WithError(err).Fatal("failed to start API server")
	}
	log.WithField("port", port).Info("API server started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		cancel()
	}()

	if err := consumeEvents(ctx, *eventsPath, agg, log); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("event stream ended with error")
	}

	// Keep serving queries until interrupted.
	<-ctx.Done()

	if err := apiServer.Shutdown(); err != nil {
		log.WithError(err).Error("error shutting down API server")
	}
	log.Info("shut down")
}

// consumeEvents applies an ordered NDJSON event stream, one event at a time.
// Malformed lines are logged and skipped so one bad event cannot halt
// ingestion.
func consumeEvents(ctx context.Context, path string, agg *aggregator.Aggregator, log *logrus.Logger) error {
	var in io.Reader
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		evt, err := events.Decode(line)
		if err != nil {
			log.WithError(err).Warn("dropping malformed event")
			continue
		}
		if err := agg.Apply(ctx, evt); err != nil {
			return err
		}
	}
	return scanner.Err()
}
