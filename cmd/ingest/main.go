package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/transaction-ingest/internal/config"
	"github.com/dvloznov/transaction-ingest/internal/logger"
	"github.com/dvloznov/transaction-ingest/internal/pipeline"
	"github.com/dvloznov/transaction-ingest/internal/source"
	"github.com/dvloznov/transaction-ingest/internal/store/postgres"
)

func main() {
	log := logger.New()

	sourceKind := flag.String("source", source.KindLocal, "source kind: local or gcs")
	location := flag.String("location", "", "batch file path or gs:// object URI")
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if *location == "" {
		log.Fatal().Msg("Error: -location is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	src, err := source.ForKind(*sourceKind)
	if err != nil {
		log.Fatal().Err(err).Msg("unsupported source kind")
	}

	writer, err := postgres.NewWriter(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to the store failed")
	}
	defer writer.Close()

	log.Info().Str("source", *sourceKind).Str("location", *location).Msg("starting batch ingestion")

	batch := pipeline.NewBatch(src, writer, writer)
	result, err := batch.Process(ctx, *location)
	if err != nil {
		var qualityErr *pipeline.BatchQualityError
		if errors.As(err, &qualityErr) {
			// Output was produced; the batch is contaminated, not lost.
			log.Fatal().Err(err).
				Int64("transactions", result.TransactionsWritten).
				Int64("customers", result.CustomersWritten).
				Int64("rejected", result.RejectedWritten).
				Msg("batch persisted but failed data-quality checks, inspect error_logs")
		}
		log.Fatal().Err(err).Msg("ingestion failed")
	}

	fmt.Printf("Ingestion completed successfully: %d transactions, %d customers.\n",
		result.TransactionsWritten, result.CustomersWritten)
}
