// Package main wires together the funding extractor service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/acquire"
	"github.com/fundwire/extractor/internal/api"
	gcsarchive "github.com/fundwire/extractor/internal/archive/gcs"
	localarchive "github.com/fundwire/extractor/internal/archive/local"
	"github.com/fundwire/extractor/internal/clock/system"
	"github.com/fundwire/extractor/internal/config"
	"github.com/fundwire/extractor/internal/contacts"
	"github.com/fundwire/extractor/internal/extract"
	"github.com/fundwire/extractor/internal/funding"
	"github.com/fundwire/extractor/internal/id/uuid"
	"github.com/fundwire/extractor/internal/llm/openai"
	"github.com/fundwire/extractor/internal/logging"
	"github.com/fundwire/extractor/internal/metrics"
	"github.com/fundwire/extractor/internal/people/apollo"
	"github.com/fundwire/extractor/internal/pipeline"
	pubsubpublisher "github.com/fundwire/extractor/internal/publisher/pubsub"
	csvsink "github.com/fundwire/extractor/internal/sink/csvfile"
	memorysink "github.com/fundwire/extractor/internal/sink/memory"
	postgressink "github.com/fundwire/extractor/internal/sink/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	clock := system.New()
	idGen := uuid.New()

	acquireCfg := cfg.AcquirerConfig()
	fetcher, err := acquire.NewCollyFetcher(acquireCfg, logger.Named("fetcher"))
	if err != nil {
		logger.Fatal("fetcher init failed", zap.Error(err))
	}
	var renderer acquire.Renderer
	if cfg.Render.Enabled {
		chromedpRenderer, err := acquire.NewChromedpRenderer(acquireCfg, logger.Named("renderer"))
		if err != nil {
			logger.Warn("renderer init failed, continuing without rendering", zap.Error(err))
		} else {
			renderer = chromedpRenderer
			defer func() {
				if closeErr := chromedpRenderer.Close(); closeErr != nil {
					logger.Warn("renderer close failed", zap.Error(closeErr))
				}
			}()
		}
	}
	acquirer := acquire.New(acquireCfg, fetcher, renderer, logger.Named("acquire"))

	generator, err := openai.New(openai.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		logger.Fatal("llm client init failed", zap.Error(err))
	}
	extractor := extract.New(generator, logger.Named("extract"))

	var directory funding.Directory
	if cfg.People.Enabled {
		directory, err = apollo.New(apollo.Config{
			APIKey:  cfg.People.APIKey,
			BaseURL: cfg.People.BaseURL,
			Timeout: time.Duration(cfg.People.TimeoutSec) * time.Second,
			PerPage: cfg.People.PerPage,
		}, logger.Named("apollo"))
		if err != nil {
			logger.Fatal("apollo client init failed", zap.Error(err))
		}
	}
	resolver := contacts.New(directory, logger.Named("contacts"))

	archive := buildArchive(ctx, cfg, logger)
	sink := buildSink(ctx, cfg, logger)

	var publisher funding.Publisher
	if cfg.PubSub.Enabled {
		pub, err := pubsubpublisher.New(ctx, cfg.PubSub.ProjectID, logger.Named("pubsub"))
		if err != nil {
			logger.Fatal("pubsub init failed", zap.Error(err))
		}
		defer func() {
			if closeErr := pub.Close(); closeErr != nil {
				logger.Warn("pubsub close failed", zap.Error(closeErr))
			}
		}()
		publisher = pub
	}

	runner := pipeline.New(
		acquirer,
		extractor,
		resolver,
		archive,
		clock,
		cfg.RunnerConfig(),
		logger.Named("pipeline"),
	)

	apiServer := api.NewServer(
		runner,
		sink,
		publisher,
		idGen,
		clock,
		api.Config{
			AuthEnabled:     cfg.Auth.Enabled,
			APIKey:          cfg.Auth.APIKey,
			CompletionTopic: cfg.PubSub.Topic,
		},
		logger.Named("api"),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) funding.BlobStore {
	switch cfg.Archive.Kind {
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			logger.Fatal("gcs client init failed", zap.Error(err))
		}
		archive, err := gcsarchive.New(client, gcsarchive.Config{
			Bucket: cfg.Archive.GCSBucket,
			Prefix: cfg.Archive.Prefix,
		})
		if err != nil {
			logger.Fatal("gcs archive init failed", zap.Error(err))
		}
		return archive
	case "local":
		archive, err := localarchive.New(localarchive.Config{BaseDir: cfg.Archive.LocalDir})
		if err != nil {
			logger.Fatal("local archive init failed", zap.Error(err))
		}
		return archive
	default:
		return nil
	}
}

func buildSink(ctx context.Context, cfg config.Config, logger *zap.Logger) funding.RowSink {
	switch cfg.Sink.Kind {
	case "postgres":
		sink, err := postgressink.New(ctx, postgressink.Config{
			DSN:   cfg.Sink.DSN,
			Table: cfg.Sink.Table,
		})
		if err != nil {
			logger.Fatal("postgres sink init failed", zap.Error(err))
		}
		return sink
	case "memory":
		return memorysink.New()
	default:
		sink, err := csvsink.New(cfg.Sink.CSVPath)
		if err != nil {
			logger.Fatal("csv sink init failed", zap.Error(err))
		}
		return sink
	}
}
