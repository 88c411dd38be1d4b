package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvelichkov/fieldsearch/internal/engine"
	"github.com/nvelichkov/fieldsearch/internal/ingest"
	"github.com/nvelichkov/fieldsearch/internal/querycache"
	"github.com/nvelichkov/fieldsearch/internal/sanitize"
	"github.com/nvelichkov/fieldsearch/internal/server"
	"github.com/nvelichkov/fieldsearch/internal/strategy"
	"github.com/nvelichkov/fieldsearch/internal/tokenizer"
	"github.com/nvelichkov/fieldsearch/pkg/config"
	"github.com/nvelichkov/fieldsearch/pkg/health"
	"github.com/nvelichkov/fieldsearch/pkg/logger"
	"github.com/nvelichkov/fieldsearch/pkg/metrics"
	"github.com/nvelichkov/fieldsearch/pkg/postgres"
	pkgredis "github.com/nvelichkov/fieldsearch/pkg/redis"
	"github.com/nvelichkov/fieldsearch/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting searchd",
		"port", cfg.Server.Port,
		"uid_field", cfg.Engine.UIDField,
		"weighted", cfg.Engine.Weighted,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := buildEngine(cfg.Engine)
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	checker := health.NewChecker()
	m := metrics.New()

	var cache *querycache.Cache
	if cfg.Redis.Enabled {
		var redisClient *pkgredis.Client
		err := resilience.Retry(ctx, resilience.DefaultRetry, "redis connect", func() error {
			var rerr error
			redisClient, rerr = pkgredis.NewClient(cfg.Redis)
			return rerr
		})
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cache = querycache.New(redisClient, cfg.Redis)
			checker.Register("redis", health.PingCheck(redisClient.Ping))
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	svc := server.NewService(eng, cache, m)

	var docStore *postgres.DocumentStore
	if cfg.Postgres.Enabled {
		var pg *postgres.Client
		err := resilience.Retry(ctx, resilience.DefaultRetry, "postgres connect", func() error {
			var perr error
			pg, perr = postgres.New(cfg.Postgres)
			return perr
		})
		if err != nil {
			slog.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		checker.Register("postgres", health.PingCheck(pg.Ping))
		docStore = postgres.NewDocumentStore(pg, cfg.Engine.UIDField)

		docs, err := docStore.LoadAll(ctx)
		if err != nil {
			slog.Error("loading documents failed", "error", err)
			os.Exit(1)
		}
		added := svc.AddDocuments(ctx, docs)
		slog.Info("document collection loaded", "documents", added)
	}

	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents indexed", svc.DocumentCount()),
		}
	})

	if cfg.Kafka.Enabled {
		ingestor := ingest.New(cfg.Kafka, svc, docStore, cfg.Engine.UIDField)
		go func() {
			if err := ingestor.Start(ctx); err != nil {
				slog.Error("ingestor stopped", "error", err)
			}
		}()
		slog.Info("kafka ingest enabled", "topic", cfg.Kafka.DocumentTopic)
	}

	handler := server.NewHandler(svc)
	router := server.NewRouter(handler, m, checker, cfg.Server.RequestTimeout, cfg.Metrics.Enabled)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("searchd stopped")
}

// buildEngine configures an engine from the engine config section. All
// configuration happens before the first document is indexed, so none of
// the setters can fail with the lock error; errors here mean a bad config
// value slipped past validation.
func buildEngine(cfg config.EngineConfig) (*engine.Engine, error) {
	eng := engine.New(cfg.UIDField)
	if err := eng.SetMode(cfg.Weighted); err != nil {
		return nil, err
	}
	if err := eng.SetSanitizer(sanitize.LowerCase{}); err != nil {
		return nil, err
	}

	var tok tokenizer.Tokenizer = tokenizer.Words{}
	if cfg.StopWords {
		tok = tokenizer.NewStopWordFilter(tok)
	}
	if cfg.Stemming {
		tok = tokenizer.NewStemmer(tok)
	}
	if err := eng.SetTokenizer(tok); err != nil {
		return nil, err
	}

	var expander strategy.IndexStrategy
	switch cfg.IndexStrategy {
	case "prefix":
		expander = strategy.Prefix{}
	case "substrings":
		expander = strategy.AllSubstrings{}
	default:
		expander = strategy.ExactWord{}
	}
	if err := eng.SetIndexStrategy(expander); err != nil {
		return nil, err
	}

	if cfg.Pruning == "any-words" {
		eng.SetPruningStrategy(strategy.AnyWordMatches{})
	}

	for _, field := range cfg.SearchableFields {
		eng.AddSearchableField(field)
	}
	return eng, nil
}
