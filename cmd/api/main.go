package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/wellplan/internal/api"
	"example.com/wellplan/internal/auth"
	"example.com/wellplan/internal/config"
	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/genai"
	"example.com/wellplan/internal/generator"
	"example.com/wellplan/internal/nutrition"
	"example.com/wellplan/internal/outbox"
	"example.com/wellplan/internal/persistence/memory"
	"example.com/wellplan/internal/persistence/postgres"
	"example.com/wellplan/internal/persistence/sqlite"
	"example.com/wellplan/internal/planning"
	httptransport "example.com/wellplan/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store      domain.Store
		dispatcher *outbox.Dispatcher
	)
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		store = postgres.NewRepository(pool)

		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
		dispatcher = outbox.NewDispatcher(pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
		go dispatcher.Start(ctx)
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer db.Close()
		store = db
	case config.StoreMemory:
		store = memory.NewStore()
	default:
		log.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// A nil completer makes every plan take the fallback path.
	var completer genai.Completer
	if cfg.GenerationEnabled() {
		completer = genai.NewClient(genai.Config{
			BaseURL: cfg.GenAIBaseURL,
			APIKey:  cfg.GenAIAPIKey,
			Model:   cfg.GenAIModel,
			Timeout: cfg.GenAITimeout,
		})
	} else {
		log.Println("GENAI_API_KEY not set, plans will use the deterministic fallback")
	}

	gen := generator.New(completer, generator.Config{
		Temperature: cfg.GenAITemperature,
		MaxTokens:   cfg.GenAIMaxTokens,
	})

	var opts []planning.Option
	if cfg.RefineTargets && completer != nil {
		opts = append(opts, planning.WithRefiner(nutrition.NewRefiner(completer, nil)))
	}
	service := planning.NewService(store, gen, opts...)

	router := mux.NewRouter()
	api.NewHandler(service).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	server := httptransport.NewServer(
		httptransport.DefaultServerConfig(cfg.HTTPAddress, cfg.GenAITimeout),
		httptransport.CORS(cfg.CORSOrigins, httptransport.Logging(nil, authMiddleware.Wrap(router))),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("wellplan api listening on %s (store=%s)", cfg.HTTPAddress, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}
}
