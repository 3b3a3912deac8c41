package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/catalog"
	"archetype-quiz-service/internal/config"
	"archetype-quiz-service/internal/infra/memory"
	pgloader "archetype-quiz-service/internal/infra/postgres"
	rediscache "archetype-quiz-service/internal/infra/redis"
	transport "archetype-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := definitionLoader(cfg, pool)
	if err != nil {
		return err
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var definitions app.DefinitionRepository
	if redisClient != nil {
		definitions = rediscache.NewDefinitionRepository(redisClient, loader, quizTTL)
	} else {
		definitions = memory.NewDefinitionRepository(loader, quizTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = rediscache.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	defaultQuiz := cfg.Quiz.DefaultQuiz
	service := app.NewQuizService(store, definitions)
	wsHandler := transport.NewWSHandler(service, defaultQuiz)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s (default quiz %s)", finalPort, defaultQuiz)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// definitionLoader picks the definition source: Postgres when configured,
// then a definition directory, then the built-in catalog.
func definitionLoader(cfg config.Config, pool *pgxpool.Pool) (memory.DefinitionLoader, error) {
	if pool != nil {
		log.Printf("loading quiz definitions from postgres")
		return pgloader.NewDefinitionLoader(pool), nil
	}
	if cfg.Quiz.DefinitionDir != "" {
		log.Printf("loading quiz definitions from %s", cfg.Quiz.DefinitionDir)
		return memory.NewFileLoader(cfg.Quiz.DefinitionDir), nil
	}
	builtIn, err := catalog.Definitions()
	if err != nil {
		return nil, err
	}
	return memory.NewStaticLoader(builtIn), nil
}
