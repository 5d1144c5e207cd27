package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kristenlee3553/my-trivia/internal/app"
	"github.com/kristenlee3553/my-trivia/internal/config"
	"github.com/kristenlee3553/my-trivia/internal/domain"
	"github.com/kristenlee3553/my-trivia/internal/infra/memory"
	pgloader "github.com/kristenlee3553/my-trivia/internal/infra/postgres"
	redisinfra "github.com/kristenlee3553/my-trivia/internal/infra/redis"
	transport "github.com/kristenlee3553/my-trivia/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
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
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	lobbyTTL := config.TTLDuration(cfg.Lobby.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.GameLoader = memory.NewStaticGameLoader(sampleGames())
	if pool != nil {
		loader = pgloader.NewGameLoader(pool)
	}

	gameTTL := config.TTLDuration(cfg.Game.TTL, 10*time.Minute)
	var gameRepo app.GameRepository
	if redisClient != nil {
		gameRepo = redisinfra.NewGameRepository(redisClient, loader, gameTTL)
	} else {
		gameRepo = memory.NewGameRepository(loader, gameTTL)
	}

	var lobbies app.LobbyRepository
	if redisClient != nil {
		lobbies = redisinfra.NewLobbyStore(redisClient, lobbyTTL)
	} else {
		lobbies = memory.NewLobbyStore()
	}
	service := app.NewLobbyService(lobbies, gameRepo)
	wsHandler := transport.NewWSHandler(service)

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
		log.Printf("starting trivia service on :%s", finalPort)
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

// sampleGames provides demo content so the server runs without Postgres.
func sampleGames() map[string]domain.GameAuthor {
	return map[string]domain.GameAuthor{
		"game-1": {
			Name:             "Warm-up trivia",
			DefaultTimeLimit: 30,
			Questions: []domain.QuestionAuthor{
				{
					Display: domain.Display{Type: domain.DisplayText, PromptText: "What is 2 + 2?"},
					Answer: &domain.SingleSpec{
						Options: []string{"3", "4", "5"},
						Correct: "4",
					},
				},
				{
					Display: domain.Display{Type: domain.DisplayText, PromptText: "Which of these are primes?"},
					Answer: &domain.MultiSpec{
						Options: []string{"2", "3", "4", "9"},
						Correct: []string{"2", "3"},
					},
					DoublePoints: true,
				},
				{
					Display: domain.Display{Type: domain.DisplayText, PromptText: "Order these from smallest to largest."},
					Answer: &domain.RankingSpec{
						Options: []string{"ant", "cat", "horse"},
						Correct: []string{"ant", "cat", "horse"},
					},
				},
				{
					Display:   domain.Display{Type: domain.DisplayText, PromptText: "Draw a smiley face."},
					Answer:    &domain.DrawSpec{},
					TimeLimit: 60,
				},
			},
		},
	}
}
