package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/kristenlee3553/my-trivia/internal/config"
	redisinfra "github.com/kristenlee3553/my-trivia/internal/infra/redis"
)

// NewSweepCmd deletes lobbies that have been idle past the staleness
// horizon. Meant to run from cron alongside the server.
func NewSweepCmd(configPath *string) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete lobbies idle past the staleness horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), *configPath, olderThan)
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "staleness horizon (defaults to lobby.staleAfter, then 24h)")
	return cmd
}

func runSweep(ctx context.Context, configPath string, olderThan time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis addr not configured")
	}
	if olderThan == 0 {
		olderThan = config.TTLDuration(cfg.Lobby.StaleAfter, 24*time.Hour)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	store := redisinfra.NewLobbyStore(client, config.TTLDuration(cfg.Lobby.TTL, 24*time.Hour))
	removed, err := store.SweepStale(ctx, olderThan)
	if err != nil {
		return err
	}
	log.Printf("swept %d stale lobbies (idle > %s)", removed, olderThan)
	return nil
}
