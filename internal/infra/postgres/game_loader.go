package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// GameLoader loads authored game JSONB from Postgres.
type GameLoader struct {
	pool *pgxpool.Pool
}

func NewGameLoader(pool *pgxpool.Pool) *GameLoader {
	return &GameLoader{pool: pool}
}

func (l *GameLoader) LoadGame(ctx context.Context, gameID string) (domain.GameAuthor, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM games WHERE id=$1`, gameID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GameAuthor{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.GameAuthor{}, fmt.Errorf("load game: %w", err)
	}
	var game domain.GameAuthor
	if err := json.Unmarshal(raw, &game); err != nil {
		return domain.GameAuthor{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return game, nil
}
