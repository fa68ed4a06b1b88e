package db

import (
	"context"
	"fmt"

	"kitchen-menu/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool backs the intent journal. It stays nil unless Init is called.
var Pool *pgxpool.Pool

func Init(ctx context.Context, cfg config.DBConfig) error {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
	var err error
	Pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		return err
	}
	return Pool.Ping(ctx)
}

func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
