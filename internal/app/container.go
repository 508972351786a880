package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"connect/internal/config"
	"connect/internal/database"
	"connect/internal/database/migration"
	dbpostgres "connect/internal/database/postgres"
	"connect/internal/infrastructure/cache"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: "migrations"}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	cacheLogger := log.New(os.Stderr, "", log.LstdFlags)
	redisCache := cache.NewRedis(cfg.Redis, cacheLogger)

	return &Container{Config: cfg, DB: db, Cache: redisCache}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
