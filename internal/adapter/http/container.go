package http

import (
	"context"
	"log/slog"
	"path/filepath"

	"todoapp/internal/adapter/cache/memory"
	rediscache "todoapp/internal/adapter/cache/redis"
	"todoapp/internal/adapter/database/postgres"
	pgrepository "todoapp/internal/adapter/database/postgres/repository"
	"todoapp/internal/adapter/database/sqlite"
	sqliterepository "todoapp/internal/adapter/database/sqlite/repository"
	"todoapp/internal/adapter/http/handler"
	"todoapp/internal/core/port"
	"todoapp/internal/core/service"
	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
	"todoapp/pkg/db/cursor"
	"todoapp/pkg/logger"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService
	TodoHandler *handler.TodoHandler
	Cache       port.CacheRepository

	close func()
}

// NewContainer wires storage, cache, service and handler from config.
func NewContainer(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (*Container, error) {
	cursors := cursor.New(cfg.CursorSecret)
	probe := telemetry.NewOTELProbe(slog.Default())

	var (
		todoRepo port.TodoRepository
		closeDB  func()
	)

	switch cfg.DatabaseDriver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL, filepath.Join(cfg.MigrationsPath, "postgres"))
		if err != nil {
			return nil, err
		}

		todoRepo = pgrepository.NewTodoRepository(db, cursors, probe)
		closeDB = db.Close
	default:
		db, err := sqlite.NewDB(cfg.DatabasePath, filepath.Join(cfg.MigrationsPath, "sqlite"))
		if err != nil {
			return nil, err
		}

		todoRepo = sqliterepository.NewTodoRepository(db, cursors, probe)
		closeDB = func() { db.Close() }
	}

	var listCache port.CacheRepository

	if cfg.CacheEnabled {
		switch cfg.CacheBackend {
		case "redis":
			redisRepo, err := rediscache.NewRedisRepository(ctx, cfg.RedisAddr)
			if err != nil {
				slog.Warn("redis unavailable, falling back to memory cache", "error", err)
				listCache = memory.NewMemoryRepository()
			} else {
				listCache = redisRepo
			}
		default:
			listCache = memory.NewMemoryRepository()
		}
	}

	todoService := service.NewTodoService(todoRepo, listCache, cursors, probe, cfg.CacheTTL)
	todoHandler := handler.NewTodoHandler(todoService, log)

	return &Container{
		TodoRepo:    todoRepo,
		TodoService: todoService,
		TodoHandler: todoHandler,
		Cache:       listCache,
		close: func() {
			if listCache != nil {
				listCache.Close()
			}
			closeDB()
		},
	}, nil
}

func (c *Container) Close() {
	if c.close != nil {
		c.close()
	}
}
