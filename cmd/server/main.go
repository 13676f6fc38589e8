package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/booster-draft/internal/config"
	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/server"
	"github.com/palemoky/booster-draft/internal/server/storage"
)

const redisPingTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	envPath := flag.String("env", ".env", ".env 文件路径")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("加载 .env 失败: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.L().Fatalw("服务器异常退出", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	srv, err := server.NewServer(cfg, card.NewFileCatalog(cfg.Catalog.Path), store)
	if err != nil {
		return fmt.Errorf("创建服务器失败: %w", err)
	}
	httpServer := srv.HTTPServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Infow("🚀 服务器启动", "addr", httpServer.Addr, "catalog", cfg.Catalog.Path, "redis", store != nil)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		srv.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Infow("正在关闭服务器...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		srv.GracefulShutdown(shutdownCtx)
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore 启用 Redis 时连接并检查可用性
func openStore(ctx context.Context, cfg *config.Config) (*storage.RedisStore, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	store := storage.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}
	return store, nil
}
