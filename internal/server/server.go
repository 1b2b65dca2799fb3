// Package server boots the infrastructure named by config and runs the HTTP
// and gRPC listeners until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories/memory"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/internal/kernel"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/database"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
	"github.com/shashiranjanraj/kashvi-shop/pkg/grpc"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-shop/pkg/queue"
	"github.com/shashiranjanraj/kashvi-shop/pkg/schedule"
	"github.com/shashiranjanraj/kashvi-shop/pkg/storage"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// App is a booted application. Close releases everything Boot opened.
type App struct {
	Kernel *kernel.HTTPKernel
	Deps   kernel.Deps

	conn     *database.Conn
	rdb      *redis.Client
	redisQ   *queue.RedisDriver
	mongoLog *logger.MongoHandler
}

// Boot loads config and connects the store, cache, queue and storage.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &App{}
	ok := false
	defer func() {
		if !ok {
			a.Close(context.Background())
		}
	}()

	store, err := a.bootStore(ctx)
	if err != nil {
		return nil, err
	}

	if config.CacheDriver() == "redis" || config.QueueDriver() == "redis" {
		a.rdb, err = cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, err
		}
	}

	disks, err := storage.FromConfig(ctx)
	if err != nil {
		return nil, err
	}

	perSecond, burst := config.RateLimit()
	authCfg := config.Auth()
	a.Deps = kernel.Deps{
		Store:               store,
		Cache:               a.bootCache(),
		Queue:               a.bootQueue(),
		Bus:                 event.NewBus(),
		Issuer:              auth.NewIssuer(authCfg),
		Disk:                disks.Default(),
		Hub:                 ws.NewHub(),
		Limiter:             middleware.NewLimiter(perSecond, burst),
		BcryptCost:          authCfg.BcryptCost,
		StrictOrderProducts: config.StrictOrderProducts(),
	}
	if a.conn != nil {
		a.Deps.Ping = a.conn.Ping
	}

	a.Kernel, err = kernel.NewHTTPKernel(a.Deps)
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

func (a *App) bootStore(ctx context.Context) (*repositories.Store, error) {
	if config.StoreDriver() == "memory" {
		logger.Warn("store: using in-memory repositories; data is lost on exit")
		return memory.New(), nil
	}

	conn, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return nil, err
	}
	a.conn = conn
	logger.Info("store: connected", "driver", "mongo", "database", config.MongoDatabase())

	if config.LogToMongo() {
		a.mongoLog = logger.AttachMongo(ctx, conn.Collection("app_logs"))
	}
	return repositories.NewMongo(conn.DB), nil
}

func (a *App) bootCache() *cache.Cache {
	if config.CacheDriver() == "redis" {
		return cache.New(cache.NewRedisStore(a.rdb, "kashvi-shop:"))
	}
	return cache.New(cache.NewMemoryStore())
}

func (a *App) bootQueue() *queue.Manager {
	var opts []queue.Option
	if a.conn != nil {
		opts = append(opts, queue.WithFailedStore(queue.NewMongoFailedStore(a.conn.Collection("failed_jobs"))))
	}
	if config.QueueDriver() == "redis" {
		a.redisQ = queue.NewRedisDriver(a.rdb)
		return queue.New(a.redisQ, opts...)
	}
	return queue.New(queue.NewMemoryDriver(), opts...)
}

// Close tears down connections in reverse boot order.
func (a *App) Close(ctx context.Context) {
	if a.redisQ != nil {
		a.redisQ.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logger.Warn("redis: close", "error", err)
		}
	}
	if a.mongoLog != nil {
		a.mongoLog.Close()
	}
	if err := a.conn.Close(ctx); err != nil {
		logger.Warn("store: disconnect", "error", err)
	}
}

// Start boots the application and serves until ctx is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return a.Serve(ctx)
}

// Serve runs HTTP, gRPC, the websocket hub, the limiter sweep and, unless
// QUEUE_WORKERS is 0, in-process queue workers.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.Deps.Hub.Run(ctx)
	go a.scheduler().Start(ctx)

	workersDone := make(chan struct{})
	if n := config.QueueWorkers(); n > 0 {
		go func() {
			defer close(workersDone)
			a.Deps.Queue.Run(ctx, n)
		}()
	} else {
		close(workersDone)
	}

	var ping grpc.Pinger = grpc.PingFunc(func(context.Context) error { return nil })
	if a.conn != nil {
		ping = a.conn
	}
	grpcSrv := grpc.NewServer(ping)
	if err := grpcSrv.Start(":" + config.GRPCPort()); err != nil {
		return err
	}
	defer grpcSrv.Stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http: server starting", "addr", srv.Addr, "env", config.AppEnv())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		cancel()
		<-workersDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("http: shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	err := srv.Shutdown(shutdownCtx)
	<-workersDone
	if err != nil {
		return fmt.Errorf("http: shutdown: %w", err)
	}
	logger.Info("http: server stopped")
	return nil
}

// scheduler registers the periodic maintenance tasks.
func (a *App) scheduler() *schedule.Scheduler {
	s := schedule.New()
	if l := a.Deps.Limiter; l != nil {
		s.Every(time.Minute).Name("limiter.sweep").WithoutOverlapping().Run(func(context.Context) {
			l.Sweep()
		})
	}
	return s
}
