package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"time"

	"boothStore/config"
	"boothStore/handlers"
	"boothStore/repository"
	"boothStore/services"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}
	logger := newLogger(cfg.LogMode, cfg.LogFile)
	defer logger.Sync()

	ctx := context.Background()
	closers := map[string]gfshutdown.Operation{}

	var rdb *redis.Client
	if cfg.RedisNeeded() {
		rdb = initRedis(ctx, cfg)
		closers["redis"] = func(context.Context) error { return rdb.Close() }
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr()))
	}

	src := initCatalogSource(ctx, cfg, rdb, logger, closers)
	catalog := services.NewCatalogService(src, cfg.Catalog.Timeout, logger)

	cartRepo := initCartRepository(ctx, cfg, rdb, logger, closers)
	carts := services.NewCartService(catalog, cartRepo, cfg.Cart.Namespace, logger)
	admin := services.NewAdminService(logger)
	orders := services.NewOrderService(carts, admin, logger)
	briefs := services.NewBriefService(logger)

	ha := handlers.NewHandler(handlers.HandlerParams{
		CatService: catalog,
		CrtService: carts,
		OrdService: orders,
		AdmService: admin,
		BrfService: briefs,
		CartTTL:    cfg.Cart.TTL,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              cfg.HttpAddr,
		Handler:           ha.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting server...", zap.String("addr", cfg.HttpAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	closers["http"] = func(ctx context.Context) error {
		logger.Info("graceful shutdown initiated...")
		return srv.Shutdown(ctx)
	}
	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, closers)
	exitCode := <-wait
	logger.Info("exited", zap.Int("code", exitCode))
	logger.Sync()
	os.Exit(exitCode)
}

func newLogger(mode, file string) *zap.Logger {
	var zapConfig zap.Config
	if mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if file == "" {
		logger, err := zapConfig.Build()
		if err != nil {
			panic("logger: " + err.Error())
		}
		return logger
	}

	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller())
}

func initRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cncl := context.WithTimeout(ctx, 5*time.Second)
	defer cncl()
	if status := rdb.Ping(ctx); status.Err() != nil {
		panic("redis is not working: " + status.Err().Error())
	}
	return rdb
}

// initCatalogSource returns nil when the catalog is served from fixtures only.
// A remote source that cannot be set up degrades to fixtures as well.
func initCatalogSource(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *zap.Logger, closers map[string]gfshutdown.Operation) repository.ProductSource {
	var src repository.ProductSource
	switch cfg.Catalog.Source {
	case config.CatalogCMS:
		cms, err := repository.NewCMSSource(repository.CMSConfig{
			ProjectId:  cfg.CMS.ProjectId,
			Dataset:    cfg.CMS.Dataset,
			ApiVersion: cfg.CMS.ApiVersion,
			UseCdn:     cfg.CMS.UseCdn,
			BaseUrl:    cfg.CMS.BaseUrl,
		}, &http.Client{Timeout: cfg.Catalog.Timeout}, logger)
		if err != nil {
			logger.Warn("cms source disabled, serving fixtures", zap.Error(err))
			return nil
		}
		src = cms
	case config.CatalogPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			logger.Warn("postgres source disabled, serving fixtures", zap.Error(err))
			return nil
		}
		pg, err := repository.NewPostgresSource(db, logger)
		if err != nil {
			db.Close()
			logger.Warn("postgres source disabled, serving fixtures", zap.Error(err))
			return nil
		}
		if err = pg.Migrate(ctx); err != nil {
			logger.Warn("postgres migrate", zap.Error(err))
		}
		closers["postgres"] = func(context.Context) error { return db.Close() }
		logger.Info("db connected")
		src = pg
	default:
		return nil
	}

	if cfg.Cache.Enabled && rdb != nil {
		cached, err := repository.NewCachedSource(src, rdb, cfg.Cache.Prefix, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Warn("catalog cache disabled", zap.Error(err))
			return src
		}
		return cached
	}
	return src
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func initCartRepository(ctx context.Context, cfg *config.Config, rdb *redis.Client, logger *zap.Logger, closers map[string]gfshutdown.Operation) repository.CartRepository {
	switch cfg.Cart.Storage {
	case config.CartRedis:
		repo, err := repository.NewCartRepository(ctx, rdb, cfg.Cart.TTL, logger)
		if err != nil {
			panic("cart repository: " + err.Error())
		}
		return repo

	case config.CartBolt:
		conn, err := repository.OpenBolt(cfg.Cart.BoltPath)
		if err != nil {
			panic("bolt: " + err.Error())
		}
		repo, err := repository.NewBoltCartRepository(conn, cfg.Cart.TTL, logger)
		if err != nil {
			panic("cart repository: " + err.Error())
		}
		schedulePurge(cfg.Cart.PurgeSchedule, repo, logger, closers)
		closers["bolt"] = func(context.Context) error { return conn.Close() }
		logger.Info("bolt cart storage opened", zap.String("path", cfg.Cart.BoltPath))
		return repo

	default:
		conn, err := repository.OpenSqlite(cfg.Cart.SqlitePath)
		if err != nil {
			panic("sqlite: " + err.Error())
		}
		repo, err := repository.NewSqliteCartRepository(ctx, conn, cfg.Cart.TTL, logger)
		if err != nil {
			panic("cart repository: " + err.Error())
		}
		schedulePurge(cfg.Cart.PurgeSchedule, repo, logger, closers)
		closers["sqlite"] = func(context.Context) error { return conn.Close() }
		logger.Info("sqlite cart storage opened", zap.String("path", cfg.Cart.SqlitePath))
		return repo
	}
}

// schedulePurge drops expired carts on the configured schedule.
func schedulePurge(spec string, p repository.Purger, logger *zap.Logger, closers map[string]gfshutdown.Operation) {
	sched := cron.New(cron.WithParser(cronParser))
	_, err := sched.AddFunc(spec, func() {
		n, err := p.Purge(context.Background())
		if err != nil {
			logger.Warn("cart purge", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("expired carts purged", zap.Int64("count", n))
		}
	})
	if err != nil {
		logger.Error("cart purge disabled", zap.String("schedule", spec), zap.Error(err))
		return
	}
	sched.Start()
	closers["purge"] = func(ctx context.Context) error {
		select {
		case <-sched.Stop().Done():
		case <-ctx.Done():
		}
		return nil
	}
}
