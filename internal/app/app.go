package app

import (
	"context"
	"fmt"
	"time"

	"justdo/internal/cache"
	"justdo/internal/config"
	"justdo/internal/metrics"
	"justdo/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	db      *pgxpool.Pool
	gormDB  *gorm.DB
	redis   *redis.Client
	store   repo.TodoRepo
	router  *gin.Engine
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log, metrics: metrics.New()}

	if cfg.Store.Driver != config.StoreDriverMemory {
		if err := runMigrations(cfg.PG.DSN, cfg.PG.MigrationsDir); err != nil {
			return nil, err
		}
		log.Info("migrations applied", zap.String("dir", cfg.PG.MigrationsDir))
	}

	if err := a.openStore(); err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.redis = rdb
	} else {
		log.Info("redis not configured, query cache disabled")
	}

	router, err := newRouter(a)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func (a *App) openStore() error {
	switch a.cfg.Store.Driver {
	case config.StoreDriverMemory:
		a.store = repo.NewMemoryRepo()
	case config.StoreDriverGorm:
		db, err := newGorm(a.cfg.PG)
		if err != nil {
			return err
		}
		a.gormDB = db
		a.store = repo.NewGormTodoRepo(db)
	default:
		db, err := newPostgres(a.cfg.PG)
		if err != nil {
			return err
		}
		a.db = db
		a.store = repo.NewPGTodoRepo(db)
	}
	a.log.Info("store ready", zap.String("driver", a.cfg.Store.Driver))
	return nil
}

// queryCache is nil when redis is not configured.
func (a *App) queryCache() *cache.TodoCache {
	if a.redis == nil {
		return nil
	}
	return cache.NewTodoCache(a.redis, a.cfg.Redis.DefaultTTL.Duration())
}

func newPostgres(pg config.PGConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = pg.MaxConns
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newGorm(pg config.PGConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(pg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm db: %w", err)
	}
	sqlDB.SetMaxOpenConns(int(pg.MaxConns))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm ping: %w", err)
	}
	return db, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(a *App) (*gin.Engine, error) {
	if a.cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestID(), recovery(a.log), requestLogger(a.log), observe(a.metrics))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{"Content-Length", "Content-Type", headerRequestID},
		MaxAge:        12 * time.Hour,
	}))

	if err := Setup(r, a.cfg, a.store, a.queryCache(), a.metrics, a.log); err != nil {
		return nil, err
	}
	return r, nil
}
