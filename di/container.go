package di

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"salat-server/api"
	"salat-server/api/prayerapi"
	"salat-server/config"
	"salat-server/dao"
	"salat-server/dao/redis"
	"salat-server/dao/sqldb"
	"salat-server/db"
	"salat-server/server"
	"salat-server/server/handlers"
	services "salat-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	SQLDB                   *sqlx.DB
	RedisClient             *db.GoRedisClient
	PrayerCacheDao          dao.PrayerCacheDAO
	PrayerTimesAPI          prayerapi.PrayerTimesAPI
	PrayerTimeService       *services.PrayerTimeService
	CacheMaintenanceService *services.CacheMaintenanceService
	PrayerHandler           *handlers.PrayerHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	PrayerHttpServer        *server.PrayerHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.AppEnv).Str("cache_backend", cfg.CacheBackend).Msg("initializing container")
	c := &Container{Config: cfg}

	// Initialize cache storage
	cacheDao, err := c.newPrayerCacheDao(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.PrayerCacheDao = cacheDao

	// Initialize prayer times API - mock outside prod
	c.PrayerTimesAPI = newPrayerTimesAPI(cfg)

	// Initialize service layer
	c.PrayerTimeService = services.NewPrayerTimeService(c.PrayerCacheDao, c.PrayerTimesAPI, time.Now)
	c.CacheMaintenanceService = services.NewCacheMaintenanceService(c.PrayerCacheDao, cfg.CacheRetentionDays, time.Now)

	// Initialize HTTP layer
	c.PrayerHandler = handlers.NewPrayerHandler(c.PrayerTimeService)
	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.PrayerHandler, c.MuxRouter)
	c.PrayerHttpServer = server.NewPrayerHttpServer(c.Router, c.MuxRouter, cfg.ServerAddress)

	return c, nil
}

func (c *Container) newPrayerCacheDao(ctx context.Context) (dao.PrayerCacheDAO, error) {
	cfg := c.Config
	switch cfg.CacheBackend {
	case config.CACHE_BACKEND_SQLITE, config.CACHE_BACKEND_POSTGRES:
		driver, dsn := db.DRIVER_SQLITE, cfg.SQLitePath
		if cfg.CacheBackend == config.CACHE_BACKEND_POSTGRES {
			driver, dsn = db.DRIVER_POSTGRES, cfg.DatabaseURL
		}
		conn, err := db.OpenSQL(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		c.SQLDB = conn
		if err := db.RunMigrations(ctx, conn); err != nil {
			return nil, err
		}
		return sqldb.NewSQLPrayerCacheDAO(conn), nil

	case config.CACHE_BACKEND_REDIS:
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisClient, err := db.NewGoRedisClient(ctx, redisInternalClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		return redis.NewRedisPrayerCacheDAO(redisClient), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func newPrayerTimesAPI(cfg *config.Config) prayerapi.PrayerTimesAPI {
	if !cfg.IsProd() {
		log.Info().Msg("using mock prayer times api")
		return prayerapi.NewPrayerApiClientMock(config.GetResourcePath(config.PRAYER_TIMES_RESPONSE_RESOURCE))
	}

	log.Info().Str("base_url", cfg.PrayerApiBaseURL).Msg("using prod prayer times api")
	httpClient := api.NewHTTPClient(cfg.PrayerApiBaseURL, cfg.PrayerApiTimeout)
	client := prayerapi.NewPrayerApiClient(httpClient, cfg.PrayerApiEndpoint, cfg.PrayerApiKey, cfg.PrayerApiMethod, cfg.PrayerApiSchool)

	settings := prayerapi.DefaultBreakerSettings()
	settings.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
	settings.OpenTimeout = cfg.BreakerOpenTimeout
	return prayerapi.NewBreakerPrayerApiClient(client, settings)
}

// Close releases storage connections.
func (c *Container) Close() {
	if c.SQLDB != nil {
		if err := c.SQLDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
}
