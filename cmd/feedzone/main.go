package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/hashicorp/logutils"
	"github.com/hellofresh/health-go/v5"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/mattn/go-sqlite3"
	"github.com/piraces/feedzone/internal/handlers"
	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/adapters/pubsub"
	"github.com/piraces/feedzone/pkg/app"
	"github.com/piraces/feedzone/pkg/custom_cache"
	"github.com/piraces/feedzone/pkg/domain"
	"github.com/piraces/feedzone/pkg/feed"
	"github.com/piraces/feedzone/pkg/ports"
	portspubsub "github.com/piraces/feedzone/pkg/ports/pubsub"
	"github.com/piraces/feedzone/scripts"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Command line flags.
var (
	dsn = flag.String("dsn", "", "datasource name")
)

type Service struct {
	ZoneName          string        `envconfig:"ZONE_NAME" default:"Account"`
	ZoneBackend       string        `envconfig:"ZONE_BACKEND" default:"sqlite"`
	DatabaseDirectory string        `envconfig:"DB_DIR" default:"db/feedzone.sqlite"`
	RedisURL          string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	CacheBackend      string        `envconfig:"CACHE_BACKEND" default:"bigcache"`
	CacheTTL          time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	ListenAddr        string        `envconfig:"LISTEN_ADDR" default:":8080"`
	SweepInterval     time.Duration `envconfig:"SWEEP_INTERVAL" default:"30m"`
	MaxWorkers        int           `envconfig:"MAX_WORKERS" default:"10"`
	DiscoveryTimeout  time.Duration `envconfig:"DISCOVERY_TIMEOUT" default:"5s"`
	Version           string        `envconfig:"VERSION" default:"unknown"`

	db          *sql.DB
	redisClient *redis.Client
	zone        pingableZone
	healthCheck *health.Health
}

func CreateHealthCheck(s *Service) {
	h, err := health.New(health.WithComponent(health.Component{
		Name:    "feedzone",
		Version: s.Version,
	}), health.WithChecks(health.Config{
		Name:      "self",
		Timeout:   time.Second * 5,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			return nil
		},
	}, health.Config{
		Name:      "zone",
		Timeout:   time.Second * 5,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			return s.zone.Ping(ctx)
		},
	},
	))
	if err != nil {
		log.Fatalf("[FATAL] cannot create health check: %v", err)
	}
	s.healthCheck = h
}

func ConfigureLogging() {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"},
		MinLevel: logutils.LogLevel(os.Getenv("LOG_LEVEL")),
		Writer:   os.Stderr,
	}
	log.SetOutput(filter)
}

func (s *Service) Init() error {
	flag.Parse()
	if err := envconfig.Process("", s); err != nil {
		return errors.Wrap(err, "couldn't process envconfig")
	}
	log.Printf("[INFO] Running VERSION %s:\n - DSN=%s\n - DB_DIR=%s\n - ZONE_BACKEND=%s\n - CACHE_BACKEND=%s\n\n",
		s.Version, *dsn, s.DatabaseDirectory, s.ZoneBackend, s.CacheBackend)

	zoneName, err := domain.NewZoneName(s.ZoneName)
	if err != nil {
		return errors.Wrap(err, "invalid ZONE_NAME")
	}

	if s.ZoneBackend == zoneBackendRedis || s.CacheBackend == custom_cache.BackendRedis {
		s.redisClient, err = adapters.NewRedisClient(s.RedisURL)
		if err != nil {
			return errors.Wrap(err, "invalid REDIS_URL")
		}
	}

	s.zone, err = NewZone(s, zoneName)
	if err != nil {
		return errors.Wrap(err, "error creating the record zone")
	}

	return nil
}

func main() {
	ConfigureLogging()

	service := &Service{}
	if err := service.Init(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	CreateHealthCheck(service)
	defer service.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshotCache, err := custom_cache.New(custom_cache.Config{
		Backend:    service.CacheBackend,
		Expiration: service.CacheTTL,
	}, service.redisClient)
	if err != nil {
		log.Fatalf("[FATAL] cannot create cache: %v", err)
	}

	zoneChangedPubSub := pubsub.NewZoneChangedPubSub()
	recordZone := adapters.NewPublishingZone(service.zone, zoneChangedPubSub)

	application := app.New(
		app.Config{MaxWorkers: service.MaxWorkers},
		recordZone,
		adapters.NewWebFeedListCache(snapshotCache),
	)

	go portspubsub.NewZoneChangedSubscriber(zoneChangedPubSub, application.OnZoneChanged).Run(ctx)
	if service.SweepInterval > 0 {
		go ports.NewSweepOrphanedFeedsTimer(application.SweepOrphanedFeeds, service.SweepInterval).Run(ctx)
	}

	router := handlers.NewRouter(application, feed.NewDiscoverer(service.DiscoveryTimeout))
	router.Path("/healthz").HandlerFunc(service.healthCheck.HandlerFunc)
	router.Path("/metrics").Handler(promhttp.Handler())

	server := &http.Server{
		Addr:              service.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] failed to shut down the server: %v", err)
		}
	}()

	log.Printf("[INFO] listening on %s", service.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[FATAL] server terminated: %v", err)
	}
}

func (s *Service) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("[ERROR] failed to close the database connection: %v", err)
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Printf("[ERROR] failed to close the redis connection: %v", err)
		}
	}
}

func InitDatabase(s *Service) *sql.DB {
	finalConnection := dsn
	if *dsn == "" {
		log.Print("[INFO] dsn required is not present... defaulting to DB_DIR")
		finalConnection = &s.DatabaseDirectory
	}

	// Create empty dir if not exists
	dbPath := path.Dir(*finalConnection)
	err := os.MkdirAll(dbPath, 0760)
	if err != nil {
		log.Printf("[INFO] unable to initialize DB_DIR at: %s. Error: %v", dbPath, err)
	}

	sqlDb, err := sql.Open("sqlite3", *finalConnection)
	if err != nil {
		log.Fatalf("[FATAL] open db: %v", err)
	}
	sqlDb.SetMaxOpenConns(1)

	log.Printf("[INFO] database opened at %s", *finalConnection)

	// Run migrations
	if _, err := sqlDb.Exec(scripts.SchemaSQL); err != nil {
		log.Fatalf("[FATAL] cannot migrate schema: %v", err)
	}

	return sqlDb
}
