package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/ZSuraj/abcd-sub000/internal/server"
	"github.com/ZSuraj/abcd-sub000/modules/auth"
	authseed "github.com/ZSuraj/abcd-sub000/modules/auth/seed"
	"github.com/ZSuraj/abcd-sub000/modules/relationship"
	domain "github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/infrastructure/persistence"
	relseed "github.com/ZSuraj/abcd-sub000/modules/relationship/seed"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/authz"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/configuration"
	"github.com/ZSuraj/abcd-sub000/pkg/eventbus"
	"github.com/ZSuraj/abcd-sub000/pkg/logging"
	"github.com/ZSuraj/abcd-sub000/pkg/metrics"
	"github.com/ZSuraj/abcd-sub000/pkg/repo"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := map[string]metrics.Pinger{}

	var (
		pool    repo.Pool
		relRepo domain.Repository
		relTx   composables.Transactor
	)
	if conf.Storage == configuration.StoragePostgres {
		pgPool := connect(ctx, conf, logger)
		defer pgPool.Close()
		pool = pgPool
		relRepo = persistence.NewPgRelationshipRepository()
		relTx = composables.PoolTransactor{Pool: pgPool}
		health["database"] = pgPool
	} else {
		mem := persistence.NewMemoryRepository()
		relRepo, relTx = mem, mem
		logger.Warn("using in-memory storage; data is lost on restart")
	}

	tokens := tokenStore(conf, logger, health)

	authorizer, err := authz.NewService(authz.ConfigFrom(conf))
	if err != nil {
		log.Fatalf("failed to initialize authz: %v", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	users := auth.UserRepository(app)
	if err := application.LoadModules(app,
		auth.NewModule(&auth.ModuleOptions{
			Users:      users,
			Tokens:     tokens,
			SessionTTL: conf.Session.Duration,
		}),
		relationship.NewModule(&relationship.ModuleOptions{
			Repository:       relRepo,
			Transactor:       relTx,
			Authorizer:       authorizer,
			CacheEnabled:     conf.CacheEnabled,
			ActionLogEnabled: conf.ActionLogEnabled,
		}),
	); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if conf.SeedDemoData {
		seedCtx := ctx
		if pool != nil {
			seedCtx = composables.WithPool(ctx, pool)
		}
		seeder := application.NewSeeder()
		seeder.Register(
			relseed.DemoSeedFunc(relRepo, relTx),
			authseed.UserSeedFunc(users, conf.SeedPassword, relseed.DemoManagerMona),
		)
		if err := seeder.Seed(seedCtx, app); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	app.RegisterControllers(metrics.NewHealthController(health))
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
		Tokens:        tokens,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

func connect(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) *pgxpool.Pool {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		panic(err)
	}
	if conf.MigrationsEnabled {
		if err := persistence.Migrate(ctx, pool, logger); err != nil {
			panic(err)
		}
	}
	return pool
}

func tokenStore(conf *configuration.Configuration, logger *logrus.Logger, health map[string]metrics.Pinger) session.TokenStore {
	if conf.Session.Store != "redis" {
		return session.NewMemoryTokenStore()
	}
	client, err := session.NewRedisClient(conf.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	health["redis"] = metrics.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	logger.Info("sessions are stored in redis")
	return session.NewRedisTokenStore(client)
}
