package main

import (
	"PinguinGuard/config"
	"PinguinGuard/controllers"
	"PinguinGuard/events"
	"PinguinGuard/interfaces"
	"PinguinGuard/logger"
	"PinguinGuard/metrics"
	"PinguinGuard/middlewares"
	"PinguinGuard/repositories"
	"PinguinGuard/repositories/impl"
	"PinguinGuard/repositories/memory"
	"PinguinGuard/routes"
	"PinguinGuard/services"
	"PinguinGuard/websocket"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type repositorySet struct {
	children repositories.ChildRepository
	parents  repositories.ParentRepository
	policies repositories.PolicyRepository
	usage    repositories.UsageRepository
	requests repositories.UnblockRequestRepository
}

func openRepositories(cfg *config.Config) (repositorySet, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return repositorySet{
			children: memory.NewChildRepository(),
			parents:  memory.NewParentRepository(),
			policies: memory.NewPolicyRepository(),
			usage:    memory.NewUsageRepository(),
			requests: memory.NewUnblockRequestRepository(),
		}, nil
	}

	db, err := config.InitDatabase(cfg.DB)
	if err != nil {
		return repositorySet{}, err
	}
	return repositorySet{
		children: impl.NewChildRepository(db),
		parents:  impl.NewParentRepository(db),
		policies: impl.NewPolicyRepository(db),
		usage:    impl.NewUsageRepository(db),
		requests: impl.NewUnblockRequestRepository(db),
	}, nil
}

func newPublisher(cfg *config.Config) interfaces.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, audit events are dropped")
		return events.NoopPublisher{}
	}
	logger.Info("publishing audit events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func newNotifier(ctx context.Context, cfg *config.Config, repos repositorySet) interfaces.NotificationService {
	if cfg.FirebaseCredentialsPath == "" {
		logger.Info("FIREBASE_CREDENTIALS_PATH not set, push notifications are disabled")
		return services.NoopNotifier{}
	}
	client, err := services.NewMessagingClient(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logger.Error("push notifications are disabled", "error", err)
		return services.NoopNotifier{}
	}
	return services.NewNotificationService(client, repos.parents, repos.children)
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel})

	loc, _ := cfg.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(cfg)
	if err != nil {
		logger.Fatal("failed to open storage", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	restrictionMetrics := metrics.NewRestrictionMetrics(registry)

	publisher := newPublisher(cfg)
	notifier := newNotifier(ctx, cfg, repos)

	// Initialize services
	storeOpts := []services.StoreOption{
		services.WithStoreClock(clock),
		services.WithStoreMetrics(restrictionMetrics),
		services.WithLocation(loc),
	}
	policyStore := services.NewPolicyStore(repos.policies, storeOpts...)
	usageLedger := services.NewUsageLedger(repos.usage, storeOpts...)
	requestService := services.NewUnblockRequestService(repos.requests, policyStore, usageLedger,
		services.WithNotifier(notifier),
		services.WithEventPublisher(publisher),
		services.WithRequestMetrics(restrictionMetrics),
		services.WithRequestClock(clock),
	)
	monitor := services.NewRestrictionMonitor(policyStore, usageLedger, requestService,
		services.WithInterval(cfg.PollInterval),
		services.WithPolicyChanges(policyStore),
		services.WithMonitorClock(clock),
		services.WithMonitorMetrics(restrictionMetrics),
		services.WithVerdictEvents(publisher),
	)

	// Set services in controllers
	middlewares.SetJWTSecret(cfg.JWTSecret)
	controllers.SetClock(clock)
	controllers.SetChildDirectory(repos.children)
	controllers.SetFamilyService(services.NewFamilyService(repos.parents, repos.children))
	if tester, ok := notifier.(controllers.PushTester); ok {
		controllers.SetPushTester(tester)
	}
	controllers.SetPolicyService(policyStore)
	controllers.SetUsageService(usageLedger)
	controllers.SetRestrictionSources(policyStore, usageLedger)
	controllers.SetUnblockRequestService(requestService)
	controllers.SetWebSocketHub(websocket.NewHub(monitor))

	r := gin.Default()
	routes.RegisterRoutes(r, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("listening", "port", cfg.Port, "storage", cfg.Storage, "poll_interval", cfg.PollInterval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	monitor.Close()
	if err := publisher.Close(); err != nil {
		logger.Error("failed to close event publisher", "error", err)
	}
}
