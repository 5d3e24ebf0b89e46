// Package container provides dependency injection for all singleton services
package container

import (
	"log"
	"log/slog"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/application/services"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/manager"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/messaging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/performance"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/upstream"
	"github.com/FleetPulse/fleetpulse-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Analytics Services (stateless singletons)
	AnalyticsService        *services.AnalyticsService
	UserAnalyticsService    *services.UserAnalyticsService
	AccountAnalyticsService *services.AccountAnalyticsService
	SessionService          *services.SessionService
	FeedbackService         *services.FeedbackService
	WarmingService          *services.WarmingService
	AuthService             *services.AuthService

	// Infrastructure Dependencies
	UpstreamClient    *upstream.Client
	CacheManager      *manager.Manager
	FilterStore       *filters.Store
	FilterBroadcaster *messaging.FilterBroadcaster
	Logger            *logging.ChanneledLogger
	PerfTracker       *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer() *Container {
	logger, err := logging.NewChanneledLogger(loggerConfig())
	if err != nil {
		log.Fatalf("Failed to initialize channeled logger: %v", err)
	}
	perfTracker := performance.NewTracker(nil)

	upstreamClient := upstream.NewClient(upstream.Config{
		BaseURL:         config.UpstreamBaseURL,
		TokenURL:        config.UpstreamTokenURL,
		ClientID:        config.UpstreamClientID,
		ClientSecret:    config.UpstreamClientSecret,
		Timeout:         config.UpstreamTimeout,
		PaginationLimit: config.PaginationLimit,
	}, logger)

	cacheManager := manager.NewManager(
		manager.Config{
			RawAnalyticsTTL: config.RawAnalyticsTTL,
			SessionsTTL:     config.SessionsCacheTTL,
			FeedbackTTL:     config.FeedbackCacheTTL,
		},
		manager.Fetchers{
			RawAnalytics: upstreamClient.FetchAllAnalytics,
			Sessions:     upstreamClient.FetchSessions,
			Feedback:     upstreamClient.FetchAllFeedback,
		},
		nil,
		logger,
	)

	filterStore := filters.NewStore()
	broadcaster := messaging.NewFilterBroadcaster()

	// A filter change invalidates the sessions cache and is pushed to every
	// connected dashboard.
	filterStore.Subscribe(func(state filters.FilterState) {
		cacheManager.ClearSessions()
		broadcaster.Broadcast(state)
	})

	return &Container{
		AnalyticsService:        services.NewAnalyticsService(cacheManager, logger, perfTracker),
		UserAnalyticsService:    services.NewUserAnalyticsService(cacheManager, logger, perfTracker, time.Now),
		AccountAnalyticsService: services.NewAccountAnalyticsService(cacheManager, logger, perfTracker),
		SessionService:          services.NewSessionService(cacheManager, logger, perfTracker),
		FeedbackService:         services.NewFeedbackService(cacheManager, logger, perfTracker),
		WarmingService:          services.NewWarmingService(cacheManager, logger, time.Now),
		AuthService:             services.NewAuthService(config.AdminPassword, config.JWTSecret, config.AdminTokenTTL, logger),

		UpstreamClient:    upstreamClient,
		CacheManager:      cacheManager,
		FilterStore:       filterStore,
		FilterBroadcaster: broadcaster,
		Logger:            logger,
		PerfTracker:       perfTracker,
	}
}

func loggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.DefaultLevel = slog.LevelInfo
	return cfg
}
