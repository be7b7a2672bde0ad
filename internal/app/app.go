package app

import (
	"log/slog"

	"rentkenya/internal/config"
	httpapp "rentkenya/internal/app/httpapp"
	httpapi "rentkenya/internal/http"
	"rentkenya/internal/lib/llm"
	"rentkenya/internal/lib/metrics"
	miniocore "rentkenya/internal/lib/minio/core"
	"rentkenya/internal/repository/favorite_repository"
	"rentkenya/internal/repository/inquiry_repository"
	"rentkenya/internal/repository/notification_repository"
	"rentkenya/internal/repository/property_repository"
	"rentkenya/internal/repository/search_repository"
	"rentkenya/internal/repository/user_repository"
	"rentkenya/internal/services/favorites"
	"rentkenya/internal/services/inquiry"
	"rentkenya/internal/services/notification"
	"rentkenya/internal/services/property"
	"rentkenya/internal/services/recommendation"
	"rentkenya/internal/services/search"
	"rentkenya/internal/services/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	HTTPServer *httpapp.App
	LLMClient  llm.Client
	AIMetrics  *metrics.AIMetrics
}

func New(log *slog.Logger, pool *pgxpool.Pool, minioClient miniocore.Client, cfg *config.Config) *App {
	userRepository := user_repository.NewUserRepository(pool, log)
	propertyRepository := property_repository.NewPropertyRepository(pool, log)
	favoriteRepository := favorite_repository.NewFavoriteRepository(pool, log)
	inquiryRepository := inquiry_repository.NewInquiryRepository(pool, log)
	notificationRepository := notification_repository.NewNotificationRepository(pool, log)
	searchRepository := search_repository.NewSearchRepository(pool, log)

	llmClient := llm.NewClient(cfg.LLM, log)
	aiMetrics := metrics.GetAIMetrics(log)

	log.Info("external services initialized",
		slog.Bool("llm_enabled", llmClient.IsEnabled()),
		slog.Bool("minio_enabled", minioClient.IsEnabled()),
	)

	notificationService := notification.New(log, notificationRepository)
	userService := user.New(log, userRepository, notificationService, cfg.Secret, cfg.TokenTTL)
	propertyService := property.New(log, propertyRepository, minioClient)
	favoritesService := favorites.New(log, favoriteRepository, propertyRepository)
	inquiryService := inquiry.New(log, inquiryRepository, propertyRepository)
	searchService := search.New(log, searchRepository)

	recommendationService := recommendation.New(
		log,
		userService,
		searchService,
		favoritesService,
		propertyService,
		llmClient,
		cfg.Recommend,
	)

	server := httpapi.NewServer(
		log,
		cfg,
		userService,
		propertyService,
		favoritesService,
		inquiryService,
		notificationService,
		searchService,
		recommendationService,
	)

	httpApp := httpapp.New(log, server.Router(cfg.HTTP.AllowedOrigins), cfg.HTTP)

	return &App{
		HTTPServer: httpApp,
		LLMClient:  llmClient,
		AIMetrics:  aiMetrics,
	}
}
