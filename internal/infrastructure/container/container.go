package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/config"
	"github.com/gdugdh24/matrimony-backend/internal/delivery/http"
	"github.com/gdugdh24/matrimony-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/matrimony-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/database"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/lock"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/server"
	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gdugdh24/matrimony-backend/internal/repository/sqlstore"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/auth"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/directory"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/interest"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/notification"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/profile"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/visibility"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const lockPrefix = "matrimony:lock:"

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	DB      *sqlx.DB
	Redis   *redis.Client
	Hub     *realtime.Hub
	Gemini  *gemini.Client
	Handler *gin.Engine
	Server  *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = redisClient

	// Gemini is optional; icebreakers fall back to profile-based suggestions
	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn("gemini client unavailable, using fallback icebreakers", "error", err)
	}
	c.Gemini = geminiClient

	c.Hub = realtime.NewHub(cfg.CORS.AllowedOrigins)

	var locker lock.Locker = lock.NewLocalLocker()
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient, lockPrefix, cfg.Interest.LockTTL)
	}

	var icebreakers interest.IcebreakerGenerator
	if geminiClient != nil {
		icebreakers = geminiClient
	}

	// Initialize repositories
	userRepo := sqlstore.NewUserRepository(db)
	sessionRepo := sqlstore.NewSessionRepository(db)
	profileRepo := sqlstore.NewProfileRepository(db)
	interestRepo := sqlstore.NewInterestRepository(db)
	notificationRepo := sqlstore.NewNotificationRepository(db)
	tx := sqlstore.NewTransactor(db)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		cfg.JWT.AccessSecret,
		time.Duration(cfg.JWT.AccessExpiryMin)*time.Minute,
	)

	gate := visibility.NewGate(interestRepo)

	profileUseCase := profile.NewProfileUseCase(
		profileRepo,
		userRepo,
		gate,
	)

	directoryUseCase := directory.NewDirectoryUseCase(
		userRepo,
		interestRepo,
	)

	interestUseCase := interest.NewInterestUseCase(
		interestRepo,
		userRepo,
		profileRepo,
		notificationRepo,
		tx,
		locker,
		c.Hub,
		icebreakers,
		interest.Limits{
			MaxMutual:     cfg.Interest.MaxMutual,
			MaxActiveSent: cfg.Interest.MaxActiveSent,
		},
	)

	notificationUseCase := notification.NewNotificationUseCase(
		notificationRepo,
		userRepo,
		c.Hub,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	directoryHandler := handler.NewDirectoryHandler(directoryUseCase)
	interestHandler := handler.NewInterestHandler(interestUseCase)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase, c.Hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	router := http.NewRouter(
		authHandler,
		profileHandler,
		directoryHandler,
		interestHandler,
		notificationHandler,
		authMiddleware,
	)

	ginRouter, err := router.Setup()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to set up routes: %w", err)
	}
	c.Handler = ginRouter

	c.Server = server.NewServer(&cfg.Server, &cfg.CORS, ginRouter)

	return c, nil
}

// Close releases every connection the container opened.
func (c *Container) Close() error {
	var errs []error

	if c.Hub != nil {
		c.Hub.Close()
	}

	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close gemini client: %w", err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
