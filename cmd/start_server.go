package server

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/abisalde/accounts-service/internal/accounts"
	"github.com/abisalde/accounts-service/internal/auth/handler/oauth"
	"github.com/abisalde/accounts-service/internal/auth/provider"
	"github.com/abisalde/accounts-service/internal/auth/repository"
	"github.com/abisalde/accounts-service/internal/auth/service"
	"github.com/abisalde/accounts-service/internal/configs"
	"github.com/abisalde/accounts-service/internal/database"
	"github.com/abisalde/accounts-service/internal/middleware"
	"github.com/abisalde/accounts-service/internal/routes"
	"github.com/abisalde/accounts-service/internal/worker"
	app_logger "github.com/abisalde/accounts-service/pkg/logger"
	"github.com/abisalde/accounts-service/pkg/mail"
	"github.com/abisalde/accounts-service/pkg/verification"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const defaultPort = "8080"

var _ service.CacheService = (*database.RedisCache)(nil)

type AppConfig struct {
	HTTPPort string
	AppEnv   string
}

func InitConfig() (*configs.Config, *AppConfig, error) {
	envErr := godotenv.Load()

	appEnv := os.Getenv("APP_ENV")
	if _, err := app_logger.New(appEnv); err != nil {
		return nil, nil, err
	}
	if envErr != nil {
		zap.L().Info("no .env file found, using environment variables")
	}

	cfg, err := configs.Load(appEnv)
	if err != nil {
		return nil, nil, err
	}

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = defaultPort
	}

	return cfg, &AppConfig{HTTPPort: httpPort, AppEnv: appEnv}, nil
}

func SetupDatabase(cfg *configs.Config) (*database.Database, *database.RedisCache, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	redisCache, redisErr := database.InitRedis(ctxWithTimeout, cfg)
	if redisErr != nil {
		db.Close()
		return nil, nil, redisErr
	}

	return db, redisCache, nil
}

// Services holds everything the HTTP layer depends on.
type Services struct {
	Auth   *service.AuthService
	OAuth  *service.OAuthService
	Worker *worker.LastLoginWorker
}

func SetupServices(db *database.Database, redisCache *database.RedisCache, cfg *configs.Config) (*Services, error) {
	hasher, err := verification.NewTokenHasher(cfg.Security.RefreshTokenHashSecret)
	if err != nil {
		return nil, err
	}

	mailerService := mail.NewMailerService(cfg)
	userRepo := repository.NewUserRepository(db.SQLDB)

	authService := service.NewAuthService(userRepo, redisCache, hasher, mailerService)
	registry := provider.NewRegistry(cfg, service.GetRedirectUrl(cfg))
	oauthService := service.NewOAuthService(cfg, registry, authService)

	return &Services{
		Auth:   authService,
		OAuth:  oauthService,
		Worker: worker.NewLastLoginWorker(redisCache.RawClient(), authService),
	}, nil
}

// BuildRoutes assembles the route table once. Any registration error is fatal to startup.
func BuildRoutes(cfg *configs.Config, oauthService oauth.SocialLoginService) (*routes.Table, error) {
	socialLogin := oauth.NewSocialLoginView(oauthService, cfg.IsProduction())
	return routes.Build(
		routes.Include{Prefix: cfg.Routes.AccountsPrefix, Namespace: accounts.URLPatterns(socialLogin)},
	)
}

func SetupFiberApp(cfg *configs.Config, db *database.Database, redisCache *database.RedisCache, table *routes.Table) *fiber.App {
	trustedDockerNetworkCIDR := "172.18.0.0/16"

	app := fiber.New(fiber.Config{
		AppName:                 "Accounts Service",
		ProxyHeader:             fiber.HeaderXForwardedFor,
		CaseSensitive:           true,
		StrictRouting:           true,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{trustedDockerNetworkCIDR},
		ErrorHandler:            middleware.ErrorHandler,
	})

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint:  "/livez",
		ReadinessEndpoint: "/readyz",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path}\n",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RequestContext)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.HealthCheck(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("UNHEALTHY")
		}
		return c.SendString("OK")
	})

	limitCfg := middleware.DefaultRateLimitConfig()
	limitCfg.RateLimit = cfg.Security.RateLimit
	limitCfg.RateWindow = cfg.Security.RateWindow
	limiter := middleware.NewRateLimiter(limitCfg, redisCache.RawClient())
	app.Use("/"+strings.TrimSuffix(cfg.Routes.AccountsPrefix, "/"), limiter.Handler())

	table.Mount(app)

	for _, e := range table.Entries() {
		zap.L().Info("route mounted",
			zap.String("path", e.Path),
			zap.String("namespace", e.Namespace),
			zap.Strings("methods", e.View.Methods()),
		)
	}

	return app
}

func allowedOrigins(cfg *configs.Config) string {
	origins := []string{"http://localhost:8080", "http://localhost:3000"}
	if cfg.Env.FrontendURL != "" {
		origins = append(origins, strings.TrimSuffix(cfg.Env.FrontendURL, "/"))
	}
	return strings.Join(origins, ",")
}
