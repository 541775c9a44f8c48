package main

import (
	"net/http"
	"os"
	"time"

	"ledgerlite/api/handler"
	apiMiddleware "ledgerlite/api/middleware"
	"ledgerlite/api/routes"
	"ledgerlite/config"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"
	"ledgerlite/internal/service"
	"ledgerlite/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}

	validate := validator.New()

	accessManager := utils.JWTManager{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	}
	accessIssuer := service.JWTAccessIssuer{Manager: &accessManager}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	var codeStore repository.OneTimeCodeStore
	if cfg.CodeBackend == "redis" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("invalid redis url")
		}
		codeStore = repository.NewRedisCodeStore(redis.NewClient(opt))
	} else {
		codeStore = repository.NewOneTimeCodeRepository(db)
	}

	emailSender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName)

	authService := service.NewAuthService(
		userRepo,
		sessionRepo,
		codeStore,
		securityRepo,
		emailSender,
		service.BcryptPasswordHasher{},
		accessIssuer,
		service.RealClock{},
		service.AuthConfig{
			CodeLength:      cfg.CodeLength,
			CodeTTL:         cfg.CodeTTL,
			ResendCooldown:  cfg.ResendCooldown,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			Purposes: map[entity.CodePurpose]service.PurposePolicy{
				entity.PurposeLoginRecovery:     {RequireUser: true},
				entity.PurposeEmailVerification: {RequireUser: true},
				entity.PurposePasswordReset:     {RequireUser: true},
			},
		},
	)

	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, transactionRepo, service.RealClock{})

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	authHandler.CookieDomain = cfg.CookieDomain
	authHandler.SecureCookies = cfg.SecureCookies

	customerHandler := handler.NewCustomerHandler(service.NewCustomerService(customerRepo), validate, logger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, validate, logger)
	quotationHandler := handler.NewQuotationHandler(
		service.NewQuotationService(quotationRepo, customerRepo, invoiceService), validate, logger)
	transactionHandler := handler.NewTransactionHandler(service.NewTransactionService(transactionRepo), validate, logger)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager}
	router := routes.NewRouter(
		app,
		authHandler,
		customerHandler,
		invoiceHandler,
		quotationHandler,
		transactionHandler,
		authMiddleware,
		apiMiddleware.RateLimitConfig{
			PerMinute: cfg.AuthRatePerMinute,
			Burst:     cfg.AuthRateBurst,
			IdleTTL:   cfg.RateLimitIdleTTL,
		},
		apiMiddleware.RateLimitConfig{
			PerMinute: cfg.CodeRatePerMinute,
			Burst:     cfg.CodeRateBurst,
			IdleTTL:   cfg.RateLimitIdleTTL,
		},
	)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.Addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
