package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/caddystats/content-backend/internal/config"
	"github.com/caddystats/content-backend/internal/handler"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/migration"
	"github.com/caddystats/content-backend/internal/repository"
	"github.com/caddystats/content-backend/internal/routes"
	"github.com/caddystats/content-backend/internal/service"
	pkgcache "github.com/caddystats/content-backend/pkg/cache"
	pkgjwt "github.com/caddystats/content-backend/pkg/jwt"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
	pkgredis "github.com/caddystats/content-backend/pkg/redis"
	"github.com/caddystats/content-backend/pkg/statsapi"
	pkgstorage "github.com/caddystats/content-backend/pkg/storage"
)

// @title           CaddyStats Content API
// @version         1.0
// @description     Content, commerce and golf-stats backend for the CaddyStats platform
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pkglogger.Init(cfg.App.Env)
	pkglogger.GetLogger().Info().
		Str("env", cfg.App.Env).
		Strs("env_files", dotenvFiles).
		Msg("Starting content-backend")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		redisClient = nil
	}
	cacheService := pkgcache.NewService(redisClient)

	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Bucket != "" {
		s3Client, err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("S3 storage init failed, uploads disabled")
			s3Client = nil
		}
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry.Std(), cfg.JWT.RefreshExpiry.Std())
	statsClient := statsapi.NewClient(cfg.StatsAPI.URL, cfg.StatsAPI.Timeout.Std())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	navRepo := repository.NewNavigationRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	productRepo := repository.NewProductRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	auditSvc := service.NewAuditService(auditRepo)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc)
	postSvc := service.NewPostService(postRepo, revisionRepo, taxonomyRepo, auditSvc)
	pageSvc := service.NewPageService(pageRepo, revisionRepo, auditSvc)
	templateSvc := service.NewTemplateService(templateRepo, revisionRepo, auditSvc)
	blockSvc := service.NewBlockService(blockRepo, postRepo, pageRepo, templateRepo)
	taxonomySvc := service.NewTaxonomyService(taxonomyRepo, auditSvc)
	navSvc := service.NewNavigationService(navRepo, cacheService, auditSvc)
	mediaSvc := service.NewMediaService(mediaRepo, s3Client, auditSvc, cfg.Upload.MaxSizeMB, cfg.Upload.AllowedMimes)
	productSvc := service.NewProductService(productRepo, cacheService, auditSvc)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, licenseRepo, productRepo, auditSvc)
	statsSvc := service.NewStatsService(statsClient, cacheService)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	postHandler := handler.NewPostHandler(postSvc)
	pageHandler := handler.NewPageHandler(pageSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	blockHandler := handler.NewBlockHandler(blockSvc)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomySvc)
	navHandler := handler.NewNavigationHandler(navSvc)
	mediaHandler := handler.NewMediaHandler(mediaSvc)
	commerceHandler := handler.NewCommerceHandler(productSvc, purchaseSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	if redisClient != nil {
		rateCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			rateCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(redisClient, rateCfg))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "content-backend",
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(
		router,
		authHandler,
		postHandler,
		pageHandler,
		templateHandler,
		blockHandler,
		taxonomyHandler,
		navHandler,
		mediaHandler,
		commerceHandler,
		statsHandler,
		jwtManager,
		authSvc,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("Listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.App.Env == "local" || cfg.App.Env == "development" {
		level = gormlogger.Info
	}
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
}
