package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/raffreitas/blog/internal/cache"
	"github.com/raffreitas/blog/internal/config"
	"github.com/raffreitas/blog/internal/db"
	"github.com/raffreitas/blog/internal/domain"
	"github.com/raffreitas/blog/internal/email"
	apihttp "github.com/raffreitas/blog/internal/http"
	"github.com/raffreitas/blog/internal/repository"
	"github.com/raffreitas/blog/internal/service"
	"github.com/raffreitas/blog/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Sin clave de firma el proceso no debe atender trafico.
	if cfg.JWTSecret == "" {
		logger.Fatal("jwt secret not configured")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	uploader := storage.NewDisabledUploader("blob storage not configured")
	if cfg.S3Bucket != "" {
		s3Uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Warn("s3 uploader init failed", zap.Error(err))
		} else {
			uploader = s3Uploader
		}
	}

	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	var (
		categoryCache cache.Cache[[]domain.Category] = cache.NewMemoryCache[[]domain.Category](cacheTTL)
		loginLimiter  service.RateLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			categoryCache = cache.NewRedisCache[[]domain.Category](redisClient, cacheTTL)
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
		}
		cancel()
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	accountSvc := service.NewAccountService(logger, userRepo, emailSender, tokenSvc, uploader, loginLimiter)
	categorySvc := service.NewCategoryService(logger, categoryRepo, categoryCache)

	accountHandler := apihttp.NewAccountHandler(logger, accountSvc)
	categoryHandler := apihttp.NewCategoryHandler(logger, categorySvc)
	router := apihttp.NewRouter(logger, tokenSvc, accountHandler, categoryHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
