package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"campaign-auth/internal/config"
	"campaign-auth/internal/db"
	"campaign-auth/internal/email"
	apihttp "campaign-auth/internal/http"
	"campaign-auth/internal/repository"
	"campaign-auth/internal/service"
	"campaign-auth/internal/upload"

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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	otpRepo := repository.NewPgOtpRepository(pool)
	mediaRepo := repository.NewPgMediaRepository(pool)
	adminRepo := repository.NewPgAdminRepository(pool)
	statsRepo := repository.NewPgStatsRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS, cfg.FrontendURL)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	otpLimiter := service.NewRateLimiter(cfg.OTPRateWindow, cfg.OTPRateMax)
	ipLimiter := service.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
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
			otpLimiter = service.NewRedisRateLimiter(redisClient, "otp:rl:", cfg.OTPRateWindow, cfg.OTPRateMax)
			ipLimiter = service.NewRedisRateLimiter(redisClient, "ip:rl:", cfg.RateLimitWindow, cfg.RateLimitMax)
		}
		cancel()
	}

	uploads, err := upload.NewDiskStore(cfg.UploadDir, cfg.MaxFileSize, cfg.MaxFiles)
	if err != nil {
		logger.Fatal("upload dir init", zap.Error(err))
	}

	hasher := service.NewPasswordHasher(0)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	authSvc := service.NewAuthService(logger, userRepo, otpRepo, mediaRepo, adminRepo, emailSender, hasher, tokens, otpLimiter, cfg.OTPTTL)
	adminSvc := service.NewAdminService(logger, userRepo, mediaRepo, adminRepo, statsRepo, emailSender, hasher)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, uploads)
	adminHandler := apihttp.NewAdminHandler(logger, adminSvc)
	router := apihttp.NewRouter(logger, authHandler, adminHandler, tokens, ipLimiter, uploads.Dir())

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
