package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/openleague/league-system/cache"
	"github.com/openleague/league-system/config"
	"github.com/openleague/league-system/db"
	"github.com/openleague/league-system/handlers"
	"github.com/openleague/league-system/repositories"
	api "github.com/openleague/league-system/routes"
	"github.com/openleague/league-system/services"
	"github.com/openleague/league-system/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	bracketCache := cache.NewNoopBracketCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		bracketCache = cache.NewRedisBracketCache(redisClient)
		logger.Info("bracket cache enabled", slog.String("redis_addr", cfg.RedisAddr))
	}

	var uploader storage.FileUploader
	if cfg.LogoUploadsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("logo uploads enabled", slog.String("bucket", cfg.R2BucketName))
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	memberRepo := repositories.NewPostgresMemberRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	bracketWriter := repositories.NewPostgresBracketWriter(dbConn, leagueRepo, matchRepo)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	leagueService := services.NewLeagueService(leagueRepo, memberRepo, uploader)
	memberService := services.NewMemberService(leagueRepo, memberRepo)
	inviteService := services.NewInviteService(inviteRepo, leagueRepo, memberRepo)
	bracketService := services.NewBracketService(leagueRepo, memberRepo, matchRepo, bracketWriter, bracketCache, logger)
	standingsService := services.NewStandingsService(leagueRepo, memberRepo, matchRepo)
	matchService := services.NewMatchService(leagueRepo, memberRepo, matchRepo, bracketCache, logger)
	logger.Info("services initialized")

	jwtSecret := []byte(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, jwtSecret)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	memberHandler := handlers.NewMemberHandler(memberService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	bracketHandler := handlers.NewBracketHandler(bracketService, standingsService)
	matchHandler := handlers.NewMatchHandler(matchService)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		leagueHandler,
		memberHandler,
		inviteHandler,
		bracketHandler,
		matchHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
