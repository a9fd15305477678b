package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algojudge/internal/api"
	"algojudge/internal/api/middleware"
	"algojudge/internal/app/execution"
	"algojudge/internal/app/judge"
	"algojudge/internal/app/service"
	"algojudge/internal/common/security"
	"algojudge/internal/domain/repository"
	"algojudge/internal/platform/cache"
	"algojudge/internal/platform/config"
	"algojudge/internal/platform/database"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 2. Connect stores; their lifecycle is owned here, not by components.
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("database connected")

	rdb, err := cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer rdb.Close()
	logger.Info("redis connected")

	// 3. Repositories
	userRepo := repository.NewPgUserRepository(db)
	problemRepo := repository.NewPgProblemRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)
	solvedRepo := repository.NewPgSolvedProblemRepository(db)
	revocations := repository.NewRedisRevocationStore(rdb)

	// 4. Core components
	jwtManager := security.NewJWTManager(cfg.JWTKey, cfg.JWTExp)
	execClient := execution.NewPistonClient(cfg.ExecutorURL, cfg.ExecutorTimeout, logger)
	runner := judge.NewRunner(execClient, cfg.RunCodeConcurrency)

	// 5. Services
	authService := service.NewAuthService(userRepo, revocations, jwtManager, logger)
	problemService := service.NewProblemService(solvedRepo)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, solvedRepo, runner, logger)

	// 6. Router & HTTP server
	authenticator := middleware.NewAuthenticator(userRepo, revocations, logger)
	router := api.NewRouter(jwtManager, authenticator, authService, problemService, submissionService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", cfg.APIPort, err)
		}
	}()

	<-stop

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped gracefully")
}
