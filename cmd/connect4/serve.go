package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/repository/postgres"
	"github.com/iamasit07/connect4-ai/internal/repository/redis"
	"github.com/iamasit07/connect4-ai/internal/service/arena"
	authsvc "github.com/iamasit07/connect4-ai/internal/service/auth"
	"github.com/iamasit07/connect4-ai/internal/service/cleanup"
	"github.com/iamasit07/connect4-ai/internal/service/match"
	transportHttp "github.com/iamasit07/connect4-ai/internal/transport/http"
	"github.com/iamasit07/connect4-ai/internal/transport/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server with live human-versus-AI play",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := config.AppConfig

	db, err := postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Running database migrations...")
	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	matchRepo := postgres.NewMatchRepo(db)

	// Redis is optional; everything degrades to the database when the
	// client is nil.
	var cache *redis.Cache
	if client := redis.Connect(cfg.RedisURL); client != nil {
		cache = redis.NewCache(client)
		defer client.Close()
	}

	var authCache authsvc.CacheRepository
	var arenaCache arena.CacheRepository
	if cache != nil {
		authCache = cache
		arenaCache = cache
	}

	authService := authsvc.NewService(sessionRepo, authCache)
	arenaService := arena.NewService(matchRepo, userRepo, arenaCache)
	matchManager := match.NewManager(cfg.SearchDepth)
	connManager := websocket.NewConnectionManager()

	cleanupWorker := cleanup.NewWorker(matchManager, sessionRepo, cfg.SessionIdleTimeout)
	go cleanupWorker.Start()

	wsHandler := websocket.NewHandler(connManager, matchManager, arenaService, authService)
	router := transportHttp.NewRouter(transportHttp.Handlers{
		Auth:    transportHttp.NewAuthHandler(userRepo, authService, connManager, authCache),
		OAuth:   transportHttp.NewOAuthHandler(userRepo, authService, &cfg.OAuthConfig, connManager),
		Arena:   transportHttp.NewArenaHandler(arenaService),
		WS:      wsHandler,
		AuthSvc: authService,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
