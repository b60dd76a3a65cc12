// Package main runs the meeting-room booking HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meetbook/backend/config"
	"github.com/meetbook/backend/internal/auth"
	"github.com/meetbook/backend/internal/bookings"
	"github.com/meetbook/backend/internal/calendar"
	"github.com/meetbook/backend/internal/locations"
	"github.com/meetbook/backend/internal/middleware"
	"github.com/meetbook/backend/internal/organizations"
	"github.com/meetbook/backend/internal/rooms"
	"github.com/meetbook/backend/internal/worker"
	"github.com/meetbook/backend/pkg/database"
	"github.com/meetbook/backend/pkg/queue"
	"github.com/meetbook/backend/pkg/redis"
	"github.com/meetbook/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewPostgres(cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var calSvc calendar.Service
	if cfg.Google.CredentialsFile != "" {
		gcal, err := calendar.NewGoogleService(ctx, cfg.Google.CredentialsFile, cfg.Google.CalendarID,
			time.Duration(cfg.Google.CalendarTimeoutSec)*time.Second)
		if err != nil {
			logger.Fatal("calendar", zap.Error(err))
		}
		calSvc = gcal
	} else {
		logger.Warn("calendar disabled: no credentials configured")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	sessions := auth.NewSessions(rdb.Client)
	verifier := auth.NewGoogleVerifier(cfg.Google.ClientID)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	userRepo := auth.NewRepository(db)
	orgRepo := organizations.NewRepository(db)
	authHandler := auth.NewHandler(userRepo, orgRepo, verifier, jwtService, sessions, logger)

	// Organizations
	orgHandler := organizations.NewHandler(orgRepo)

	// Locations
	locationRepo := locations.NewRepository(db)
	locationHandler := locations.NewHandler(locationRepo)

	// Rooms and bookings
	bookingRepo := bookings.NewRepository(db)
	roomRepo := rooms.NewRepository(db)
	roomHandler := rooms.NewHandler(roomRepo, bookingRepo)
	bookingHandler := bookings.NewHandler(bookingRepo, calSvc, jobQueue, cfg.Google.Timezone, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c, "request method is not allowed") })

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, "ok", nil) })

	// Auth (public)
	router.POST("/auth/google", authHandler.GoogleLogin)

	// Protected API (session required)
	api := router.Group("")
	api.Use(middleware.Auth(jwtService, sessions))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/organizations", orgHandler.List)
		api.POST("/organizations", orgHandler.Create)
		api.GET("/organizations/:id", orgHandler.Get)
		api.PATCH("/organizations/:id", orgHandler.Update)
		api.DELETE("/organizations/:id", orgHandler.Delete)

		api.GET("/locations/:orgId", locationHandler.List)
		api.POST("/locations/:orgId", locationHandler.Create)
		api.GET("/locations/:orgId/:locationId", locationHandler.Get)
		api.PATCH("/locations/:orgId/:locationId", locationHandler.Update)
		api.DELETE("/locations/:orgId/:locationId", locationHandler.Delete)

		api.GET("/rooms/:locationId", roomHandler.List)
		api.POST("/rooms/:locationId", roomHandler.Create)
		api.GET("/rooms/:locationId/:roomId", roomHandler.Get)
		api.PATCH("/rooms/:locationId/:roomId", roomHandler.Update)
		api.DELETE("/rooms/:locationId/:roomId", roomHandler.Delete)

		api.GET("/bookings/:roomId", bookingHandler.List)
		api.POST("/bookings/:roomId", bookingHandler.Create)
		api.GET("/bookings/:roomId/:bookingId", bookingHandler.Get)
		api.DELETE("/bookings/:roomId/:bookingId", bookingHandler.Cancel)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background calendar reconciler (cleanup of orphaned events)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if calSvc != nil {
		reconciler := worker.NewReconciler(calSvc, jobQueue, logger)
		go reconciler.Run(workerCtx)
		logger.Info("calendar reconciler started")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
