package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"chat-api/internal/config"
	"chat-api/internal/db"
	"chat-api/internal/handlers"
	"chat-api/internal/middleware"
	"chat-api/internal/observability"
	"chat-api/internal/rabbitmq"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

const serviceName = "chat-api"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := buildLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Connect(cfg.Database.DSN, logger)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}

	if cfg.Telemetry.TracingEnabled {
		shutdown, err := observability.InitTracer(context.Background(), serviceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			logger.Fatal("failed to init tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	defer publisher.Close()

	emitter := telemetry.NewAuditEmitter(publisher, cfg.AMQP.AuditRoutingKey, serviceName, cfg.Server.Environment, logger)

	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	userRepo := repositories.NewUserRepo(database)

	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo, emitter, logger)
	messageHandler := handlers.NewMessageHandler(chatRepo, messageRepo, emitter, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	if cfg.Telemetry.TracingEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.Auth(cfg.Auth.JWTSecret, logger)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.POST("/chats", authMiddleware, chatHandler.AddChat)
	router.GET("/chats/:id", authMiddleware, chatHandler.GetChat)
	router.PUT("/chats/read/:id", authMiddleware, chatHandler.ReadChat)

	router.POST("/messages/:chatId", authMiddleware, messageHandler.AddMessage)

	handlers.RegisterDebugRoutes(router, emitter, cfg.Server.Debug)

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func buildLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
