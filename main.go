package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chatgraph/internal/bus"
	"chatgraph/internal/db"
	"chatgraph/internal/graph"
	"chatgraph/internal/middleware"
	"chatgraph/internal/observability"
	"chatgraph/internal/rabbitmq"
	"chatgraph/internal/repositories"
	"chatgraph/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "chatgraph")
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Printf("tracer shutdown failed: %v", err)
		}
	}()

	database, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	redisClient := connectRedis(ctx)

	amqpURL := os.Getenv("AMQP_URL")
	exchange := getEnv("AMQP_EXCHANGE", "chatgraph.events")
	if amqpURL != "" {
		eventPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange)
		if err != nil {
			log.Printf("event publishing disabled: %v", err)
		} else {
			observability.SetPublisher(eventPublisher)
			defer eventPublisher.Close()
		}
	}

	auditPublisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer auditPublisher.Close()
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, "audit.chatgraph", "chatgraph", getEnv("ENVIRONMENT", "dev"))

	userRepo := repositories.NewUserRepo(database, redisClient)
	chatRepo := repositories.NewChatRepo(database)

	hub := bus.NewHub()
	resolver := graph.NewResolver(userRepo, chatRepo, hub, auditEmitter)
	schema := graphql.MustParseSchema(graph.Schema, resolver)
	graphqlHandler := graphqlws.NewHandlerFunc(schema, &relay.Handler{Schema: schema})

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("chatgraph"))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(observability.RequestMetadataMiddleware())

	authMiddleware := middleware.AuthMiddleware(os.Getenv("JWT_SECRET"))

	router.POST("/graphql", authMiddleware, gin.WrapH(graphqlHandler))
	router.GET("/graphql", gin.WrapH(graphqlHandler))

	if getEnv("ENABLE_PLAYGROUND", "true") == "true" {
		router.GET("/", gin.WrapH(playground.Handler("GraphQL Playground", "/graphql")))
	}

	if getEnv("DEBUG_ROUTES", "false") == "true" {
		router.GET("/debug/audit-test", func(c *gin.Context) {
			reqCtx := c.Request.Context()
			auditEmitter.Emit(reqCtx, "audit_test", "ok", "", observability.RequestIDFromContext(reqCtx), "")
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := getEnv("PORT", "4000")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func connectRedis(ctx context.Context) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unavailable, user cache disabled: %v", err)
		return nil
	}
	return client
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
