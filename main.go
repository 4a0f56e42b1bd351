package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/yumpooma/config"
	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/kds"
	"github.com/yeremiapane/yumpooma/middlewares"
	"github.com/yeremiapane/yumpooma/router"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/telemetry"
	"github.com/yeremiapane/yumpooma/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "yumpooma"

func main() {
	utils.InitLogger()
	cfg := config.Load()
	utils.SetLogLevel(cfg.LogLevel)

	switch cfg.GinMode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint, cfg.OTLPInsecure)

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	gateway := database.NewGateway(db)

	if _, err := database.UpgradeAdminPasswords(ctx, gateway); err != nil {
		utils.ErrorLogger.Fatalf("Failed to upgrade admin passwords: %v", err)
	}
	if err := database.SeedAdmin(ctx, gateway, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
	}

	policy, err := services.ParseConflictPolicy(cfg.ConflictPolicy)
	if err != nil {
		utils.ErrorLogger.Fatal(err)
	}

	hub := kds.NewHub()
	publisher := newPublisher(cfg)
	defer publisher.Close()

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	recorder := services.NewOrderRecorder(gateway, publisher, hub)

	r := router.SetupRouter(router.Dependencies{
		Gateway:      gateway,
		Reservations: services.NewReservationService(gateway, policy, publisher, hub),
		Carts:        services.NewCartService(newCartStore(ctx, cfg), gateway, recorder),
		Sales:        services.NewSalesService(gateway),
		Auth:         services.NewAuthService(gateway, tokens),
		Images:       services.NewImageStore(cfg.UploadDir, cfg.PublicBaseURL),
		QR:           services.NewTableQRCode(cfg.PublicBaseURL),
		Hub:          hub,
		Tokens:       tokens,

		UploadDir:          cfg.UploadDir,
		CORSOrigins:        cfg.CORSOrigins,
		CartTTL:            cfg.CartTTL,
		TokenTTL:           cfg.JWTTTL,
		SecureCookies:      cfg.SecureCookies,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(middlewares.NewCORS(cfg.CORSOrigins).Handler(r), serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Telemetry shutdown: %v", err)
	}
}

func newPublisher(cfg config.Config) services.EventPublisher {
	if cfg.KafkaBroker == "" {
		return services.NopPublisher{}
	}
	utils.InfoLogger.Printf("Publishing events to kafka %s topic %s", cfg.KafkaBroker, cfg.KafkaTopic)
	return services.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
}

// newCartStore prefers Redis and falls back to memory when it is not
// configured or not reachable at startup.
func newCartStore(ctx context.Context, cfg config.Config) services.CartStore {
	if cfg.RedisAddr == "" {
		return services.NewMemoryCartStore(cfg.CartTTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		utils.ErrorLogger.Printf("Redis %s unavailable, using in-memory carts: %v", cfg.RedisAddr, err)
		client.Close()
		return services.NewMemoryCartStore(cfg.CartTTL)
	}
	utils.InfoLogger.Printf("Cart store: redis %s", cfg.RedisAddr)
	return services.NewRedisCartStore(client, cfg.CartTTL)
}
