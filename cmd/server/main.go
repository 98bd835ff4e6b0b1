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
	"go.uber.org/zap"

	"github.com/inblognet/OmniPOS-sub000/internal/application/checkout"
	"github.com/inblognet/OmniPOS-sub000/internal/application/dispatch"
	"github.com/inblognet/OmniPOS-sub000/internal/application/inventory"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/identity"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/auth"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/cache"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/config"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/logger"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/notification"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/persistence"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/remote"
	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/render"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/handler"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/middleware"
	"github.com/inblognet/OmniPOS-sub000/internal/interfaces/http/router"
)

const idempotencyTTL = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS terminal",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Local mirror store
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing local store", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate local store", zap.Error(err))
	}
	log.Info("Local store ready", zap.String("driver", cfg.Database.Driver))

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	pendingWriteRepo := persistence.NewGormPendingWriteRepository(db.DB)
	operatorRepo := persistence.NewGormOperatorRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Remote API client and idempotency cache
	remoteClient := remote.NewClient(&cfg.Remote)

	var idemStore appsync.IdempotencyStore
	if cfg.Redis.RedisEnabled() {
		redisStore, err := cache.NewRedisIdempotencyStore(&cfg.Redis, idempotencyTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idemStore = redisStore
		log.Info("Using Redis idempotency cache", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore(idempotencyTTL)
	}

	// Offline replay queue and connectivity monitor
	replayService := appsync.NewReplayService(pendingWriteRepo, remoteClient, idemStore, log)
	monitor := appsync.NewConnectivityMonitor(remoteClient, cfg.Remote.ProbeInterval, func(ctx context.Context) {
		replayService.OnConnectivityRestored(ctx)
	}, log)
	monitor.Start(context.Background())
	defer func() {
		if err := monitor.Stop(context.Background()); err != nil {
			log.Error("Error stopping connectivity monitor", zap.Error(err))
		}
	}()

	// Receipt rendering and dispatch
	htmlRenderer, err := render.NewHTMLRenderer()
	if err != nil {
		log.Fatal("Failed to parse receipt email template", zap.Error(err))
	}
	coordinator := dispatch.NewCoordinator(
		dispatch.Renderers{
			PrintDoc: render.NewPrintDocRenderer(),
			Text:     render.NewTextRenderer(),
			HTML:     htmlRenderer,
		},
		notification.NewNetworkPrinter(cfg.Printer.Address),
		notification.NewHTTPPushGateway(),
		notification.NewHTTPEmailGateway(),
		notification.NewHTTPSMSGateway(),
		log,
	)

	// Application services
	inventoryService := inventory.NewService(productRepo, replayService, monitor, txScope, log)
	checkoutService := checkout.NewService(
		productRepo, customerRepo, orderRepo, settingsRepo,
		replayService, coordinator, monitor, txScope, log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	seedAdminOperator(operatorRepo, log)

	// Background expiry sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Maintenance.SweepEnabled {
		go runExpirySweep(sweepCtx, inventoryService, cfg.Maintenance.SweepInterval, log)
		log.Info("Expiry sweep scheduled", zap.Duration("interval", cfg.Maintenance.SweepInterval))
	}

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	authHandler := handler.NewAuthHandler(operatorRepo, jwtService, log)
	systemHandler := handler.NewSystemHandler(db, monitor)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.RegisterPublic(authHandler)
	r.RegisterPublic(systemHandler)
	r.Register(authHandler)
	r.Register(handler.NewProductHandler(productRepo, inventoryService, log))
	r.Register(handler.NewCheckoutHandler(checkoutService, orderRepo, log))
	r.Register(handler.NewCustomerHandler(customerRepo, log))
	r.Register(handler.NewSettingsHandler(settingsRepo, log))
	r.Register(handler.NewSyncHandler(replayService, monitor, pendingWriteRepo, log))
	r.Register(handler.NewReportHandler(remoteClient, monitor, log))
	r.Setup(middleware.JWTAuth(jwtService))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// seedAdminOperator creates the bootstrap admin account on first start so
// a fresh terminal can be signed into.
func seedAdminOperator(operators identity.Repository, log *zap.Logger) {
	ctx := context.Background()
	if _, err := operators.FindByUsername(ctx, "admin"); err == nil {
		return
	} else if !errors.Is(err, shared.ErrNotFound) {
		log.Error("Failed to check for admin operator", zap.Error(err))
		return
	}

	password := os.Getenv("POS_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Warn("Seeding admin operator with the default password, change it after first sign-in")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("Failed to hash admin password", zap.Error(err))
		return
	}
	op, err := identity.NewOperator("admin", "Administrator", hash, identity.RoleAdmin)
	if err != nil {
		log.Error("Failed to build admin operator", zap.Error(err))
		return
	}
	if err := operators.Save(ctx, op); err != nil {
		log.Error("Failed to seed admin operator", zap.Error(err))
		return
	}
	log.Info("Seeded admin operator")
}

// runExpirySweep runs the expiry sweep once at startup and then on the
// configured interval until ctx is cancelled.
func runExpirySweep(ctx context.Context, svc *inventory.Service, interval time.Duration, log *zap.Logger) {
	sweep := func() {
		swept, err := svc.SweepExpired(ctx, time.Now())
		if err != nil {
			log.Error("Expiry sweep failed", zap.Error(err))
			return
		}
		if len(swept) > 0 {
			log.Info("Expiry sweep moved stock", zap.Int("products", len(swept)))
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
