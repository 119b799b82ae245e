package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/memory"
	mongoadapter "github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/mongo"
	natsadapter "github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/nats"
	redisadapter "github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/redis"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/catalog"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/metrics"
	grpcserver "github.com/Abdurahmanit/GroupProject/cart-service/internal/port/grpc"
	httpserver "github.com/Abdurahmanit/GroupProject/cart-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/render"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

const metricsNamespace = "storefront"

type App struct {
	cfg         *config.Config
	log         logger.Logger
	httpServer  *httpserver.Server
	grpcServer  *grpcserver.Server
	cartService service.CartService
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, GRPC Port: %s, Storage: %s",
		cfg.Env, cfg.HTTPServer.Port, cfg.GRPCServer.Port, cfg.Storage.Backend)

	pricing, err := PricingFromConfig(cfg.Cart)
	if err != nil {
		return nil, err
	}

	application := &App{cfg: cfg, log: appLogger}

	cartRepo, err := application.initStorage(ctx)
	if err != nil {
		application.closeClients(ctx)
		return nil, err
	}

	publisher, err := application.initPublisher()
	if err != nil {
		application.closeClients(ctx)
		return nil, err
	}

	var metricsManager *metrics.MetricsManager
	if cfg.Metrics.Enabled {
		metricsManager = metrics.NewMetricsManager(metricsNamespace)
		appLogger.Info("Prometheus metrics initialized")
	}

	productCatalog, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		application.closeClients(ctx)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	appLogger.Infof("Catalog loaded with %d products", len(productCatalog.Search("")))

	renderer := render.NewHTMLRenderer(cfg.Cart.CurrencySymbol, appLogger)
	application.cartService = service.NewCartService(
		ctx,
		cartRepo,
		renderer,
		publisher,
		metricsManager,
		appLogger,
		service.CartServiceConfig{Pricing: pricing, CurrencySymbol: cfg.Cart.CurrencySymbol},
	)
	appLogger.Info("CartService initialized")

	handler := httpserver.NewCartHandler(application.cartService, productCatalog, renderer, cfg.Cart.CurrencySymbol, appLogger)
	router := httpserver.NewRouter(handler, appLogger, metricsManager)
	application.httpServer = httpserver.NewServer(
		appLogger,
		cfg.HTTPServer.Port,
		router,
		cfg.HTTPServer.ReadTimeout,
		cfg.HTTPServer.WriteTimeout,
	)
	appLogger.Info("HTTP server instance created")

	if cfg.GRPCServer.Port != "" {
		application.grpcServer = grpcserver.NewServer(
			appLogger,
			cfg.GRPCServer.Port,
			cfg.GRPCServer.TimeoutGraceful,
			cfg.GRPCServer.MaxConnectionIdle,
		)
		appLogger.Info("gRPC health server instance created")
	}

	return application, nil
}

// PricingFromConfig parses the tax rate and shipping cost strings.
func PricingFromConfig(cfg config.CartConfig) (entity.Pricing, error) {
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return entity.Pricing{}, fmt.Errorf("invalid cart tax rate %q: %w", cfg.TaxRate, err)
	}
	shipping, err := decimal.NewFromString(cfg.ShippingCost)
	if err != nil {
		return entity.Pricing{}, fmt.Errorf("invalid cart shipping cost %q: %w", cfg.ShippingCost, err)
	}
	if taxRate.IsNegative() || shipping.IsNegative() {
		return entity.Pricing{}, fmt.Errorf("cart tax rate and shipping cost must not be negative")
	}
	return entity.Pricing{TaxRate: taxRate, Shipping: shipping}, nil
}

func (a *App) initStorage(ctx context.Context) (repository.CartSnapshotRepository, error) {
	storage := a.cfg.Storage
	switch storage.Backend {
	case config.StorageRedis:
		a.log.Info("Initializing Redis client...")
		redisClient, err := redisadapter.NewClient(ctx, a.cfg.Redis)
		if err != nil {
			a.log.Errorf("Failed to initialize Redis client: %v", err)
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		a.redisClient = redisClient
		a.log.Info("Redis client initialized successfully")
		return redisadapter.NewCartSnapshotRepository(redisClient, storage.Key, storage.TTL), nil

	case config.StorageMongo:
		a.log.Info("Initializing MongoDB client...")
		mongoClient, err := mongoadapter.NewClient(ctx, a.cfg.MongoDB)
		if err != nil {
			a.log.Errorf("Failed to initialize MongoDB client: %v", err)
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		a.mongoClient = mongoClient
		a.log.Info("MongoDB client initialized successfully")
		collection := mongoClient.Database(a.cfg.MongoDB.Database).Collection(a.cfg.MongoDB.Collection)
		return mongoadapter.NewCartSnapshotRepository(collection, storage.Key), nil

	default:
		a.log.Warn("Using in-memory cart storage; the cart will not survive a restart")
		return memory.NewCartSnapshotRepository(memory.NewStore(), storage.Key), nil
	}
}

func (a *App) initPublisher() (natsadapter.CartEventPublisher, error) {
	if !a.cfg.NATS.Enabled {
		a.log.Info("NATS disabled, cart events will not be published")
		return natsadapter.NewNoopPublisher(), nil
	}
	conn, err := natsadapter.NewConnection(a.cfg.NATS, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	a.natsConn = conn
	return natsadapter.NewCartEventPublisher(conn, a.cfg.NATS.SubjectPrefix)
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	if a.grpcServer != nil {
		go func() {
			if err := a.grpcServer.Start(); err != nil {
				a.log.Fatalf("Failed to start gRPC server: %v", err)
			}
		}()
		a.grpcServer.MarkServing()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if a.grpcServer != nil {
		if err := a.grpcServer.Stop(shutdownCtx); err != nil {
			a.log.Errorf("Error during gRPC server graceful shutdown: %v", err)
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.closeClients(shutdownCtx)
	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

func (a *App) closeClients(ctx context.Context) {
	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}
}
