package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopfront/shopfront/internal/analytics"
	"github.com/shopfront/shopfront/internal/auth"
	"github.com/shopfront/shopfront/internal/cart"
	"github.com/shopfront/shopfront/internal/catalog"
	"github.com/shopfront/shopfront/internal/config"
	"github.com/shopfront/shopfront/internal/coupons"
	"github.com/shopfront/shopfront/internal/media"
	"github.com/shopfront/shopfront/internal/middleware"
	"github.com/shopfront/shopfront/internal/notification"
	"github.com/shopfront/shopfront/internal/orders"
	"github.com/shopfront/shopfront/internal/payments"
	"github.com/shopfront/shopfront/internal/users"
)

const setupTimeout = 15 * time.Second

// Deps aggregates shared dependencies required to wire routes. Nil stores fall
// back to in-memory implementations, which Setup only accepts in development.
type Deps struct {
	Cfg       config.Config
	Mongo     *mongo.Database
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Media     media.Uploader
	Processor payments.Processor
	Logger    *slog.Logger
	// Now overrides the clock used for credentials and coupons. Tests only.
	Now func() time.Time
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDevelopment() {
		if d.Mongo == nil {
			return fmt.Errorf("mongodb is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Media == nil {
		d.Media = media.NewMemoryUploader()
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	stores, err := buildStores(ctx, d)
	if err != nil {
		return err
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDevelopment() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Services and handlers
	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		AccessSecret:  []byte(d.Cfg.AccessTokenSecret),
		RefreshSecret: []byte(d.Cfg.RefreshTokenSecret),
		AccessTTL:     d.Cfg.AccessTokenTTL,
		RefreshTTL:    d.Cfg.RefreshTokenTTL,
		Now:           d.Now,
	})
	if err != nil {
		return err
	}
	var refreshStore auth.RefreshStore
	if d.Cache != nil {
		refreshStore = auth.NewRedisRefreshStore(d.Cache, d.Cfg.RefreshTokenTTL)
	} else {
		refreshStore = auth.NewMemoryRefreshStore(d.Cfg.RefreshTokenTTL, d.Now)
	}

	userSvc := users.NewService(stores.users)
	authSvc := auth.NewService(userSvc, issuer, refreshStore, d.Logger)
	cookies := auth.CookieWriter{
		Secure:     d.Cfg.IsProduction(),
		AccessTTL:  d.Cfg.AccessTokenTTL,
		RefreshTTL: d.Cfg.RefreshTokenTTL,
	}

	catalogSvc := catalog.NewService(stores.products, d.Cache, d.Media, d.Logger)
	cartSvc := cart.NewService(stores.users, stores.products)
	couponSvc := coupons.NewService(stores.coupons, d.Logger, d.Now)
	paymentSvc := payments.NewService(d.Processor, stores.products, couponSvc, stores.orders,
		notification.NewLoggerNotifier(d.Logger), d.Cfg.ClientURL, d.Logger)
	analyticsSvc := analytics.NewService(stores.users, stores.products, stores.orders, d.Now)

	protect := auth.ProtectRoute(authSvc)
	admin := auth.AdminRoute()

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  d.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAuthRoutes(api, auth.NewHandler(authSvc, cookies, d.Logger), protect, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))
	RegisterProductRoutes(api, catalog.NewHandler(catalogSvc, d.Logger), protect, admin)
	RegisterCartRoutes(api, cart.NewHandler(cartSvc), protect)
	RegisterCouponRoutes(api, coupons.NewHandler(couponSvc), protect)
	RegisterPaymentRoutes(api, payments.NewHandler(paymentSvc, d.Logger), protect,
		middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	RegisterAnalyticsRoutes(api, analytics.NewHandler(analyticsSvc, d.Logger), protect, admin)

	return nil
}

type storeSet struct {
	users    users.Repository
	products catalog.Repository
	coupons  coupons.Repository
	orders   orders.Store
}

func buildStores(ctx context.Context, d Deps) (storeSet, error) {
	var s storeSet
	if d.Mongo != nil {
		userRepo, err := users.NewMongoRepository(ctx, d.Mongo)
		if err != nil {
			return storeSet{}, fmt.Errorf("users repository: %w", err)
		}
		productRepo, err := catalog.NewMongoRepository(ctx, d.Mongo)
		if err != nil {
			return storeSet{}, fmt.Errorf("products repository: %w", err)
		}
		couponRepo, err := coupons.NewMongoRepository(ctx, d.Mongo)
		if err != nil {
			return storeSet{}, fmt.Errorf("coupons repository: %w", err)
		}
		s.users, s.products, s.coupons = userRepo, productRepo, couponRepo
	} else {
		s.users = users.NewMemoryRepository()
		s.products = catalog.NewMemoryRepository()
		s.coupons = coupons.NewMemoryRepository()
	}

	if d.DB != nil {
		orderStore := orders.NewPostgresStore(d.DB)
		if err := orderStore.EnsureSchema(ctx); err != nil {
			return storeSet{}, err
		}
		s.orders = orderStore
	} else {
		s.orders = orders.NewInMemory()
	}
	return s, nil
}
