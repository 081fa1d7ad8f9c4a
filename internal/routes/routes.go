package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/banksampah/banksampah/internal/config"
	"github.com/banksampah/banksampah/internal/history"
	"github.com/banksampah/banksampah/internal/identity"
	"github.com/banksampah/banksampah/internal/intake"
	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/metrics"
	"github.com/banksampah/banksampah/internal/middleware"
	"github.com/banksampah/banksampah/internal/notification"
	"github.com/banksampah/banksampah/internal/pricing"
	"github.com/banksampah/banksampah/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   zerolog.Logger
	Registry *prometheus.Registry
}

type stores struct {
	ledger     ledger.Store
	users      identity.Repository
	categories pricing.Repository
}

func buildStores(d Deps) stores {
	if d.DB != nil {
		return stores{
			ledger:     ledger.NewPostgresStore(d.DB),
			users:      identity.NewPostgresRepository(d.DB),
			categories: pricing.NewPostgresRepository(d.DB),
		}
	}
	d.Logger.Warn().Msg("no database configured, using in-memory stores")
	return stores{
		ledger:     ledger.NewInMemory(),
		users:      identity.NewMemoryRepository(),
		categories: pricing.NewMemoryRepository(pricing.DefaultCatalogue()...),
	}
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	s := buildStores(d)
	opts := ledger.DefaultOptions()
	opts.AutoRejectOnInsufficientBalance = d.Cfg.Ledger.AutoRejectInsufficient
	opts.MaxCommitAttempts = d.Cfg.Ledger.CommitAttempts
	engine := ledger.NewEngine(s.ledger, opts, d.Logger, metrics.NewLedgerMetrics(d.Registry), notification.NewLoggerNotifier(d.Logger))

	identitySvc := identity.NewService(s.users)
	walletSvc := wallet.NewService(s.ledger, s.users)
	intakeSvc := intake.NewService(s.ledger, s.users, s.categories, engine, d.Logger)
	historySvc := history.NewService(s.ledger)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	var idem fiber.Handler = func(c *fiber.Ctx) error { return c.Next() }
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	walletHandler := wallet.NewHandler(walletSvc)
	historyHandler := history.NewHandler(historySvc)

	RegisterPricingRoutes(api, pricing.NewHandler(s.categories))
	RegisterWalletRoutes(api, walletHandler)
	RegisterIntakeRoutes(api, intake.NewHandler(intakeSvc), idem,
		middleware.RequestRateLimit(d.Cache, "submission", d.Cfg.Intake.RateLimitPerMinute, d.Logger),
		middleware.RequestRateLimit(d.Cache, "withdrawal", d.Cfg.Intake.RateLimitPerMinute, d.Logger))
	RegisterPendingRoutes(api, historyHandler)

	admin := api.Group("/admin", middleware.AdminKey(d.Cfg.AdminKeyHash))
	RegisterLedgerRoutes(admin, ledger.NewHandler(engine), idem)
	RegisterHistoryRoutes(admin, historyHandler)
	RegisterIdentityRoutes(admin, identity.NewHandler(identitySvc), identitySvc, walletSvc, d.Logger)
	admin.Post("/wallets", walletHandler.Provision)

	return nil
}

// NewApp builds a fiber app with the shared error handler.
func NewApp(cfg config.Config, logger zerolog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: middleware.ErrorHandler(logger),
	})
}
