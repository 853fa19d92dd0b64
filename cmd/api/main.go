package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	_ "github.com/jhoicas/replenishment-api/docs"
	"github.com/jhoicas/replenishment-api/internal/application/auth"
	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/application/notify"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/internal/application/receiving"
	"github.com/jhoicas/replenishment-api/internal/application/scheduler"
	"github.com/jhoicas/replenishment-api/internal/application/transfer"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	infracache "github.com/jhoicas/replenishment-api/internal/infrastructure/cache"
	infrmail "github.com/jhoicas/replenishment-api/internal/infrastructure/mail"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/replenishment-api/internal/infrastructure/pdf"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/replenishment-api/internal/interfaces/http"
	"github.com/jhoicas/replenishment-api/pkg/config"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// @title                       Replenishment API
// @version                     1.0
// @description                 Reposición de inventario: libro de stock, solicitudes y órdenes de compra, recepciones y traslados.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Almacén transaccional
	var txRunner repository.TxRunner
	switch cfg.App.StoreDriver {
	case "memory":
		txRunner = memory.New()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, "up"); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	// Redis: caché del catálogo y lock de las corridas por intervalo (opcional)
	var (
		catalogCache catalog.Cache = catalog.NopCache{}
		schedLock    scheduler.Lock
	)
	if cfg.Redis.URL != "" {
		redisClient, err := infracache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		catalogCache = infracache.NewRedisCache(redisClient, time.Duration(cfg.Redis.CatalogCacheTTL)*time.Second, log)
		schedLock, err = scheduler.NewRedisLock(scheduler.GoRedisStore{Client: redisClient}, "replenishment:scheduler:tick", cfg.Scheduler.RunTimeout())
		if err != nil {
			log.Fatal().Err(err).Msg("lock del programador")
		}
	}

	// Notificaciones: SMTP si hay host configurado; si no, solo log
	var sender notify.Sender
	if cfg.SMTP.Host != "" {
		sender = infrmail.NewSMTPSender(cfg.SMTP)
	}
	dispatcher := notify.NewDispatcher(sender, map[entity.Role][]string{
		entity.RoleManager: cfg.Notify.ManagerEmails,
		entity.RoleAdmin:   cfg.Notify.AdminEmails,
	}, log)

	bus := events.NewBus(log)
	gate := authz.NewGate(nil)
	stockLedger := ledger.New(entity.StockDefaults{MinStock: cfg.Stock.DefaultMin, MaxStock: cfg.Stock.DefaultMax})

	authUC := auth.NewAuthUseCase(txRunner, gate, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewCatalogUseCase(txRunner, gate, catalogCache)
	stockUC := ledger.NewStockUseCase(txRunner, gate, stockLedger)
	prUC := purchasing.NewPurchaseRequestUseCase(txRunner, gate, catalogUC, log)
	poUC := purchasing.NewPurchaseOrderUseCase(txRunner, gate, catalogUC, dispatcher, infrapdf.NewMarotoPDFGenerator(cfg.App.Name), log)
	grnUC := receiving.NewGoodsReceiptUseCase(txRunner, gate, stockLedger, dispatcher, bus, log)
	transferUC := transfer.NewTransferUseCase(txRunner, gate, stockLedger, bus, log)

	// Programador automático + métricas
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc, err := scheduler.NewService(scheduler.ServiceParams{
		Logger:       log,
		Planner:      prUC,
		Notifier:     dispatcher,
		Lock:         schedLock,
		Metrics:      scheduler.NewMetrics(registry),
		Interval:     cfg.Scheduler.Interval(),
		RecheckDelay: cfg.Scheduler.RecheckDelay(),
		RunTimeout:   cfg.Scheduler.RunTimeout(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("programador")
	}
	bus.Subscribe(events.GoodsReceiptApproved, svc.HandleGoodsReceiptApproved)
	if cfg.Scheduler.Enabled {
		svc.Start()
	}

	if cfg.Bootstrap.AdminEmail != "" {
		if _, err := authUC.Bootstrap(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Replenishment API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CatalogUC:       catalogUC,
		StockUC:         stockUC,
		PurchaseReqUC:   prUC,
		PurchaseOrderUC: poUC,
		GoodsReceiptUC:  grnUC,
		TransferUC:      transferUC,
		SchedulerUC:     scheduler.NewSchedulerUseCase(svc, gate),
		Metrics:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		JWTSecret:       cfg.JWT.Secret,
		ServiceName:     cfg.App.Name,
		Log:             log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor")
		}
		// Close cancela las re-evaluaciones en espera; las que lleguen después se ignoran.
		svc.Close()
		bus.Close()
		dispatcher.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	log.Info().Msg("aplicación detenida")
}
