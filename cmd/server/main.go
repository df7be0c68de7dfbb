package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/artisan_market/internal/catalog"
	"github.com/Skotchmaster/artisan_market/internal/checkout"
	"github.com/Skotchmaster/artisan_market/internal/config"
	"github.com/Skotchmaster/artisan_market/internal/es"
	"github.com/Skotchmaster/artisan_market/internal/httpserver"
	"github.com/Skotchmaster/artisan_market/internal/mykafka"
	"github.com/Skotchmaster/artisan_market/internal/repo"
	"github.com/Skotchmaster/artisan_market/internal/service"
	"github.com/Skotchmaster/artisan_market/pkg/db"
	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/artisan_market/pkg/middleware/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DB.Driver, cfg.DB.URL)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}

	cartRepo := &repo.GormRepo{DB: gdb}
	if err := cartRepo.Migrate(initCtx); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}

	var cat catalog.Catalog
	switch cfg.Catalog.Backend {
	case config.CatalogES:
		esClient, err := es.NewClient(initCtx, es.Config{
			URL:      cfg.ES.URL,
			User:     cfg.ES.User,
			Password: cfg.ES.Password,
		}, logger)
		if err != nil {
			cancel()
			log.Fatalf("es init error: %v", err)
		}
		cat = catalog.NewIndexReader(esClient, cfg.ES.Index)
	default:
		cat = catalog.NewClient(cfg.Catalog.URL)
	}
	cancel()

	var (
		events   service.Publisher
		producer *mykafka.Producer
	)
	if brokers := cfg.Kafka.Brokers(); len(brokers) > 0 {
		producer = mykafka.NewProducer(brokers, logger)
		events = producer
	} else {
		logger.Warn("kafka_disabled")
	}

	sessions := service.NewSessions(service.SessionsConfig{
		Repo:       cartRepo,
		Events:     events,
		CartTopic:  cfg.Kafka.CartTopic,
		OrderTopic: cfg.Kafka.OrderTopic,
		Gateway:    checkout.SimulatedGateway{Delay: cfg.Checkout.Delay},
		Logger:     logger,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Sweep(sweepCtx, cfg.Sessions.SweepInterval, cfg.Sessions.IdleTTL)

	cur := cfg.DisplayCurrency()

	var csrfMW echo.MiddlewareFunc
	if cfg.HTTP.CSRF {
		csrfMW = csrf.Middleware(csrf.Config{Secure: cfg.HTTP.SecureCookies, EnforceSameOrigin: true})
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{
			Svc:      &service.CartService{Sessions: sessions, Catalog: cat},
			Currency: cur,
		},
		CheckoutHandler: &httpserver.CheckoutHTTP{
			Svc:      &service.CheckoutService{Sessions: sessions},
			Currency: cur,
		},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc:      &service.CatalogService{Catalog: cat},
			Currency: cur,
		},
		CurrencyHandler: &httpserver.CurrencyHTTP{},
		Session:         session.NewMiddleware([]byte(cfg.JWTSecret), cfg.HTTP.SecureCookies),
		CSRF:            csrfMW,
		Ready: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	go func() {
		logger.Info("server_start", "addr", addr, "catalog", cfg.Catalog.Backend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("server_shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_error", "error", err)
	}
	stopSweep()
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
}
