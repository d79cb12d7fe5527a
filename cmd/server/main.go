package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restopos/internal/config"
	"restopos/internal/handler"
	"restopos/internal/infra"
	"restopos/internal/middleware"
	"restopos/internal/model"
	"restopos/internal/notify"
	"restopos/internal/repository"
	"restopos/internal/router"
	"restopos/internal/service"
	"restopos/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, db, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open ledger store")
	}

	libro, err := service.NuevoLibro(ctx, repo, model.Ajustes{NombreRestaurante: cfg.RestaurantName, Mesas: cfg.Tables})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load ledger")
	}

	// Live events: always the in-process hub; Redis pub/sub on top when configured.
	hub := notify.NewHub(0)
	var sink notify.Sink = hub

	var (
		rdb        *redis.Client
		dispatcher *worker.Dispatcher
		publisher  *notify.RedisPublisher
	)
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		publisher = notify.NewRedisPublisher(rdb, cfg.RedisChannel)
		sink = notify.Multi{hub, publisher}

		// Close-of-day report pipeline. Handlers are wired here (composition
		// root) so the pool has the mailer and the reports path.
		dispatcher = worker.NewDispatcher(rdb)
		mailer := infra.NewMailer(cfg, nil)
		if cfg.CierreEmail != "" && !mailer.Configurado() {
			log.Warn().Msg("CIERRE_EMAIL set but SMTP_HOST is empty; report emails will dead-letter")
		}
		pool := worker.NewPool(rdb, map[string]worker.Handler{
			worker.QueueCierre: worker.NewCierreWorker(dispatcher, cfg.ReportsPath, cfg.CierreEmail),
			worker.QueueEmail:  worker.NewEmailWorker(mailer),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	} else {
		log.Info().Msg("REDIS_URL empty: event mirroring and report jobs disabled")
	}

	loginLimiter := middleware.NewLoginLimiter()
	apiLimiter := middleware.NewIPLimiter(50*time.Millisecond, 100) // ~1200 req/min per IP
	go router.PurgeLimiters(ctx.Done(), loginLimiter, apiLimiter)

	r := router.New(cfg, router.Deps{
		Auth:         service.NewAuthService(cfg),
		Ajustes:      service.NewAjustesService(libro),
		Catalogo:     service.NewCatalogoService(libro),
		Pedidos:      service.NewPedidoService(libro, sink),
		Cobro:        service.NewCobroService(libro, sink),
		Caja:         service.NewCajaService(libro, dispatcher),
		Eventos:      handler.NewEventosHandler(hub),
		Health:       handler.HealthDeps{Store: cfg.StoreDriver, DB: db, Redis: rdb, Hub: hub},
		LoginLimiter: loginLimiter,
		APILimiter:   apiLimiter,
	})

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: /api/events and /api/ws are long-lived streams.
		IdleTimeout: 60 * time.Second,
		// Request contexts derive from ctx so open streams end on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	srv.RegisterOnShutdown(cancel)

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("store", cfg.StoreDriver).Msgf("RestoPOS listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if publisher != nil {
		publisher.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

// openStore picks the snapshot backend. db is non-nil only for postgres.
func openStore(cfg *config.Config) (repository.SnapshotRepository, *gorm.DB, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormSnapshotRepository(db), db, nil
	case "memory":
		log.Warn().Msg("STORE_DRIVER=memory: nothing survives a restart")
		return repository.NewMemorySnapshotRepository(), nil, nil
	case "file", "":
		return repository.NewFileSnapshotRepository(cfg.DataFile), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
