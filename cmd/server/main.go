package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusconnect/internal/events"
	identityhandler "campusconnect/internal/identity/handler"
	identityservice "campusconnect/internal/identity/service"
	identitystore "campusconnect/internal/identity/store"
	"campusconnect/internal/leaderboard"
	"campusconnect/internal/platform/config"
	"campusconnect/internal/platform/httpserver"
	"campusconnect/internal/platform/logger"
	"campusconnect/internal/platform/middleware"
	"campusconnect/internal/platform/postgres"
	platformredis "campusconnect/internal/platform/redis"
	"campusconnect/internal/platform/token"
	noticehandler "campusconnect/internal/notice/handler"
	noticeservice "campusconnect/internal/notice/service"
	noticestore "campusconnect/internal/notice/store"
	registrationhandler "campusconnect/internal/registration/handler"
	registrationmetrics "campusconnect/internal/registration/metrics"
	registrationservice "campusconnect/internal/registration/service"
	registrationstore "campusconnect/internal/registration/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	var (
		users   identitystore.Store
		notices noticestore.Store
		ledger  registrationstore.Store
	)
	if db != nil {
		users = identitystore.NewPostgres(db)
		notices = noticestore.NewPostgres(db)
		ledger = registrationstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		users = identitystore.NewMemory()
		notices = noticestore.NewMemory()
		ledger = registrationstore.NewMemory()
		log.Warn("no postgres DSN configured, using in-memory stores")
	}

	cache, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if cache == nil {
		log.Warn("no redis URL configured, leaderboard cache disabled")
	}

	publisher, err := events.NewPublisher(cfg.Kafka, log)
	if err != nil {
		log.Error("kafka publisher setup failed", "error", err)
		os.Exit(1)
	}
	if publisher == nil {
		log.Warn("no kafka brokers configured, registration events disabled")
	}

	tokens := token.NewManager(cfg.JWT.SigningKey, cfg.JWT.TTL)
	regMetrics := registrationmetrics.New()

	identitySvc := identityservice.New(users, tokens, identityservice.WithLogger(log))
	noticeSvc := noticeservice.New(notices, identitySvc, noticeservice.WithLogger(log))

	registrationOpts := []registrationservice.Option{
		registrationservice.WithLogger(log),
		registrationservice.WithMetrics(regMetrics),
	}
	if publisher != nil {
		registrationOpts = append(registrationOpts, registrationservice.WithEventPublisher(publisher))
	}
	registrationSvc := registrationservice.New(ledger, users, notices, registrationOpts...)

	board := leaderboard.New(ledger, users,
		leaderboard.WithLogger(log),
		leaderboard.WithMetrics(regMetrics),
		leaderboard.WithCache(cache, cfg.Redis.CacheTTL),
	)

	identityH := identityhandler.New(identitySvc, log)
	noticeH := noticehandler.New(noticeSvc, log)
	registrationH := registrationhandler.New(registrationSvc, board, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	identityH.Register(r)
	noticeH.Register(r)
	registrationH.Register(r)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.RequireAuth(tokens, log))
		identityH.RegisterAuthenticated(auth)
		registrationH.RegisterAuthenticated(auth)

		auth.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(log))
			noticeH.RegisterAdmin(admin)
		})
	})

	srv := httpserver.New(cfg.Server.Addr, r)

	log.Info("starting campusconnect", "addr", cfg.Server.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	publisher.Close()
	if cache != nil {
		_ = cache.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
