package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/backoffice/libs/config"
	"github.com/md-rashed-zaman/backoffice/libs/httpx"
	"github.com/md-rashed-zaman/backoffice/libs/kafkax"
	otelx "github.com/md-rashed-zaman/backoffice/libs/otel"
	"github.com/md-rashed-zaman/backoffice/libs/runtime"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/catalog"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/changes"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/forms"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/handlers"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/session"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type appConfig struct {
	Service        string
	Port           string
	LogLevel       string
	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	ChangesTopic string

	RateLimitPerMinute int
	BodyLimit          int64
	RequestTimeout     time.Duration
}

func loadConfig() (appConfig, error) {
	port, err := config.Port("PORT", "8080")
	if err != nil {
		return appConfig{}, err
	}
	backendURL, err := config.RequiredString("BACKEND_BASE_URL")
	if err != nil {
		return appConfig{}, err
	}
	return appConfig{
		Service:            config.String("SERVICE_NAME", "backoffice-service"),
		Port:               port,
		LogLevel:           config.String("LOG_LEVEL", "info"),
		BackendURL:         backendURL,
		BackendTimeout:     config.Seconds("BACKEND_TIMEOUT_SECONDS", 15*time.Second),
		SessionSecret:      config.String("SESSION_SECRET", ""),
		SessionTTL:         config.Minutes("SESSION_TTL_MINUTES", 8*time.Hour),
		CookieSecure:       config.Bool("SESSION_COOKIE_SECURE", false),
		RedisAddr:          config.String("REDIS_ADDR", ""),
		RedisPassword:      config.String("REDIS_PASSWORD", ""),
		RedisDB:            config.Int("REDIS_DB", 0),
		KafkaBrokers:       config.List("KAFKA_BROKERS"),
		ChangesTopic:       config.String("CHANGE_EVENTS_TOPIC", changes.DefaultTopic),
		RateLimitPerMinute: config.Int("RATE_LIMIT_PER_MINUTE", 120),
		BodyLimit:          int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20)),
		RequestTimeout:     config.Seconds("REQUEST_TIMEOUT_SECONDS", 30*time.Second),
	}, nil
}

func main() {
	config.LoadDotEnv(nil)
	cfg, err := loadConfig()
	if err != nil {
		runtime.NewLogger("backoffice-service", "info").Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := runtime.NewLogger(cfg.Service, cfg.LogLevel)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	api, err := backendapi.New(backendapi.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	if err != nil {
		logger.Error("backend client setup failed", "err", err)
		os.Exit(1)
	}
	checks := []runtime.ReadyCheck{{Name: "backend", Check: api.Ping}}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString() + uuid.NewString()
		logger.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive restarts")
	}

	var (
		store session.Store
		rdb   *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		store = session.NewRedisStore(rdb, cfg.SessionTTL, config.String("SESSION_PREFIX", "backoffice:session"))
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	sessions, err := session.NewManager(store, session.Config{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}, logger)
	if err != nil {
		logger.Error("session manager setup failed", "err", err)
		os.Exit(1)
	}

	var rateLimitMW httpx.Middleware
	if rdb != nil {
		rl := httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "backoffice:rl"), sessions.RateKey)
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("sessions and rate limiting backed by redis", "redis_addr", cfg.RedisAddr, "per_minute", cfg.RateLimitPerMinute)
	} else {
		rateLimitMW = httpx.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, sessions.RateKey).Middleware()
		logger.Info("sessions and rate limiting in memory", "per_minute", cfg.RateLimitPerMinute)
	}

	var publisher changes.Publisher = changes.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = changes.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ChangesTopic)
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Optional: true, Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
		logger.Info("change events enabled", "topic", cfg.ChangesTopic)
	}
	defer func() { _ = publisher.Close() }()

	categoriesAPI := backendapi.Categories(api)
	cat := catalog.New(categoriesAPI, logger)
	if err := cat.Refresh(ctx); err != nil {
		logger.Warn("initial category catalog load failed; will retry on first services page", "err", err)
	}

	publish := changes.Hook(publisher, logger, 5*time.Second)

	h, err := handlers.New(handlers.Deps{
		Sessions:   sessions,
		Customers:  editor.New[model.Customer](forms.Customers{}, backendapi.Customers(api), editor.Options{OnChange: publish}),
		Services:   editor.New[model.Service](forms.Services{Categories: cat}, backendapi.Services(api), editor.Options{OnChange: publish}),
		Categories: editor.New[model.ServiceCategory](forms.Categories{}, categoriesAPI, editor.Options{OnChange: cat.OnChange(publish)}),
		Catalog:    cat,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("handler setup failed", "err", err)
		os.Exit(1)
	}

	mux := runtime.NewBaseMuxWithReady(checks...)
	h.Register(mux)

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithNoStore,
		httpx.WithBodyLimit(cfg.BodyLimit),
		httpx.WithTimeout(cfg.RequestTimeout),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "backoffice")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
