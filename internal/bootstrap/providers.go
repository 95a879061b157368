package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"exchange-desk/internal/application"
	"exchange-desk/internal/config"
	infraconfig "exchange-desk/internal/infrastructure/config"
	"exchange-desk/internal/infrastructure/exchangeapi"
	httpserver "exchange-desk/internal/infrastructure/http"
	"exchange-desk/internal/infrastructure/httpx"
	"exchange-desk/internal/infrastructure/logx"
	"exchange-desk/internal/infrastructure/metrics"
	redisstore "exchange-desk/internal/infrastructure/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnknownProvider = errors.New("unknown PROVIDER")

// Upstream bundles the exchange API implementation with its readiness check.
type Upstream struct {
	API  application.ExchangeAPI
	Ping func(ctx context.Context) error
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideMetrics(cfg config.Config) *metrics.Metrics {
	if !cfg.MetricsEnabled {
		return nil
	}
	return metrics.New()
}

// ProvideExchangeAPI returns the HTTP client for PROVIDER=http and the seeded
// in-memory fake for PROVIDER=fake. m may be nil.
func ProvideExchangeAPI(cfg config.Config, m *metrics.Metrics) (Upstream, error) {
	switch cfg.Provider {
	case "http":
		h := httpx.New(cfg.ExchangeAPIBase, cfg.RequestTimeout)
		if m != nil {
			h.Observer = m
		}
		c := exchangeapi.New(h)
		return Upstream{API: c, Ping: c.Ping}, nil
	case "fake", "":
		f := exchangeapi.NewDemoFake()
		return Upstream{API: f, Ping: f.Ping}, nil
	default:
		return Upstream{}, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// ProvideGenerations builds the store behind X-Session-ID sequencing.
func ProvideGenerations(cfg config.Config) (application.GenerationStore, func(), error) {
	switch cfg.GenerationsBackend {
	case "memory", "":
		return application.NewMemoryGenerations(cfg.GenerationTTL), func() {}, nil
	case "none":
		return application.NoopGenerations{}, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(client, cfg.GenerationTTL), func() { _ = client.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown GENERATIONS_BACKEND %q", cfg.GenerationsBackend)
	}
}

func ProvideResolver(cfg config.Config, up Upstream) *application.Resolver {
	var opts []application.Option
	if cfg.DirectionStatus != "" {
		opts = append(opts, application.WithDirectionStatus(cfg.DirectionStatus))
	}
	return application.NewResolverFromAPI(up.API, opts...)
}

// WaitForUpstream polls ping with exponential backoff until it succeeds or
// maxElapsed passes. A zero maxElapsed skips the wait.
func WaitForUpstream(ctx context.Context, ping func(ctx context.Context) error, maxElapsed time.Duration, log *zap.Logger) error {
	if ping == nil || maxElapsed <= 0 {
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = maxElapsed

	attempt := 0
	op := func() error {
		attempt++
		err := ping(ctx)
		if err != nil && log != nil {
			log.Warn("upstream not ready", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

// ProvideHTTPServer wires the BFF handlers into an http.Server on cfg.Port.
func ProvideHTTPServer(cfg config.Config, resolver *application.Resolver, up Upstream, gens application.GenerationStore, m *metrics.Metrics) *http.Server {
	srv := httpserver.NewServer(resolver, up.API, application.NewSequencer(gens))
	srv.SetReadyCheck(up.Ping)
	if m != nil {
		srv.SetMetrics(m)
	}
	port := cfg.Port
	if port == "" {
		port = infraconfig.DefaultHTTPPort
	}
	return &http.Server{
		Addr:         ":" + port,
		Handler:      httpserver.NewRouter(srv),
		ReadTimeout:  infraconfig.DefaultReadTimeout,
		WriteTimeout: infraconfig.DefaultWriteTimeout,
	}
}

// App is the assembled API process.
type App struct {
	Server   *http.Server
	Upstream Upstream
	Log      *zap.Logger
}

// BuildApp assembles every provider. The returned cleanup releases the
// generation store connection.
func BuildApp(cfg config.Config) (*App, func(), error) {
	log := ProvideLogger()
	m := ProvideMetrics(cfg)
	up, err := ProvideExchangeAPI(cfg, m)
	if err != nil {
		return nil, func() {}, err
	}
	gens, cleanup, err := ProvideGenerations(cfg)
	if err != nil {
		return nil, cleanup, err
	}
	resolver := ProvideResolver(cfg, up)
	server := ProvideHTTPServer(cfg, resolver, up, gens, m)
	return &App{Server: server, Upstream: up, Log: log}, cleanup, nil
}
