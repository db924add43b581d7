// Package app assembles the tercoach server from its parts: telemetry,
// storage, the coaching services, and the HTTP surface. The cmd binary
// builds providers from configuration and hands them in; tests hand in
// doubles the same way.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/truthempowered/tercoach/internal/api"
	"github.com/truthempowered/tercoach/internal/assistant"
	"github.com/truthempowered/tercoach/internal/catalog"
	"github.com/truthempowered/tercoach/internal/config"
	"github.com/truthempowered/tercoach/internal/health"
	"github.com/truthempowered/tercoach/internal/identity"
	"github.com/truthempowered/tercoach/internal/mediator"
	"github.com/truthempowered/tercoach/internal/observe"
	"github.com/truthempowered/tercoach/internal/progress"
	"github.com/truthempowered/tercoach/internal/progress/postgres"
	"github.com/truthempowered/tercoach/internal/resilience"
	"github.com/truthempowered/tercoach/internal/translator"
	"github.com/truthempowered/tercoach/pkg/provider/llm"
	"github.com/truthempowered/tercoach/pkg/provider/stt"
	"github.com/truthempowered/tercoach/pkg/provider/tts"
)

// shutdownTimeout bounds graceful HTTP shutdown once Run's context is
// cancelled.
const shutdownTimeout = 15 * time.Second

// Providers are the external AI collaborators. Any of them may be nil; the
// owning service then serves its built-in guidance.
type Providers struct {
	LLM llm.Provider
	STT stt.Provider
	TTS tts.Provider
}

// Option adjusts app assembly, mainly for tests.
type Option func(*options)

type options struct {
	remote progress.RemoteStore
}

// WithRemoteStore overrides the progress remote store. When set, the
// configured Postgres DSN is ignored.
func WithRemoteStore(rs progress.RemoteStore) Option {
	return func(o *options) { o.remote = rs }
}

type namedCloser struct {
	name  string
	close func(context.Context) error
}

// App is the assembled server. Create with [New], drive with [Run], and
// release resources with [Shutdown].
type App struct {
	cfg       *config.Config
	srv       *http.Server
	api       *api.Server
	assistant *assistant.Service

	closers   []namedCloser
	closeOnce sync.Once
	closeErr  error
}

// New wires the full server. The returned App owns the telemetry pipeline
// and the optional Postgres pool; Shutdown releases both.
func New(ctx context.Context, cfg *config.Config, providers Providers, opts ...Option) (_ *App, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg}
	defer func() {
		if err != nil {
			_ = a.Shutdown(context.Background())
		}
	}()

	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "tercoach"})
	if err != nil {
		return nil, fmt.Errorf("app: init telemetry: %w", err)
	}
	a.closers = append(a.closers, namedCloser{"telemetry", otelShutdown})

	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return nil, fmt.Errorf("app: create metrics: %w", err)
	}

	cat := catalog.New()
	ids := identity.NewStore(cfg.Progress.DeviceIDFile())
	cache := progress.NewFileCache(cfg.Progress.CacheFile())

	var checkers []health.Checker
	remote := o.remote
	if remote == nil && cfg.Progress.PostgresDSN != "" {
		store, err := postgres.New(ctx, cfg.Progress.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("app: connect progress store: %w", err)
		}
		a.closers = append(a.closers, namedCloser{"postgres", func(context.Context) error {
			store.Close()
			return nil
		}})
		checkers = append(checkers, health.Checker{Name: "database", Check: store.Ping})
		remote = store
	}
	coord := progress.NewCoordinator(cat, cache, remote)

	// Each configured collaborator sits behind its own circuit breaker so a
	// failing backend is bypassed quickly and the services degrade to their
	// built-in guidance instead of waiting out every timeout.
	llmP := providers.LLM
	if llmP != nil {
		llmP = resilience.NewLLMFallback(llmP, providerName(cfg.Providers.LLM, "llm"), resilience.FallbackConfig{})
	}
	sttP := providers.STT
	if sttP != nil {
		sttP = resilience.NewSTTFallback(sttP, providerName(cfg.Providers.STT, "stt"), resilience.FallbackConfig{})
	}
	ttsP := providers.TTS
	if ttsP != nil {
		ttsP = resilience.NewTTSFallback(ttsP, providerName(cfg.Providers.TTS, "tts"), resilience.FallbackConfig{})
	}

	a.assistant = assistant.New(cat,
		assistant.WithProvider(llmP),
		assistant.WithMetrics(metrics),
		assistant.WithPersona(cfg.Companion.Name, cfg.Companion.Persona),
	)

	a.api = api.NewServer(api.Config{
		Catalog:        cat,
		Progress:       coord,
		Translator:     translator.New(llmP, translator.WithMetrics(metrics)),
		Mediator:       mediator.New(llmP, mediator.WithMetrics(metrics)),
		Assistant:      a.assistant,
		STT:            sttP,
		TTS:            ttsP,
		Identity:       ids,
		Health:         health.New(checkers...),
		Metrics:        metrics,
		MetricsHandler: promhttp.Handler(),
		PassThreshold:  cfg.Practice.Threshold(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	a.srv = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// providerName labels a collaborator for breaker logs, falling back to the
// kind when no provider is configured by name.
func providerName(entry config.ProviderEntry, kind string) string {
	if entry.Name != "" {
		return kind + "/" + entry.Name
	}
	return kind
}

// Handler exposes the HTTP surface for tests and embedding.
func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

// Addr returns the configured listen address.
func (a *App) Addr() string {
	return a.srv.Addr
}

// ApplyConfig applies the hot-reloadable parts of a config change: the
// companion persona and the assessment pass mark. Provider and storage
// changes require a restart and are ignored here.
func (a *App) ApplyConfig(d config.ConfigDiff, cfg *config.Config) {
	if d.CompanionChanged {
		a.assistant.SetPersona(cfg.Companion.Name, cfg.Companion.Persona)
	}
	if d.PassThresholdChanged {
		a.api.SetPassThreshold(cfg.Practice.Threshold())
	}
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// down gracefully. Shutdown must still be called afterwards to release
// telemetry and storage.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if tlsCfg := a.cfg.Server.TLS; tlsCfg != nil {
			err = a.srv.ListenAndServeTLS(tlsCfg.CertFile, tlsCfg.KeyFile)
		} else {
			err = a.srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown releases telemetry and storage in reverse acquisition order.
// Safe to call more than once.
func (a *App) Shutdown(ctx context.Context) error {
	a.closeOnce.Do(func() {
		var errs []error
		for i := len(a.closers) - 1; i >= 0; i-- {
			c := a.closers[i]
			if err := c.close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("app: close %s: %w", c.name, err))
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
