// Command kwollectd runs the Kwollect input standalone: it plays the part
// of the pipeline host, firing cycle events on a timer, scheduling the
// triggered polls and logging the points each cycle emits. A small HTTP
// server exposes liveness and the last cycle's outcome.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mutualEvg/kwollect-input/config"
	"github.com/mutualEvg/kwollect-input/internal/fetch"
	"github.com/mutualEvg/kwollect-input/internal/handlers"
	"github.com/mutualEvg/kwollect-input/internal/pipeline"
	"github.com/mutualEvg/kwollect-input/internal/retry"
	"github.com/mutualEvg/kwollect-input/internal/source"
)

var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

func printBuildInfo() {
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

func setupLogging() {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func main() {
	printBuildInfo()
	setupLogging()

	cfg := config.Load()

	client := fetch.NewClient(cfg.Login, cfg.Password, cfg.FetchTimeout)

	kinds := make(map[string]pipeline.ValueKind, len(cfg.UintMetrics))
	for _, name := range cfg.UintMetrics {
		kinds[name] = pipeline.KindU64
	}

	registry := pipeline.NewRegistry()
	events := pipeline.NewSubject()
	trigger := pipeline.NewPollTrigger()

	coordinator := source.New(source.Config{
		APIBase:     cfg.APIBase,
		Site:        cfg.Site,
		Nodes:       cfg.Nodes,
		Metrics:     cfg.Metrics,
		Kinds:       kinds,
		TriggerWait: cfg.TriggerWait,
	}, client, trigger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.SkipProbe {
		probeAPI(ctx, client, cfg)
	}

	if err := coordinator.Start(registry, events); err != nil {
		log.Fatal().Err(err).Msg("Failed to start Kwollect input")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runCycleEvents(ctx, events, cfg.CycleInterval)
	})

	g.Go(func() error {
		return runPollLoop(ctx, coordinator, trigger)
	})

	g.Go(func() error {
		return runStatusServer(ctx, cfg, coordinator)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Runner stopped with error")
	}
	log.Info().Msg("Runner stopped")
}

// probeAPI checks API reachability and credentials once at startup so a
// misconfiguration is visible before the first real cycle. Failures only
// warn: the runner still starts and later cycles may succeed.
func probeAPI(ctx context.Context, client *fetch.Client, cfg *config.Config) {
	url := fmt.Sprintf("%s/sites/%s", cfg.APIBase, cfg.Site)
	err := retry.Do(ctx, cfg.RetryConfig, func() error {
		_, err := client.Fetch(ctx, url)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("API probe failed, check credentials and site")
		return
	}
	log.Info().Str("site", cfg.Site).Msg("API probe succeeded")
}

// runCycleEvents stands in for the downstream pipeline consumer, announcing
// a finished measurement cycle at a fixed interval.
func runCycleEvents(ctx context.Context, events *pipeline.Subject, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events.Notify(pipeline.CycleEvent{
				CompletedAt: time.Now(),
				Consumer:    "cycle-timer",
			})
		}
	}
}

// runPollLoop consumes trigger requests and runs one poll per request,
// logging the emitted points.
func runPollLoop(ctx context.Context, coordinator *source.Coordinator, trigger *pipeline.PollTrigger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger.Requests():
			var acc pipeline.Accumulator
			err := coordinator.Poll(ctx, &acc, time.Now())
			trigger.Ack()
			if err != nil {
				log.Error().Err(err).Msg("Poll cycle failed")
				continue
			}
			for _, point := range acc.Drain() {
				log.Debug().
					Str("metric", point.Metric.Name).
					Str("resource", point.Resource.ID).
					Str("consumer", point.Consumer.ID).
					Float64("value", point.Value.AsF64()).
					Msg("Point emitted")
			}
		}
	}
}

// runStatusServer serves /healthz and /status until the context ends.
func runStatusServer(ctx context.Context, cfg *config.Config, coordinator *source.Coordinator) error {
	r := chi.NewRouter()
	r.Get("/healthz", handlers.HealthHandler())
	r.Get("/status", handlers.StatusHandler(cfg.Site, cfg.Nodes, cfg.Metrics, coordinator))

	srv := &http.Server{Addr: cfg.Address, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Status server shutdown failed")
		}
	}()

	log.Info().Str("address", cfg.Address).Msg("Status server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
