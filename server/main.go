package main

import (
	"context"
	"errors"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go-clipboard-converter/clipboard"
	"go-clipboard-converter/config"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/exchange"
	"go-clipboard-converter/frankfurter"
	"go-clipboard-converter/http"
	"go-clipboard-converter/metrics"
	"go-clipboard-converter/monitor"
	"go-clipboard-converter/rates"
	"go-clipboard-converter/sink"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	nhttp "net/http"
)

func main() {
	bootstrap := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

	cfg, err := config.FromEnv()
	if err != nil {
		bootstrap.Log("msg", "loading config", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "exiting", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	reference := domain.Reference{Code: domain.Currency(cfg.Reference.Code), Suffix: cfg.Reference.Suffix}

	rateSource := frankfurter.NewService(cfg.Rates.URL, cfg.Rates.Timeout)
	rateSource = frankfurter.NewLoggingService(log.With(logger, "component", "frankfurter"), rateSource)

	provider := rates.NewProvider(reference.Code, rateSource, m)
	provider = rates.NewLoggingProvider(log.With(logger, "component", "rates"), provider)

	exchangeService := exchange.NewService(reference)
	exchangeService = exchange.NewLoggingService(level.Debug(log.With(logger, "component", "exchange")), exchangeService)

	go rates.NewRefresher(cfg.Rates.RefreshInterval, log.With(logger, "component", "refresher"), provider).Run(ctx)

	source := clipboard.Source{}
	if !source.Available() {
		level.Warn(logger).Log("msg", "no clipboard utility found, every read will fail")
	}

	mon := monitor.New(
		monitor.Config{PollInterval: cfg.Monitor.PollInterval, ResultBuffer: cfg.Monitor.ResultBuffer},
		source,
		provider,
		exchangeService,
		log.With(logger, "component", "monitor"),
		m,
	)

	sinks := sink.Multi{}
	if !cfg.Monitor.Quiet {
		sinks = append(sinks, sink.NewWriter(os.Stdout))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink := sink.NewKafka(
			sink.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			cfg.Kafka.Timeout,
			log.With(logger, "component", "kafka"),
		)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	hub := http.NewHub(log.With(logger, "component", "websocket"))
	var server *nhttp.Server
	if cfg.HTTP.Enabled {
		sinks = append(sinks, hub)
		server = &nhttp.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           http.NewServer(exchangeService, provider, reference, hub, registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			level.Info(logger).Log("msg", "http listening", "addr", cfg.HTTP.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
				level.Error(logger).Log("msg", "http server failed", "err", err)
				stop()
			}
		}()
	}

	dispatched := make(chan struct{})
	go func() {
		monitor.Dispatch(mon.Results(), sinks, log.With(logger, "component", "dispatch"))
		close(dispatched)
	}()

	go mon.Run(ctx)

	<-ctx.Done()
	level.Info(logger).Log("msg", "shutting down")

	select {
	case <-mon.Done():
	case <-time.After(mon.PollInterval() + time.Second):
		return errors.New("monitor did not stop in time")
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			level.Warn(logger).Log("msg", "http shutdown", "err", err)
		}
		hub.Close()
	}

	select {
	case <-dispatched:
	case <-time.After(time.Second):
		level.Warn(logger).Log("msg", "result sinks still busy at shutdown")
	}
	return nil
}

func newLogger(cfg config.Log) log.Logger {
	w := log.NewSyncWriter(os.Stderr)

	var logger log.Logger
	if cfg.Format == "json" {
		logger = log.NewJSONLogger(w)
	} else {
		logger = log.NewLogfmtLogger(w)
	}

	var allow level.Option
	switch strings.ToLower(cfg.Level) {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowInfo()
	}
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}
