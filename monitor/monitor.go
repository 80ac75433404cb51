package monitor

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"go-clipboard-converter/detect"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/exchange"
	"go-clipboard-converter/metrics"
	"sync/atomic"
	"time"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultResultBuffer = 16
)

// TextSource the text being watched, e.g. the clipboard
type TextSource interface {
	Read() (string, error)
}

// RateReader gives the rate table in effect, e.g. rates.Provider
type RateReader interface {
	Current() domain.Rates
}

// Status of a Monitor
type Status int32

const (
	Idle Status = iota
	Polling
	Stopping
	Stopped
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// Config tunes a Monitor. Zero values select the defaults.
type Config struct {
	PollInterval time.Duration
	ResultBuffer int
}

// Monitor polls a TextSource and converts every new amount it sees.
//
// Results are queued on a bounded channel. When the queue is full the oldest queued result is
// dropped so that polling never waits on the consumer.
type Monitor struct {
	source   TextSource
	rates    RateReader
	exchange exchange.Service

	interval time.Duration
	results  chan domain.ConversionResult

	// state is only touched by the polling goroutine
	state  State
	status atomic.Int32
	done   chan struct{}

	logger  log.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New constructs an idle Monitor
func New(cfg Config, source TextSource, rates RateReader, s exchange.Service, logger log.Logger, m *metrics.Metrics) *Monitor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ResultBuffer <= 0 {
		cfg.ResultBuffer = DefaultResultBuffer
	}
	return &Monitor{
		source:   source,
		rates:    rates,
		exchange: s,
		interval: cfg.PollInterval,
		results:  make(chan domain.ConversionResult, cfg.ResultBuffer),
		done:     make(chan struct{}),
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Results the queue of converted amounts. It is closed once the Monitor has stopped.
func (m *Monitor) Results() <-chan domain.ConversionResult {
	return m.results
}

// Done is closed once the Monitor has stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Status the current lifecycle status
func (m *Monitor) Status() Status {
	return Status(m.status.Load())
}

// PollInterval the time between two polls
func (m *Monitor) PollInterval() time.Duration {
	return m.interval
}

// Run polls until ctx is done. The cycle in flight when ctx is cancelled completes before Run returns.
// A Monitor runs at most once; later calls return immediately.
func (m *Monitor) Run(ctx context.Context) {
	if !m.status.CompareAndSwap(int32(Idle), int32(Polling)) {
		return
	}
	m.logger.Log("msg", "monitoring started", "interval", m.interval)

	// Stopping covers the cycle still in flight when ctx is cancelled
	stopping := context.AfterFunc(ctx, func() {
		m.status.CompareAndSwap(int32(Polling), int32(Stopping))
	})
	defer stopping()

	for ctx.Err() == nil {
		m.cycle()
		select {
		case <-time.After(m.interval):
		case <-ctx.Done():
		}
	}

	m.status.CompareAndSwap(int32(Polling), int32(Stopping))
	close(m.results)
	m.status.Store(int32(Stopped))
	close(m.done)
	m.logger.Log("msg", "monitoring stopped")
}

// cycle runs one poll. Failures never escape it.
func (m *Monitor) cycle() {
	defer func() {
		if r := recover(); r != nil {
			m.metrics.Failures.WithLabelValues(metrics.FailureUnexpected).Inc()
			level.Error(m.logger).Log("msg", "poll cycle failed", "panic", fmt.Sprint(r))
		}
	}()

	m.metrics.Polls.Inc()
	text, err := m.source.Read()
	if err != nil {
		m.metrics.Failures.WithLabelValues(metrics.FailureSourceRead).Inc()
		level.Error(m.logger).Log("msg", "reading source failed", "err", err)
		return
	}
	if !m.state.HasChanged(text) {
		m.metrics.Skips.WithLabelValues(metrics.SkipUnchanged).Inc()
		return
	}
	defer m.state.Commit(text)

	result, err := m.Process(text, m.now())
	switch {
	case errors.Is(err, detect.ErrNoAmount):
		m.metrics.Skips.WithLabelValues(metrics.SkipNoAmount).Inc()
		level.Debug(m.logger).Log("msg", "no amount detected", "reason", err)
	case err != nil:
		m.metrics.Failures.WithLabelValues(metrics.FailureUnexpected).Inc()
		level.Error(m.logger).Log("msg", "conversion failed", "err", err)
	default:
		m.metrics.Conversions.WithLabelValues(string(result.Amount.Currency)).Inc()
		level.Info(m.logger).Log(
			"msg", "converted",
			"original", result.OriginalText,
			"converted", result.ConvertedText,
			"id", result.ID,
		)
		m.emit(result)
	}
}

// Process runs one pipeline pass over text with the rates currently in effect.
func (m *Monitor) Process(text string, observedAt time.Time) (domain.ConversionResult, error) {
	result, err := exchange.ConvertText(m.exchange, text, m.rates.Current())
	if err != nil {
		return domain.ConversionResult{}, err
	}
	result.ID = uuid.New()
	result.ObservedAt = observedAt
	return result, nil
}

// emit queues r, dropping the oldest queued result while the queue is full
func (m *Monitor) emit(r domain.ConversionResult) {
	for {
		select {
		case m.results <- r:
			return
		default:
		}
		select {
		case old := <-m.results:
			m.metrics.ResultsDropped.Inc()
			level.Warn(m.logger).Log("msg", "result queue full, dropping oldest", "dropped", old.ID)
		default:
		}
	}
}
