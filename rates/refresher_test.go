package rates

import (
	"context"
	"errors"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/metrics"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type mock struct {
	count int32
}

func (m *mock) Current() domain.Rates {
	return DefaultRates()
}

func (m *mock) Refresh(_ context.Context) (domain.Rates, Outcome) {
	atomic.AddInt32(&m.count, 1)
	return DefaultRates(), Outcome{Status: FellBack, Err: errors.New("offline")}
}

// syncBuffer a concurrency-safe log sink
type syncBuffer struct {
	lock sync.Mutex
	b    strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.b.String()
}

func TestRefresher_RefreshesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background()) // must cancel to stop go-routine started by this test
	defer cancel()

	var provider mock
	r := NewRefresher(1*time.Minute, log.NewNopLogger(), &provider)
	go r.Run(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&provider.count) == 1
	}, time.Second, time.Millisecond)
}

func TestRefresher_PeriodicRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var provider mock
	var buf syncBuffer
	r := NewRefresher(1*time.Millisecond, log.NewLogfmtLogger(&buf), &provider)
	go r.Run(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&provider.count) >= 3
	}, time.Second, time.Millisecond)
	assert.Contains(t, buf.String(), "periodic refresh failed")
}

func TestRefresher_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var provider mock
	r := NewRefresher(1*time.Hour, log.NewNopLogger(), &provider)
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestLoggingProvider_Refresh(t *testing.T) {
	var buf syncBuffer
	source := &scripted{responses: []response{{err: errors.New("offline")}}}
	p := NewLoggingProvider(log.NewLogfmtLogger(&buf), NewProvider("KRW", source, metrics.New(nil)))

	_, outcome := p.Refresh(context.Background())

	assert.Equal(t, FellBack, outcome.Status)
	assert.Contains(t, buf.String(), "method=refresh outcome=fell_back usd=0.00075")
	assert.Contains(t, buf.String(), "offline")
	assert.Equal(t, DefaultRates(), p.Current())
}
