package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Polls.Inc()
	m.Conversions.WithLabelValues("USD").Inc()
	m.Skips.WithLabelValues(SkipUnchanged).Add(2)
	m.Rates.WithLabelValues("USD").Set(0.00075)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Polls))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Skips.WithLabelValues(SkipUnchanged)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["clipconvert_polls_total"])
	assert.True(t, names["clipconvert_conversions_total"])
	assert.True(t, names["clipconvert_rate"])
}

func TestNew_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).ResultsDropped.Inc()
		New(nil).ResultsDropped.Inc()
	})
}
