package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRequest("/prompts", "GET", 200, 20*time.Millisecond)
	c.ObserveRequest("/prompts", "GET", 200, 30*time.Millisecond)
	c.ObserveRequest("/camera", "POST", 400, time.Millisecond)
	c.ObserveRequest("", "GET", 404, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("/prompts", "GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("/camera", "POST", "400")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("unmatched", "GET", "404")))
	require.Equal(t, 3, testutil.CollectAndCount(c.duration))
}

func TestObserveRequest_NilCollector(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() { c.ObserveRequest("/caption", "GET", 200, time.Second) })
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	require.Panics(t, func() { NewCollector(reg) })
}
