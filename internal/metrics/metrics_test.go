package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
	assert.True(t, prometheus.DefaultRegisterer.Unregister(BetsPlaced))
	require.NoError(t, prometheus.DefaultRegisterer.Register(BetsPlaced))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(BetRejections.WithLabelValues("AboveSingleLimit"))
	BetRejections.WithLabelValues("AboveSingleLimit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BetRejections.WithLabelValues("AboveSingleLimit")))
}
