package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensLiveGauge_ReadsOnEveryScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	live := 0
	g := NewTokensLiveGauge(reg, func() int { return live })

	assert.Equal(t, float64(0), testutil.ToFloat64(g))

	live = 3
	assert.Equal(t, float64(3), testutil.ToFloat64(g))

	n, err := testutil.GatherAndCount(reg, "auth_system_tokens_live")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTokensLiveGauge_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewTokensLiveGauge(reg, func() int { return 0 })
	assert.Panics(t, func() { NewTokensLiveGauge(reg, func() int { return 0 }) })
}
