package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsecurity/go-cs-lib/cstest"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input       MetricsLevelConfig
		want        TailerMetricsLevel
		expectedErr string
	}{
		{input: "", want: TailerMetricsLevelFull},
		{input: "none", want: TailerMetricsLevelNone},
		{input: "aggregated", want: TailerMetricsLevelAggregated},
		{input: "full", want: TailerMetricsLevelFull},
		{input: "verbose", expectedErr: "invalid metrics level: verbose"},
	}

	for _, tc := range tests {
		t.Run(string(tc.input), func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			cstest.RequireErrorContains(t, err, tc.expectedErr)

			if tc.expectedErr != "" {
				return
			}

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "/var/www/wp-content/debug.log", TailerMetricsLevelFull.Source("/var/www/wp-content/debug.log"))
	assert.Equal(t, "debug.log", TailerMetricsLevelAggregated.Source("/var/www/wp-content/debug.log"))
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, RegisterMetrics(reg, MetricsLevelFull))
	// registering twice is harmless
	require.NoError(t, RegisterMetrics(reg, MetricsLevelAggregated))

	TailerSessions.Set(0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := []string{}
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, TailerSessionsMetricName)
	assert.Contains(t, names, GlobalDsInfoMetricName)

	empty := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(empty, MetricsLevelNone))

	families, err = empty.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)

	cstest.RequireErrorContains(t, RegisterMetrics(empty, "bogus"), "invalid metrics level")
}
