package metrics

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsLevelConfig string

const (
	MetricsLevelNone       MetricsLevelConfig = "none"
	MetricsLevelAggregated MetricsLevelConfig = "aggregated"
	MetricsLevelFull       MetricsLevelConfig = "full"
	// MetricsLevelDefault is the default metrics level.
	MetricsLevelDefault MetricsLevelConfig = MetricsLevelFull
)

var ErrInvalidMetricsLevel = errors.New("invalid metrics level")

// TailerMetricsLevel controls the cardinality of the "source" label.
type TailerMetricsLevel int

const (
	TailerMetricsLevelNone       TailerMetricsLevel = iota // No metrics
	TailerMetricsLevelAggregated                           // source is the file base name
	TailerMetricsLevelFull                                 // source is the full path
	TailerMetricsLevelDefault    = TailerMetricsLevelFull
)

// ParseLevel converts the configuration value into a tailer level.
// An empty value selects the default level.
func ParseLevel(level MetricsLevelConfig) (TailerMetricsLevel, error) {
	switch level {
	case "":
		return TailerMetricsLevelDefault, nil
	case MetricsLevelNone:
		return TailerMetricsLevelNone, nil
	case MetricsLevelAggregated:
		return TailerMetricsLevelAggregated, nil
	case MetricsLevelFull:
		return TailerMetricsLevelFull, nil
	default:
		return TailerMetricsLevelNone, fmt.Errorf("%w: %s", ErrInvalidMetricsLevel, level)
	}
}

// Source returns the label value to use for a watched path.
func (l TailerMetricsLevel) Source(path string) string {
	if l == TailerMetricsLevelAggregated {
		return filepath.Base(path)
	}

	return path
}

// Enabled reports whether the tailer should update its collectors at all.
func (l TailerMetricsLevel) Enabled() bool {
	return l != TailerMetricsLevelNone
}

// RegisterMetrics registers the tailer collectors on reg.
// Collectors that are already registered are not an error.
func RegisterMetrics(reg prometheus.Registerer, metricsLevel MetricsLevelConfig) error {
	level, err := ParseLevel(metricsLevel)
	if err != nil {
		return err
	}

	if !level.Enabled() {
		return nil
	}

	GlobalDsInfo.Set(1)

	for _, c := range append(TailerCollectors(), GlobalDsInfo) {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}

			return fmt.Errorf("registering collector: %w", err)
		}
	}

	return nil
}
