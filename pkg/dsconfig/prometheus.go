package dsconfig

import (
	"fmt"
	"net"
	"strconv"

	"github.com/crowdsecurity/debugstream/pkg/metrics"
)

type PrometheusCfg struct {
	Enabled    bool                       `yaml:"enabled"`
	Level      metrics.MetricsLevelConfig `yaml:"level"` // aggregated|full
	ListenAddr string                     `yaml:"listen_addr"`
	ListenPort int                        `yaml:"listen_port"`
}

func NewDefaultPrometheusCfg() *PrometheusCfg {
	return &PrometheusCfg{
		Level:      metrics.MetricsLevelDefault,
		ListenAddr: "127.0.0.1",
		ListenPort: 6062,
	}
}

// TailerLevel is the metrics level handed to the tailer. Nothing is
// collected when the endpoint is disabled.
func (c *PrometheusCfg) TailerLevel() metrics.TailerMetricsLevel {
	if !c.Enabled {
		return metrics.TailerMetricsLevelNone
	}

	// validated at load time
	level, _ := metrics.ParseLevel(c.Level)

	return level
}

func (c *PrometheusCfg) ListenURI() string {
	return net.JoinHostPort(c.ListenAddr, strconv.Itoa(c.ListenPort))
}

func (c *PrometheusCfg) validate() error {
	if _, err := metrics.ParseLevel(c.Level); err != nil {
		return err
	}

	if !c.Enabled {
		return nil
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("invalid listen_port %d", c.ListenPort)
	}

	return nil
}
