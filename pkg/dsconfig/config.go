// Package dsconfig loads the debugstream configuration file.
package dsconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "/etc/debugstream/config.yaml"

// Config is the top-level configuration. Every section is filled with
// defaults after loading, so callers never see a nil section.
type Config struct {
	Common     *CommonCfg     `yaml:"common"`
	Tail       *TailCfg       `yaml:"tail"`
	WordPress  *WordPressCfg  `yaml:"wordpress"`
	Prometheus *PrometheusCfg `yaml:"prometheus"`

	// FilePath is where the configuration was read from, if any.
	FilePath string `yaml:"-"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Common:     NewDefaultCommonCfg(),
		Tail:       NewDefaultTailCfg(),
		WordPress:  NewDefaultWordPressCfg(),
		Prometheus: NewDefaultPrometheusCfg(),
	}
}

// NewConfig reads the configuration from configFile. An empty configFile
// means the default location, which is allowed not to exist.
func NewConfig(configFile string) (*Config, error) {
	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigPath
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no configuration file at %s, using defaults", configFile)

			cfg := NewDefaultConfig()

			return cfg, cfg.Validate()
		}

		return nil, fmt.Errorf("while reading configuration file: %w", err)
	}

	cfg, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("while parsing %s: %w", configFile, err)
	}

	cfg.FilePath = configFile

	return cfg, nil
}

func parse(content []byte) (*Config, error) {
	cfg := NewDefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expandEnv(string(content)))))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fillDefaults replaces the sections that were explicitly emptied
// (`tail:` with no content decodes as nil).
func (c *Config) fillDefaults() {
	if c.Common == nil {
		c.Common = NewDefaultCommonCfg()
	}

	if c.Tail == nil {
		c.Tail = NewDefaultTailCfg()
	}

	if c.WordPress == nil {
		c.WordPress = NewDefaultWordPressCfg()
	}

	if c.Prometheus == nil {
		c.Prometheus = NewDefaultPrometheusCfg()
	}
}

func (c *Config) Validate() error {
	if err := c.Common.validate(); err != nil {
		return fmt.Errorf("common: %w", err)
	}

	if err := c.Tail.validate(); err != nil {
		return fmt.Errorf("tail: %w", err)
	}

	if err := c.WordPress.validate(); err != nil {
		return fmt.Errorf("wordpress: %w", err)
	}

	if err := c.Prometheus.validate(); err != nil {
		return fmt.Errorf("prometheus: %w", err)
	}

	return nil
}
