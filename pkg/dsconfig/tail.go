package dsconfig

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type TailCfg struct {
	Mode           string        `yaml:"mode"` // auto|inotify|poll
	PollInterval   time.Duration `yaml:"poll_interval"`
	FromStart      bool          `yaml:"from_start"`
	FollowRecreate bool          `yaml:"follow_recreate"`
	// BufferSize is the capacity of the signal channel between the tailer and the display.
	BufferSize int `yaml:"buffer_size"`
	// LogLevel overrides common.log_level for the tailer messages.
	LogLevel *log.Level `yaml:"log_level"`
}

func NewDefaultTailCfg() *TailCfg {
	return &TailCfg{
		Mode:         "auto",
		PollInterval: time.Second,
		BufferSize:   64,
	}
}

// GetLogLevel returns the tailer log level, 0 to use the global one.
func (c *TailCfg) GetLogLevel() log.Level {
	if c.LogLevel == nil {
		return 0
	}

	return *c.LogLevel
}

func (c *TailCfg) validate() error {
	switch c.Mode {
	case "":
		c.Mode = "auto"
	case "auto", "inotify", "poll":
	default:
		return fmt.Errorf("unknown mode %q (supported: auto, inotify, poll)", c.Mode)
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}

	if c.PollInterval == 0 {
		c.PollInterval = time.Second
	}

	if c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must not be negative, got %d", c.BufferSize)
	}

	return nil
}
