package dsconfig

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/crowdsecurity/go-cs-lib/ptr"

	"github.com/crowdsecurity/debugstream/pkg/logging"
)

const (
	defMaxSize  = 500
	defMaxFiles = 3
	defMaxAge   = 28
	defCompress = true
)

var _ logging.OutputConfig = (*CommonCfg)(nil)

type CommonCfg struct {
	LogMedia     string     `yaml:"log_media"` // stdout|file
	LogDir       string     `yaml:"log_dir,omitempty"`
	LogLevel     *log.Level `yaml:"log_level"`
	LogFormat    string     `yaml:"log_format,omitempty"` // text|json
	LogMaxSize   int        `yaml:"log_max_size,omitempty"`
	LogMaxFiles  int        `yaml:"log_max_files,omitempty"`
	LogMaxAge    int        `yaml:"log_max_age,omitempty"`
	CompressLogs *bool      `yaml:"compress_logs,omitempty"`
}

func NewDefaultCommonCfg() *CommonCfg {
	return &CommonCfg{
		LogMedia:  "stdout",
		LogDir:    "/var/log/",
		LogLevel:  ptr.Of(log.InfoLevel),
		LogFormat: "text",
	}
}

func (c *CommonCfg) GetFormat() string {
	return c.LogFormat
}

func (c *CommonCfg) GetMedia() string {
	return c.LogMedia
}

// GetLevel returns the configured level, info if unset.
func (c *CommonCfg) GetLevel() log.Level {
	if c.LogLevel == nil {
		return log.InfoLevel
	}

	return *c.LogLevel
}

func (c *CommonCfg) NewRotatingLogger(filename string) *lumberjack.Logger {
	maxSize := c.LogMaxSize
	if maxSize == 0 {
		maxSize = defMaxSize
	}

	maxFiles := c.LogMaxFiles
	if maxFiles == 0 {
		maxFiles = defMaxFiles
	}

	maxAge := c.LogMaxAge
	if maxAge == 0 {
		maxAge = defMaxAge
	}

	compress := c.CompressLogs
	if compress == nil {
		compress = ptr.Of(defCompress)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(c.LogDir, filename),
		MaxSize:    maxSize,
		MaxBackups: maxFiles,
		MaxAge:     maxAge,
		Compress:   *compress,
	}
}

func (c *CommonCfg) validate() error {
	switch c.LogMedia {
	case "stdout", "":
	case "file":
		if c.LogDir == "" {
			return fmt.Errorf("log_dir is required when log_media is file")
		}

		dir, err := filepath.Abs(c.LogDir)
		if err != nil {
			return fmt.Errorf("failed to get absolute path of log_dir: %w", err)
		}

		c.LogDir = dir
	default:
		return fmt.Errorf("unknown log_media %q (supported: stdout, file)", c.LogMedia)
	}

	switch c.LogFormat {
	case "text", "json", "":
	default:
		return fmt.Errorf("unknown log_format %q (supported: text, json)", c.LogFormat)
	}

	if c.LogMaxSize < 0 || c.LogMaxFiles < 0 || c.LogMaxAge < 0 {
		return fmt.Errorf("log rotation settings must not be negative")
	}

	return nil
}
