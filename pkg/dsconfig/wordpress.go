package dsconfig

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/crowdsecurity/debugstream/pkg/wproot"
)

type WordPressCfg struct {
	Marker    string `yaml:"marker"`
	LogPath   string `yaml:"log_path"` // relative to the WordPress root, or absolute
	CreateLog bool   `yaml:"create_log"`
}

func NewDefaultWordPressCfg() *WordPressCfg {
	return &WordPressCfg{
		Marker:    wproot.DefaultMarker,
		LogPath:   wproot.DefaultLogPath,
		CreateLog: true,
	}
}

func (c *WordPressCfg) validate() error {
	if c.Marker == "" {
		c.Marker = wproot.DefaultMarker
	}

	if strings.ContainsRune(c.Marker, '/') || c.Marker != filepath.Base(c.Marker) {
		return errors.New("marker must be a file name, not a path")
	}

	if c.LogPath == "" {
		c.LogPath = wproot.DefaultLogPath
	}

	return nil
}
