package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/crowdsecurity/debugstream/pkg/dsconfig"
	"github.com/crowdsecurity/debugstream/pkg/wpconfig"
	"github.com/crowdsecurity/debugstream/pkg/wproot"
)

type configGetter func() *dsconfig.Config

var ErrLoggingDisabled = errors.New("WP_DEBUG_LOG is not enabled. Please enable debug logging in wp-config.php")

// site is a WordPress installation and its debug settings.
type site struct {
	Root       string
	ConfigPath string
	LogPath    string
	Settings   wpconfig.Settings
}

func startDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("unable to get current directory: %w", err)
	}

	return dir, nil
}

func locateRoot(cfg *dsconfig.WordPressCfg, dir string) (string, error) {
	root, err := wproot.Locate(dir, cfg.Marker)
	if errors.Is(err, wproot.ErrNotFound) && cfg.Marker != wproot.DefaultMarker {
		return "", fmt.Errorf("%s not found in parent directories of %s", cfg.Marker, dir)
	}

	return root, err
}

// findSite locates the installation around dir and reads its settings.
// The log path declared in wp-config.php wins over the configured one.
func findSite(cfg *dsconfig.WordPressCfg, dir string) (*site, error) {
	root, err := locateRoot(cfg, dir)
	if err != nil {
		return nil, err
	}

	s := &site{
		Root:       root,
		ConfigPath: wproot.ConfigPath(root),
	}

	s.Settings, err = wpconfig.Inspect(s.ConfigPath)
	if err != nil {
		return nil, err
	}

	s.LogPath = wproot.LogPath(root, cfg.LogPath)
	if s.Settings.LogPath != "" {
		s.LogPath = wproot.LogPath(root, s.Settings.LogPath)
	}

	return s, nil
}
