package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crowdsecurity/debugstream/cmd/debugstream/core/cstable"
	"github.com/crowdsecurity/debugstream/pkg/dsconfig"
	"github.com/crowdsecurity/debugstream/pkg/logging"
	"github.com/crowdsecurity/debugstream/pkg/tailer"
	"github.com/crowdsecurity/debugstream/pkg/wpconfig"
)

type tailOptions struct {
	tailer         tailer.Config
	bufferSize     int
	fromStart      bool
	followRecreate bool
	backoff        BackOffFactory
}

type cliTail struct {
	cfg   configGetter
	color func() string

	file           string
	fromStart      bool
	mode           string
	followRecreate bool
}

func NewCLITail(cfg configGetter, colorSetting func() string) *cliTail {
	return &cliTail{
		cfg:   cfg,
		color: colorSetting,
	}
}

func (cli *cliTail) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail [dir]",
		Short: "Stream the debug log of the WordPress installation containing dir",
		Example: `debugstream tail
debugstream tail /var/www/html --from-start
debugstream tail --file /var/log/php/error.log --mode poll`,
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, fromSite, err := cli.target(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := cli.cfg()
			logger := tailLogger(cfg.Tail)

			if _, err := startMetricsServer(ctx, cfg.Prometheus, logger); err != nil {
				return err
			}

			// WordPress creates its log lazily, a --file target must exist
			if fromSite {
				if err := ensureLogFile(ctx, path, cfg.WordPress.CreateLog, logger); err != nil {
					return err
				}
			}

			d := newDisplay(cmd.OutOrStdout(), cmd.ErrOrStderr(), cstable.ShouldWeColorize(cli.color(), os.Stderr))

			return runTail(ctx, path, cli.options(cmd, cfg), d, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cli.file, "file", "f", "", "Tail this file instead of looking for a WordPress installation")
	flags.BoolVar(&cli.fromStart, "from-start", false, "Print the current content of the log before following it")
	flags.StringVar(&cli.mode, "mode", "", "Watch mode: auto, inotify, poll (default from configuration)")
	flags.BoolVar(&cli.followRecreate, "follow-recreate", false, "Keep going when the log is removed, and follow the new one")

	return cmd
}

// target returns the file to follow: the --file flag, or the debug log
// of the WordPress installation if logging is enabled. fromSite is true
// in the second case.
func (cli *cliTail) target(cmd *cobra.Command, args []string) (path string, fromSite bool, err error) {
	if cli.file != "" {
		if len(args) > 0 {
			return "", false, errors.New("--file and a directory argument are mutually exclusive")
		}

		return cli.file, false, nil
	}

	dir, err := startDir(args)
	if err != nil {
		return "", false, err
	}

	s, err := findSite(cli.cfg().WordPress, dir)
	if err != nil {
		return "", false, err
	}

	if !s.Settings.LoggingEnabled() {
		fmt.Fprintln(cmd.ErrOrStderr(), wpconfig.Instructions)
		return "", false, ErrLoggingDisabled
	}

	return s.LogPath, true, nil
}

func tailLogger(cfg *dsconfig.TailCfg) *log.Entry {
	return logging.ComponentLogger("tailer", cfg.GetLogLevel())
}

func (cli *cliTail) options(cmd *cobra.Command, cfg *dsconfig.Config) tailOptions {
	mode := cfg.Tail.Mode
	if cmd.Flags().Changed("mode") {
		mode = cli.mode
	}

	return tailOptions{
		tailer: tailer.Config{
			Mode:         mode,
			PollInterval: cfg.Tail.PollInterval,
			MetricsLevel: cfg.Prometheus.TailerLevel(),
		},
		bufferSize:     cfg.Tail.BufferSize,
		fromStart:      cli.fromStart || cfg.Tail.FromStart,
		followRecreate: cli.followRecreate || cfg.Tail.FollowRecreate,
		backoff:        newRecreateBackOffFactory(),
	}
}

// ensureLogFile makes sure there is something to tail at path, creating
// an empty file or waiting for WordPress to write its first error.
func ensureLogFile(ctx context.Context, path string, create bool, logger *log.Entry) error {
	_, err := os.Stat(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if !create {
		logger.Warnf("%s not found, waiting for WordPress to log an error", path)
		return waitForFile(ctx, path, newRecreateBackOffFactory()(), logger)
	}

	logger.Warnf("%s not found. It will be created automatically when WordPress logs an error", path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}

	return f.Close()
}

// runTail follows path until ctx is done, or until the file is removed
// and followRecreate is not set.
func runTail(ctx context.Context, path string, opts tailOptions, d *display, logger *log.Entry) error {
	out := make(chan tailer.Signal, opts.bufferSize)

	t := tailer.New(opts.tailer, out, logger)
	defer t.Close()

	if err := startSession(t, path, opts.fromStart, d); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-out:
			if err := d.render(sig); err != nil {
				return err
			}

			if sig.Kind != tailer.FileGone {
				continue
			}

			if !opts.followRecreate {
				return nil
			}

			logger.Infof("waiting for %s to be recreated", path)

			if err := waitForFile(ctx, path, opts.backoff(), logger); err != nil {
				if ctx.Err() != nil {
					return nil
				}

				return fmt.Errorf("%s was not recreated: %w", path, err)
			}

			// a new file has nothing in common with the old one
			if err := startSession(t, path, true, d); err != nil {
				return err
			}
		}
	}
}

func startSession(t *tailer.Tailer, path string, fromStart bool, d *display) error {
	offset := int64(-1)

	if fromStart {
		n, err := d.dump(path)
		if err != nil {
			return err
		}

		offset = n
	}

	_, err := t.Start(path, offset)

	return err
}
