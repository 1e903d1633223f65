package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crowdsecurity/debugstream/cmd/debugstream/core/cstable"
	"github.com/crowdsecurity/debugstream/pkg/wpconfig"
)

type cliCheck struct {
	cfg   configGetter
	color func() string
}

func NewCLICheck(cfg configGetter, colorSetting func() string) *cliCheck {
	return &cliCheck{
		cfg:   cfg,
		color: colorSetting,
	}
}

func (cli *cliCheck) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "check [dir]",
		Short:             "Show the debug settings of the WordPress installation containing dir",
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := startDir(args)
			if err != nil {
				return err
			}

			s, err := findSite(cli.cfg().WordPress, dir)
			if err != nil {
				return err
			}

			checkTable(cmd.OutOrStdout(), cli.color(), s)

			if !s.Settings.LoggingEnabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), "\n"+wpconfig.Instructions)
				return ErrLoggingDisabled
			}

			return nil
		},
	}

	return cmd
}

func checkTable(out io.Writer, wantColor string, s *site) {
	t := cstable.New(out, wantColor)
	t.SetHeaders("Setting", "Value")

	t.AddRow("WordPress root", s.Root)
	t.AddRow("wp-config.php", s.ConfigPath)
	t.AddRow("WP_DEBUG", yesNo(s.Settings.Debug, wantColor))
	t.AddRow("WP_DEBUG_LOG", yesNo(s.Settings.DebugLog, wantColor))
	t.AddRow("WP_DEBUG_DISPLAY", strconv.FormatBool(s.Settings.DebugDisplay))
	t.AddRow("Log file", s.LogPath)
	t.AddRow("Log size", logSize(s.LogPath))

	t.Render()
}

func yesNo(enabled bool, wantColor string) string {
	if !cstable.ShouldWeColorize(wantColor, os.Stdout) {
		return strconv.FormatBool(enabled)
	}

	c := color.New(color.FgRed)
	if enabled {
		c = color.New(color.FgGreen)
	}

	c.EnableColor()

	return c.Sprint(strconv.FormatBool(enabled))
}

func logSize(path string) string {
	fi, err := os.Stat(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "missing, created on first error"
	case err != nil:
		return err.Error()
	default:
		return fmt.Sprintf("%d bytes", fi.Size())
	}
}
