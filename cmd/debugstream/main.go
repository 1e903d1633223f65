package main

import (
	"cmp"
	"fmt"
	"os"

	"github.com/fatih/color"
	cc "github.com/ivanpirog/coloredcobra"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crowdsecurity/debugstream/pkg/dsconfig"
	"github.com/crowdsecurity/debugstream/pkg/logging"
)

type cliRoot struct {
	configFilePath string
	logTrace       bool
	logDebug       bool
	logInfo        bool
	logWarn        bool
	logErr         bool
	outputColor    string

	cfg *dsconfig.Config
}

func newCliRoot() *cliRoot {
	return &cliRoot{}
}

func (cli *cliRoot) config() *dsconfig.Config {
	return cli.cfg
}

// wantedLogLevel returns the log level requested in the command line flags, or 0.
func (cli *cliRoot) wantedLogLevel() log.Level {
	switch {
	case cli.logTrace:
		return log.TraceLevel
	case cli.logDebug:
		return log.DebugLevel
	case cli.logInfo:
		return log.InfoLevel
	case cli.logWarn:
		return log.WarnLevel
	case cli.logErr:
		return log.ErrorLevel
	default:
		return 0
	}
}

func (cli *cliRoot) initConfig() error {
	switch cli.outputColor {
	case "yes", "no", "auto":
	default:
		return fmt.Errorf("output color %s unknown", cli.outputColor)
	}

	cfg, err := dsconfig.NewConfig(cli.configFilePath)
	if err != nil {
		return err
	}

	cli.cfg = cfg

	level := cmp.Or(cli.wantedLogLevel(), cfg.Common.GetLevel())

	if err := logging.SetupStandardLogger(cfg.Common, level, cli.outputColor == "yes"); err != nil {
		return err
	}

	if cfg.FilePath != "" {
		log.Debugf("Using %s as configuration file", cfg.FilePath)
	}

	return nil
}

var NoNeedConfig = []string{
	"help",
	"completion",
	"version",
}

func (cli *cliRoot) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debugstream",
		Short: "debugstream follows the WordPress debug log",
		Long: `debugstream finds the WordPress installation around a directory, checks that
debug logging is enabled in wp-config.php and streams wp-content/debug.log as it grows.`,
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range NoNeedConfig {
				if cmd.Name() == name {
					return nil
				}
			}

			return cli.initConfig()
		},
	}

	cc.Init(&cc.Config{
		RootCmd:       cmd,
		Headings:      cc.Yellow,
		Commands:      cc.Green + cc.Bold,
		CmdShortDescr: cc.Cyan,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Aliases:       cc.Bold + cc.Italic,
		FlagsDataType: cc.White,
		Flags:         cc.Green,
		FlagsDescr:    cc.Cyan,
	})
	cmd.SetOut(color.Output)

	pflags := cmd.PersistentFlags()
	pflags.StringVarP(&cli.configFilePath, "config", "c", "", "path to debugstream config file (default "+dsconfig.DefaultConfigPath+")")
	pflags.StringVar(&cli.outputColor, "color", "auto", "Output color: yes, no, auto")
	pflags.BoolVar(&cli.logTrace, "trace", false, "Set logging to trace")
	pflags.BoolVar(&cli.logDebug, "debug", false, "Set logging to debug")
	pflags.BoolVar(&cli.logInfo, "info", false, "Set logging to info")
	pflags.BoolVar(&cli.logWarn, "warning", false, "Set logging to warning")
	pflags.BoolVar(&cli.logErr, "error", false, "Set logging to error")

	cmd.MarkFlagsMutuallyExclusive("trace", "debug", "info", "warning", "error")

	cmd.AddCommand(NewCLIVersion().NewCommand())
	cmd.AddCommand(NewCLILocate(cli.config).NewCommand())
	cmd.AddCommand(NewCLICheck(cli.config, cli.colorSetting).NewCommand())
	cmd.AddCommand(NewCLITail(cli.config, cli.colorSetting).NewCommand())

	return cmd
}

func (cli *cliRoot) colorSetting() string {
	return cli.outputColor
}

func main() {
	// set the formatter asap and worry about level later
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cmd := newCliRoot().NewCommand()

	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
