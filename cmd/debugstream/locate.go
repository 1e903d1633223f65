package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type cliLocate struct {
	cfg configGetter
}

func NewCLILocate(cfg configGetter) *cliLocate {
	return &cliLocate{
		cfg: cfg,
	}
}

func (cli *cliLocate) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "locate [dir]",
		Short:             "Print the root of the WordPress installation containing dir",
		Example:           "debugstream locate /var/www/html/wp-content/plugins",
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := startDir(args)
			if err != nil {
				return err
			}

			root, err := locateRoot(cli.cfg().WordPress, dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), root)

			return nil
		},
	}

	return cmd
}
