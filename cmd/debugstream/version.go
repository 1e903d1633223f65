package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crowdsecurity/debugstream/pkg/dsversion"
)

type cliVersion struct {
	short bool
}

func NewCLIVersion() *cliVersion {
	return &cliVersion{}
}

func (cli *cliVersion) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "version",
		Short:             "Display version",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if cli.short {
				fmt.Fprintln(cmd.OutOrStdout(), dsversion.VersionStrip())
				return
			}

			fmt.Fprint(cmd.OutOrStdout(), dsversion.FullString())
		},
	}

	cmd.Flags().BoolVar(&cli.short, "short", false, "Only print the release number")

	return cmd
}
