package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socialdash/dashboard/pkg/config"
)

func newRootCommand() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Social dashboard server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if len(envFiles) == 0 {
				return nil
			}
			return config.LoadEnv(envFiles...)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}}\n  Commit:  %s\n  Built:   %s\n", Commit, BuildDate))
	cmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "additional .env files to load before reading the environment")

	cmd.AddCommand(newServeCommand(), newVersionCommand())
	return cmd
}
