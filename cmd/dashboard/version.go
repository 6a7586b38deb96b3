package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set by the linker:
//
//	go build -ldflags "-X main.Version=v1.2.0 -X main.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dashboard %s\n", Version)
			fmt.Fprintf(out, "  Commit:    %s\n", Commit)
			fmt.Fprintf(out, "  Built:     %s\n", BuildDate)
			fmt.Fprintf(out, "  Platform:  %s/%s (%s)\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
