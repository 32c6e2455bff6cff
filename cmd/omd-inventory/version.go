package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(color.Output, "omd-inventory %s (commit %s, built %s)\n",
				color.CyanString(version.Version), version.GitCommit, version.BuildDate)
		},
	}
}
