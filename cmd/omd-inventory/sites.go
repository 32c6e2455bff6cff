package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/omd"
)

func sitesCmd() *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List OMD sites installed on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := root
			if prefix == "" {
				prefix = omd.SitesRoot
			}
			sites := omd.ScanSites(root)
			if len(sites) == 0 {
				fmt.Printf("no OMD sites found under %s\n", prefix)
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Site", "Socket", "State"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, site := range sites {
				state := color.YellowString("down")
				if site.Live {
					state = color.GreenString("live")
				}
				table.Append([]string{site.Name, site.Socket, state})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "OMD installation prefix (default /omd/sites)")
	return cmd
}
