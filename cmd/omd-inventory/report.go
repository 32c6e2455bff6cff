package main

import (
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/config"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/inventory"
)

func hostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List monitored hosts as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			client, err := connect(cfg, newLogger(cfg))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rows, err := client.Hosts(ctx, cfg.Query.Filters, cfg.Query.Limit)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Name", "Address", "Alias", "Groups"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, row := range rows {
				table.Append([]string{row.Name, row.Address, row.Alias, strings.Join(row.Groups, ", ")})
			}
			table.Render()
			return nil
		},
	}
}

func groupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List hostgroups and their inventory names as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			client, err := connect(cfg, newLogger(cfg))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			groups, err := client.Hostgroups(ctx)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Group", "Inventory Name", "Alias", "Hosts"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, group := range groups {
				table.Append([]string{
					group.Name,
					inventory.SanitizeGroupName(group.Name),
					group.Alias,
					strconv.Itoa(len(group.Members)),
				})
			}
			table.Render()
			return nil
		},
	}
}
