package main

import (
	"fmt"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/config"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/livestatus"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/omd"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check site detection, endpoint resolution and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			if site, ok := omd.DetectSite(); ok {
				fmt.Fprintf(color.Output, "Site: %s (%s)\n", color.CyanString(site.Name), site.Root)
			} else {
				fmt.Println("Site: not running inside an OMD site")
			}

			failed := 0
			pass := func(format string, args ...any) {
				fmt.Fprintf(color.Output, "%s %s\n", color.GreenString("[ OK ]"), fmt.Sprintf(format, args...))
			}
			fail := func(format string, args ...any) {
				failed++
				fmt.Fprintf(color.Output, "%s %s\n", color.RedString("[FAIL]"), fmt.Sprintf(format, args...))
			}

			loc, err := resolveLocation(cfg)
			if err != nil {
				fail("endpoint: %v", err)
				return fmt.Errorf("%d check(s) failed", failed)
			}
			pass("endpoint resolved: %s (%s)", loc.String(), loc.Scheme)

			if loc.Scheme == livestatus.SchemeUnix {
				if omd.SocketExists(loc.Path) {
					pass("socket present: %s", loc.Path)
				} else {
					fail("socket missing: %s", loc.Path)
				}
			}

			if loc.Scheme == livestatus.SchemeSSH && cfg.SSH.Mode == config.SSHModeCommand {
				if path, err := exec.LookPath("ssh"); err != nil {
					fail("ssh binary not found in PATH")
				} else {
					pass("ssh binary: %s", path)
				}
			}

			client, err := connect(cfg, logger)
			if err != nil {
				fail("transport: %v", err)
				return fmt.Errorf("%d check(s) failed", failed)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			status, err := client.Status(ctx)
			if err != nil {
				fail("status query: %v", err)
			} else {
				pass("endpoint answered: core %s, livestatus %s, %d hosts",
					status.ProgramVersion, status.LivestatusVersion, status.NumHosts)

				rows, err := client.Hosts(ctx, cfg.Query.Filters, cfg.Query.Limit)
				if err != nil {
					fail("host query: %v", err)
				} else {
					pass("host query returned %d rows", len(rows))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			fmt.Fprintln(color.Output, color.GreenString("All checks passed"))
			return nil
		},
	}
}
