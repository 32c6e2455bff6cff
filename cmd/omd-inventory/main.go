package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/config"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/env"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/inventory"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/livestatus"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/logging"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/omd"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/version"
)

// Flags shared across the root command and its subcommands.
var (
	cfgFile     string
	flagSocket  string
	flagSSH     string
	flagTimeout time.Duration
	noColor     bool
)

func main() {
	_ = env.LoadForSite()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		list   bool
		host   string
		static bool
		byIP   bool
		indent int
	)

	cmd := &cobra.Command{
		Use:     "omd-inventory",
		Short:   "Ansible dynamic inventory from OMD Livestatus",
		Version: version.Short(),
		Long: `omd-inventory builds an Ansible dynamic inventory from the hosts known
to an OMD monitoring site, queried over the Livestatus socket.

Without flags (or with --list) it prints the full inventory document as
JSON on stdout. Hosts are grouped by their hostgroups; hosts without
any group land in _NOGROUP. Each host carries its monitoring address,
alias and custom variables as hostvars.

The endpoint is taken from --socket or --ssh, then the
OMD_LIVESTATUS_SOCKET environment variable, then $OMD_ROOT/tmp/run/live
when running as a site user, and finally the config file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			client, err := connect(cfg, logger)
			if err != nil {
				logger.Error("connect_failed", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rows, err := client.Hosts(ctx, cfg.Query.Filters, cfg.Query.Limit)
			if err != nil {
				logger.Error("query_failed", "error", err)
				return err
			}

			inv := inventory.Build(rows, inventory.Options{
				ByIP:   byIP || cfg.ByIP,
				Logger: logger,
			})
			logger.Debug("inventory_built",
				"hosts", inv.Len(),
				"groups", len(inv.GroupNames()))

			if indent < 0 {
				indent = cfg.Indent
			}
			// --static wins, then the listing (explicit --list or no --host).
			switch {
			case static:
				fmt.Println(inv.Static())
			case list || host == "":
				out, err := inv.JSON(indent)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			default:
				out, err := inv.HostVars(host, indent)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.omd-inventory/config.yaml)")
	cmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "Livestatus endpoint: UNIX socket path or host:port")
	cmd.PersistentFlags().StringVar(&flagSSH, "ssh", "", "reach the socket via ssh: [user@]host[:port][:path]")
	cmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "connect and query timeout (default from config)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.Flags().BoolVar(&list, "list", false, "print the full inventory as JSON (default mode)")
	cmd.Flags().StringVar(&host, "host", "", "print hostvars for one host as JSON")
	cmd.Flags().BoolVar(&static, "static", false, "print the inventory in static file format")
	cmd.Flags().BoolVar(&byIP, "by-ip", false, "key the inventory by IP instead of by name")
	cmd.Flags().IntVar(&indent, "indent", -1, "JSON indent width (default from config)")

	cmd.AddCommand(versionCmd())
	cmd.AddCommand(doctorCmd())
	cmd.AddCommand(hostsCmd())
	cmd.AddCommand(groupsCmd())
	cmd.AddCommand(sitesCmd())
	return cmd
}

// newLogger tags records with a run id to correlate cron-driven runs.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(cfg.LogLevel, os.Getenv(logging.EnvFormat))
	return logger.With("run_id", uuid.NewString())
}

func connect(cfg *config.Config, logger *slog.Logger) (*livestatus.Client, error) {
	loc, err := resolveLocation(cfg)
	if err != nil {
		return nil, err
	}

	timeout := flagTimeout
	if timeout <= 0 {
		timeout = cfg.TimeoutDuration()
	}
	transport, err := livestatus.NewTransport(loc, livestatus.Options{
		Timeout:       timeout,
		SSHMode:       cfg.SSH.Mode,
		SSHKeyFile:    cfg.SSH.KeyFile,
		SSHKnownHosts: cfg.SSH.KnownHosts,
		SSHInsecure:   cfg.SSH.Insecure,
		MaxOutput:     cfg.SSH.MaxOutput,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("endpoint_resolved",
		"location", loc.String(),
		"transport", transport.Name())
	client := livestatus.NewClient(transport)
	client.SetLogger(logger)
	return client, nil
}

// resolveLocation picks the endpoint: explicit flags first, then the
// site environment, then the config file.
func resolveLocation(cfg *config.Config) (*livestatus.Location, error) {
	if flagSSH != "" {
		loc, err := livestatus.ParseSSHLocation(flagSSH)
		if err != nil {
			return nil, err
		}
		return sshDefaults(loc, cfg), nil
	}

	path, err := omd.ResolveSocket(flagSocket)
	if err == nil {
		loc, err := livestatus.ParseLocation(path)
		if err != nil {
			return nil, err
		}
		return sshDefaults(loc, cfg), nil
	}
	if errors.Is(err, omd.ErrNoSocket) && cfg.Socket != "" {
		loc, err := livestatus.ParseLocation(cfg.Socket)
		if err != nil {
			return nil, err
		}
		return sshDefaults(loc, cfg), nil
	}
	return nil, fmt.Errorf("no Livestatus endpoint: use --socket or --ssh, export %s, set socket in the config file, or run inside an OMD site", omd.EnvSocket)
}

// sshDefaults fills ssh settings the location itself does not carry.
func sshDefaults(loc *livestatus.Location, cfg *config.Config) *livestatus.Location {
	if loc.Scheme != livestatus.SchemeSSH {
		return loc
	}
	if loc.User == "" {
		loc.User = cfg.SSH.User
	}
	if cfg.SSH.RemotePath != "" && loc.Path == livestatus.DefaultRemotePath {
		loc.Path = cfg.SSH.RemotePath
	}
	return loc
}
