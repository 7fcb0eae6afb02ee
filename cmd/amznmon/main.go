package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Max17190/amazon-monitor-v2/internal/client"
	"github.com/Max17190/amazon-monitor-v2/internal/config"
	"github.com/Max17190/amazon-monitor-v2/internal/logging"
	"github.com/Max17190/amazon-monitor-v2/internal/monitor"
	"github.com/Max17190/amazon-monitor-v2/internal/notify"
	"github.com/Max17190/amazon-monitor-v2/internal/ratelimit"
)

var version = "0.2.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts config.Options

	run := runCmd(&opts)
	root := &cobra.Command{
		Use:          "amznmon",
		Short:        "Marketplace stock monitor with webhook alerts",
		SilenceUsage: true,
		RunE:         run.RunE,
	}
	root.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "endpoint.env", "dotenv file with webhook and proxy settings")

	root.AddCommand(run, checkCmd(&opts), versionCmd())
	return root
}

func runCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the watchlists until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*opts)
			if err != nil {
				return err
			}

			checker, err := newChecker(cfg, log)
			if err != nil {
				return err
			}

			gate := ratelimit.NewGate(cfg.Notify.Rate, cfg.Notify.Burst, cfg.Notify.CooldownMargin)
			notifier := notify.New(
				cfg.Webhooks,
				cfg.Notify,
				notify.NewSender(cfg.Notify.Timeout),
				gate,
				logging.Component(log, "notify"),
			)

			m := monitor.New(checker, notifier, cfg.Watchlists, cfg.Poll, logging.Component(log, "monitor"))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().
				Str("version", version).
				Int("webhooks", len(cfg.Webhooks)).
				Bool("proxy", cfg.Proxy.Host != "").
				Msg("amznmon is running")

			err = m.Run(ctx)
			log.Info().Msg("program terminated by user")
			return err
		},
	}
}

func checkCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>...",
		Short: "Check stock once for the given identifiers and print the records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*opts)
			if err != nil {
				return err
			}

			checker, err := newChecker(cfg, log)
			if err != nil {
				return err
			}

			products, err := checker.CheckStock(cmd.Context(), args)
			if err != nil {
				return errors.Wrap(err, "stock check failed")
			}

			out, err := json.MarshalIndent(products, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "amznmon v%s\n", version)
		},
	}
}

func setup(opts config.Options) (*config.Config, zerolog.Logger, error) {
	cfg, warnings, err := config.Load(opts)
	if err != nil {
		return nil, zerolog.Nop(), errors.Wrap(err, "failed to load config")
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	return cfg, log, nil
}

func newChecker(cfg *config.Config, log zerolog.Logger) (*client.Client, error) {
	httpClient, err := client.CreateClient(cfg.Proxy.URL(), cfg.Marketplace.Timeout)
	if err != nil {
		return nil, err
	}
	return client.New(httpClient, cfg.Marketplace, logging.Component(log, "stock")), nil
}
