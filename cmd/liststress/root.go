package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dogmatiq/listkit/internal/stress"
	"github.com/dogmatiq/listkit/internal/stressconfig"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

type option func(*stressconfig.Config)

func rootCommand() *cobra.Command {
	var (
		protocol   string
		workers    int
		keys       int
		rounds     int
		mix        string
		histories  int
		instrument bool
		baseline   bool
		metrics    string
		verbose    bool
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "liststress",
		Short: "Drive a concurrent workload against one of the list-based containers",
		Long: "Drive a concurrent workload against one of the list-based containers.\n\n" +
			"Flags take precedence over the LISTKIT_STRESS_* environment variables.",
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, _ []string) error {
			options := []option{
				func(c *stressconfig.Config) { c.UseEnv = true },
			}

			flags := cmd.Flags()

			if flags.Changed("protocol") {
				p, err := stressconfig.ParseProtocol(protocol)
				if err != nil {
					return err
				}
				options = append(options, func(c *stressconfig.Config) { c.Protocol = p })
			}
			if flags.Changed("workers") {
				options = append(options, func(c *stressconfig.Config) { c.Workers = workers })
			}
			if flags.Changed("keys") {
				options = append(options, func(c *stressconfig.Config) { c.Keys = keys })
			}
			if flags.Changed("rounds") {
				options = append(options, func(c *stressconfig.Config) { c.Rounds = rounds })
			}
			if flags.Changed("mix") {
				m, err := stressconfig.ParseMix(mix)
				if err != nil {
					return err
				}
				options = append(options, func(c *stressconfig.Config) {
					c.Mix = m
					c.HasMix = true
				})
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}

			logger := slog.New(
				slog.NewJSONHandler(
					cmd.OutOrStdout(),
					&slog.HandlerOptions{
						Level: level,
					},
				),
			)

			r := &runner{
				Config:      stressconfig.New(options),
				Logger:      logger,
				Histories:   histories,
				Instrument:  instrument,
				Baseline:    baseline,
				Seed:        seed,
				MetricsAddr: metrics,
			}

			return r.Run(cmd.Context())
		},
	}

	var names []string
	for _, p := range stressconfig.Protocols {
		names = append(names, string(p))
	}

	cmd.Flags().StringVar(&protocol, "protocol", "", "the container protocol, one of "+strings.Join(names, ", "))
	cmd.Flags().IntVar(&workers, "workers", stressconfig.DefaultWorkers, "the number of concurrent workers")
	cmd.Flags().IntVar(&keys, "keys", stressconfig.DefaultKeys, "the number of distinct elements")
	cmd.Flags().IntVar(&rounds, "rounds", stressconfig.DefaultRounds, "the number of mixed operations performed by each worker")
	cmd.Flags().StringVar(&mix, "mix", stressconfig.FormatMix(stress.DefaultMix), "the percentage of adds and removes, as ADD/REMOVE")
	cmd.Flags().IntVar(&histories, "histories", 100, "the number of single-element histories to check for linearizability")
	cmd.Flags().BoolVar(&instrument, "instrument", false, "record telemetry for every operation")
	cmd.Flags().BoolVar(&baseline, "baseline", false, "repeat the mixed workload against a copy-on-write set for comparison")
	cmd.Flags().StringVar(&metrics, "metrics-addr", "", "serve Prometheus metrics at this address for the duration of the run")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "the seed for the random workload")

	cmd.SetErr(os.Stderr)

	return cmd
}

func formatThroughput(opsPerSecond float64) string {
	return fmt.Sprintf("%s op/s", humanize.Comma(int64(opsPerSecond)))
}
