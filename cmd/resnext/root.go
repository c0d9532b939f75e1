package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/born-ml/resnext/internal/backend/cpu"
	"github.com/born-ml/resnext/internal/config"
	"github.com/born-ml/resnext/internal/resnext"
	"github.com/born-ml/resnext/internal/telemetry"
	"github.com/born-ml/resnext/internal/tensor"
)

// options collects the persistent flags.
type options struct {
	configPath string
	logLevel   string
	logJSON    bool

	file config.File
	log  zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "resnext",
		Short:         "Build and inspect ResNeXt image classifiers on the CPU",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Network config file (.yaml, .yml, .toml, .json); defaults to ResNeXt-50")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides the config file)")
	root.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Emit JSON log lines instead of console output")

	root.AddCommand(newSummaryCmd(opts), newProbeCmd(opts), newVersionCmd())
	return root
}

func (o *options) load(cmd *cobra.Command) error {
	o.file = config.Default()
	if o.configPath != "" {
		f, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.file = f
	}

	level := o.file.Runtime.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	log, err := telemetry.NewLogger(cmd.ErrOrStderr(), level, !o.logJSON)
	if err != nil {
		return err
	}
	o.log = log
	return nil
}

func (o *options) build() (*resnext.Network[*cpu.CPUBackend], *cpu.CPUBackend, error) {
	backend := cpu.New(cpu.WithParallel(o.file.Runtime.Parallel()))
	cfg := o.file.Model

	start := time.Now()
	net, err := resnext.NewNetwork[*cpu.CPUBackend](cfg, resnext.NewBottleneckFactory(cfg.Block, backend), backend)
	if err != nil {
		return nil, nil, fmt.Errorf("build network: %w", err)
	}
	o.log.Debug().
		Int("depth", cfg.Depth()).
		Int("classes", cfg.NumClasses).
		Int("parameters", net.NumParameters()).
		Dur("elapsed", time.Since(start)).
		Msg("network built")
	return net, backend, nil
}

func newSummaryCmd(opts *options) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Print the layer layout and parameter counts",
		Example: "  resnext summary\n  resnext summary --config net.yaml --verbose",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			net, _, err := opts.build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintln(out, net.String())
				return nil
			}
			fmt.Fprintln(out, net.Summary())
			fmt.Fprintf(out, "stage channels: %v\n", net.StageChannels())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the full module tree")
	return cmd
}

func newProbeCmd(opts *options) *cobra.Command {
	var (
		batch   int
		size    int
		metrics bool
		train   bool
	)
	cmd := &cobra.Command{
		Use:     "probe",
		Short:   "Run one forward pass on random input and report timings",
		Example: "  resnext probe --batch 2 --size 32\n  resnext probe --size 224 --metrics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch <= 0 || size <= 0 {
				return fmt.Errorf("batch and size must be positive, got batch=%d size=%d", batch, size)
			}
			net, backend, err := opts.build()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			m, err := telemetry.NewMetrics(reg)
			if err != nil {
				return err
			}
			net.SetHooks(telemetry.NewRecorder(opts.log, m))
			net.SetTraining(train)

			input := tensor.Randn(tensor.Shape{batch, opts.file.Model.InChannels, size, size}, backend)
			logits := net.Forward(input)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "input %v -> logits %v\n", input.Shape(), logits.Shape())
			if metrics {
				return telemetry.WriteText(out, reg)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&batch, "batch", "b", 1, "Batch size")
	cmd.Flags().IntVarP(&size, "size", "s", 32, "Input height and width")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print Prometheus metrics after the pass")
	cmd.Flags().BoolVar(&train, "train", false, "Use batch statistics in BatchNorm layers")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "resnext %s\n", version)
			return nil
		},
	}
}
