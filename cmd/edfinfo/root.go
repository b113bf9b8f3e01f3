package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &verbose)
	opts := &parseOptions{}

	rootCmd := &cobra.Command{
		Use:   "edfinfo [flags] [recording...]",
		Short: "Print the metadata of EyeLink .edf and .asc recordings",
		Long: "edfinfo reads the header of each recording and, when fields are missing,\n" +
			"converts it with edf2asc to scan its MSG lines for the rest.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(opts.globs) == 0 {
				return cmd.Help()
			}
			return runParse(cmd, ctx, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log parse decisions to stderr")

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&opts.globs, "glob", "g", nil, "Also parse files matching this pattern (repeatable, supports **)")
	flags.StringVarP(&opts.format, "format", "f", formatText, "Output format: text, table, json, yaml")
	flags.BoolVar(&opts.index, "index", false, "Record results in the index")
	flags.IntVarP(&opts.concurrency, "concurrency", "j", 0, "Recordings parsed at once (default from config)")
	flags.BoolVar(&opts.overrides.noFallback, "no-fallback", false, "Only read recording headers; never run the converter")
	flags.StringVar(&opts.overrides.recordedBy, "recorded-by", "", "Field filled by RECORDED BY messages: recording or recorded_by")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	rootCmd.AddCommand(newIndexCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
