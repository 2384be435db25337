package commands

import (
	"fmt"
	"os"

	"alert-risk/pkg/config"
	"alert-risk/pkg/logger"
	"alert-risk/pkg/pipeline"
	"alert-risk/pkg/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the alert-risk command with its subcommands attached.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	var verbose bool
	var noColor bool
	var opts pipeline.Options
	var colorize bool

	cmd := &cobra.Command{
		Use:   "alert-risk",
		Short: "Score security alerts and classify them into risk tiers",
		Long: `alert-risk computes a rule-based risk score for every alert row, optionally
blends it with a gradient-boosted classifier, and tiers each row as Low,
Medium or High.

Examples:
  # Score with rules and the classifier, write results.csv
  alert-risk --data synthetic_alerts.csv --score

  # Only evaluate the classifier, write nothing
  alert-risk --data synthetic_alerts.csv --train

  # Rules only, custom output path
  alert-risk --data alerts.csv --score --rules-only --out scored.csv

  # Generate a labelled demo dataset
  alert-risk generate --rows 2000 --seed 7
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			colorize, err = setup(cfgFile, verbose, noColor)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if !cmd.Flags().Changed("out") {
				opts.OutPath = cfg.Output.GetPath()
			}
			return runScore(cmd, cfg, opts, colorize)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./"+config.DefaultConfigFile+")")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	cmd.Flags().StringVar(&opts.DataPath, "data", "", "Path to the alert CSV file")
	cmd.Flags().BoolVar(&opts.Train, "train", false, "Fit the classifier and print its evaluation report")
	cmd.Flags().BoolVar(&opts.Score, "score", false, "Score rows and write the output file")
	cmd.Flags().StringVar(&opts.OutPath, "out", pipeline.DefaultOutPath, "Output CSV for scores")
	cmd.Flags().BoolVar(&opts.RulesOnly, "rules-only", false, "Skip the classifier even with --train or --score")
	_ = cmd.MarkFlagRequired("data")

	cmd.AddCommand(NewGenerateCmd())
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

// setup loads configuration and applies logging settings, and reports whether
// output may be coloured. A missing default config file is fine; an
// explicitly named one must load.
func setup(cfgFile string, verbose, noColor bool) (bool, error) {
	if cfgFile == "" {
		cfgFile = config.GetEnvString(config.EnvConfigFile, "")
	}

	if cfgFile != "" {
		if _, err := config.Load(cfgFile); err != nil {
			return false, fmt.Errorf("failed to load config %s: %w", cfgFile, err)
		}
	} else if _, err := config.Load(config.DefaultConfigFile); err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("Error loading config: %v, using default config", err)
		}
		config.SetDefault()
	}

	cfg := config.Get()
	cfg.ApplyEnv()
	isVerbose := verbose || cfg.Logging.Verbose
	logger.SetVerbose(isVerbose)

	colorize := !noColor && !cfg.Logging.NoColor && !color.NoColor
	logger.SetColorGetter(func() bool {
		return colorize
	})
	return colorize, nil
}

func runScore(cmd *cobra.Command, cfg *config.Config, opts pipeline.Options, colorize bool) error {
	stdout := cmd.OutOrStdout()
	p := pipeline.New(cfg.Scorer(), cfg.Model)
	p.SetOutput(stdout)

	outcome, err := p.Run(opts)
	if err != nil {
		return err
	}

	if opts.Train || opts.Score {
		if err := report.Print(stdout, outcome, colorize); err != nil {
			logger.Warnf("Failed to summarize scores: %v", err)
		}
	}
	return nil
}
