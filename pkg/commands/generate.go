package commands

import (
	"fmt"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/config"
	"alert-risk/pkg/logger"
	"alert-risk/pkg/synth"

	"github.com/spf13/cobra"
)

func NewGenerateCmd() *cobra.Command {
	var rows int
	var seed int64
	var out string
	var span string
	var end string
	var maliciousRatio float64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a labelled synthetic alert dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := config.Get().Generate
			flags := cmd.Flags()
			if !flags.Changed("rows") {
				rows = gc.GetRows()
			}
			if !flags.Changed("seed") && gc.Seed != 0 {
				seed = gc.Seed
			}
			if !flags.Changed("out") && gc.Out != "" {
				out = gc.Out
			}
			if !flags.Changed("malicious-ratio") {
				maliciousRatio = gc.GetMaliciousRatio()
			}

			spanDuration := gc.GetSpan()
			if flags.Changed("span") {
				d, err := alert.ParseSpan(span)
				if err != nil {
					return err
				}
				spanDuration = d
			}

			synthConfig := synth.Config{
				Rows:           rows,
				Seed:           seed,
				Span:           spanDuration,
				MaliciousRatio: maliciousRatio,
			}
			if end != "" {
				t, err := alert.ParseTimestamp(end)
				if err != nil {
					return err
				}
				synthConfig.End = t
			}

			gen := synth.NewGenerator(synthConfig)
			logger.Infof("Generating %d alerts over %s (seed %d)", gen.Config().Rows, gen.Config().Span, seed)
			n, err := gen.WriteFile(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d alerts to %s.\n", n, out)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1000, "Number of rows to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	cmd.Flags().StringVar(&out, "out", "synthetic_alerts.csv", "Output CSV path")
	cmd.Flags().StringVar(&span, "span", "7d", "Time span covered by the timestamps (e.g., 7d, 12h, 1d6h)")
	cmd.Flags().StringVar(&end, "end", "", "Newest timestamp (default now)")
	cmd.Flags().Float64Var(&maliciousRatio, "malicious-ratio", 0.1, "Fraction of malicious rows, in (0, 1)")
	return cmd
}
