package integrate

import (
	"fmt"
	"os"

	"alert-risk/pkg/logger"
	"alert-risk/pkg/pipeline"
	"alert-risk/pkg/report"
	"alert-risk/pkg/synth"

	"github.com/innerr/ticat/pkg/core/model"
)

func RiskScoreCmd(
	argv model.ArgVals,
	cc *model.Cli,
	env *model.Env,
	flow *model.ParsedCmds,
	currCmdIdx int) (int, error) {

	if env.GetRaw(EnvKeyData) == "" {
		return currCmdIdx, fmt.Errorf("data is required")
	}

	cfg, err := loadConfig(env)
	if err != nil {
		return currCmdIdx, err
	}
	opts := getScoreOptions(env, cfg)
	if getEnvBool(env, EnvKeyVerbose, false) || cfg.Logging.Verbose {
		logger.SetVerbose(true)
	}

	p := pipeline.New(cfg.Scorer(), cfg.Model)
	outcome, err := p.Run(opts)
	if err != nil {
		return currCmdIdx, err
	}

	if opts.Train || opts.Score {
		colorize := getEnvBool(env, "display.color", false) && !cfg.Logging.NoColor
		if err := report.Print(os.Stdout, outcome, colorize); err != nil {
			logger.Warnf("Failed to summarize scores: %v", err)
		}
	}
	return currCmdIdx, nil
}

func RiskGenerateCmd(
	argv model.ArgVals,
	cc *model.Cli,
	env *model.Env,
	flow *model.ParsedCmds,
	currCmdIdx int) (int, error) {

	cfg, err := loadConfig(env)
	if err != nil {
		return currCmdIdx, err
	}

	sc, out, err := getGenerateParams(env, cfg.Generate)
	if err != nil {
		return currCmdIdx, err
	}

	gen := synth.NewGenerator(sc)
	n, err := gen.WriteFile(out)
	if err != nil {
		return currCmdIdx, err
	}
	fmt.Printf("Wrote %d alerts to %s.\n", n, out)

	env.GetLayer(model.EnvLayerSession).Set(EnvKeyData, out)
	return currCmdIdx, nil
}
