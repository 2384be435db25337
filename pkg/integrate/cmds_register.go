package integrate

import (
	"github.com/innerr/ticat/pkg/core/model"
	"github.com/innerr/ticat/pkg/ticat"
)

const (
	EnvPrefix = "alert-risk."

	EnvKeyConfigFile = EnvPrefix + "config.file"
	EnvKeyVerbose    = EnvPrefix + "log.verbose"

	EnvKeyData      = EnvPrefix + "data"
	EnvKeyOut       = EnvPrefix + "score.out"
	EnvKeyTrain     = EnvPrefix + "score.train"
	EnvKeyScore     = EnvPrefix + "score.write"
	EnvKeyRulesOnly = EnvPrefix + "score.rules-only"

	EnvKeyGenRows           = EnvPrefix + "generate.rows"
	EnvKeyGenSeed           = EnvPrefix + "generate.seed"
	EnvKeyGenOut            = EnvPrefix + "generate.out"
	EnvKeyGenSpan           = EnvPrefix + "generate.span"
	EnvKeyGenEnd            = EnvPrefix + "generate.end"
	EnvKeyGenMaliciousRatio = EnvPrefix + "generate.malicious-ratio"
)

func RegisterCmds(cmds *model.CmdTree) {
	risk := cmds.AddSub("risk", "r").RegEmptyCmd("alert risk scoring").Owner()

	risk.AddSub("score", "s").RegPowerCmd(RiskScoreCmd,
		"score alerts with rules and an optional classifier blend").
		AddArg("data", "", "d").
		AddArg2Env(EnvKeyData, "data").
		AddEnvOp(EnvKeyData, model.EnvOpTypeRead).
		AddArg("out", "", "o").
		AddArg2Env(EnvKeyOut, "out").
		AddEnvOp(EnvKeyOut, model.EnvOpTypeMayRead).
		AddArg("train", "", "t").
		AddArg2Env(EnvKeyTrain, "train").
		AddEnvOp(EnvKeyTrain, model.EnvOpTypeMayRead).
		AddArg("score", "", "w").
		AddArg2Env(EnvKeyScore, "score").
		AddEnvOp(EnvKeyScore, model.EnvOpTypeMayRead).
		AddArg("rules-only", "", "rules", "ro").
		AddArg2Env(EnvKeyRulesOnly, "rules-only").
		AddEnvOp(EnvKeyRulesOnly, model.EnvOpTypeMayRead).
		AddEnvOp(EnvKeyConfigFile, model.EnvOpTypeMayRead)

	risk.AddSub("generate", "gen", "g").RegPowerCmd(RiskGenerateCmd,
		"generate a labelled synthetic alert dataset").
		AddArg("rows", "", "n").
		AddArg2Env(EnvKeyGenRows, "rows").
		AddEnvOp(EnvKeyGenRows, model.EnvOpTypeMayRead).
		AddArg("seed", "", "s").
		AddArg2Env(EnvKeyGenSeed, "seed").
		AddEnvOp(EnvKeyGenSeed, model.EnvOpTypeMayRead).
		AddArg("out", "", "o").
		AddArg2Env(EnvKeyGenOut, "out").
		AddEnvOp(EnvKeyGenOut, model.EnvOpTypeMayRead).
		AddArg("span", "", "d").
		AddArg2Env(EnvKeyGenSpan, "span").
		AddEnvOp(EnvKeyGenSpan, model.EnvOpTypeMayRead).
		AddArg("end", "", "e").
		AddArg2Env(EnvKeyGenEnd, "end").
		AddEnvOp(EnvKeyGenEnd, model.EnvOpTypeMayRead).
		AddArg("malicious-ratio", "", "ratio", "m").
		AddArg2Env(EnvKeyGenMaliciousRatio, "malicious-ratio").
		AddEnvOp(EnvKeyGenMaliciousRatio, model.EnvOpTypeMayRead).
		AddEnvOp(EnvKeyData, model.EnvOpTypeWrite)
}

func RegisterHelp(tc *ticat.TiCat) {
	tc.SetHelpCmds(
		"risk.score",
		"risk.generate",
	)
}
