package integrate

import (
	"fmt"
	"os"
	"path/filepath"

	"alert-risk/pkg/logger"

	"github.com/innerr/ticat/pkg/core/model"
	"github.com/innerr/ticat/pkg/ticat"
)

const ModName = "alert-risk 1.0"

var buildInfo struct {
	gitHash   string
	dirty     bool
	buildTime string
}

func SetBuildInfo(gitHash string, dirty bool, buildTime string) {
	buildInfo.gitHash = gitHash
	buildInfo.dirty = dirty
	buildInfo.buildTime = buildTime
}

// ModVersion is the version line shown by ticat, stamped with the git hash
// and build time when they were set.
func ModVersion() string {
	v := ModName
	if buildInfo.gitHash != "" {
		v += " " + buildInfo.gitHash
		if buildInfo.dirty {
			v += "-dirty"
		}
	}
	if buildInfo.buildTime != "" {
		v += " built " + buildInfo.buildTime
	}
	return v
}

func Integrate(tc *ticat.TiCat) error {
	execPath, err := os.Executable()
	if err != nil {
		execPath = "."
	}
	envPath := filepath.Join(filepath.Dir(execPath), "alert-risk.env")

	if err := tc.LoadEnvFile(envPath); err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}

	tc.AddIntegratedModVersion(ModVersion())

	defEnv := tc.Env.GetLayer(model.EnvLayer3RdDefault)

	defEnv.Set("sys.hub.init-repo", "")
	defEnv.SetBool("display.utf8", false)
	defEnv.SetBool("display.meow", false)
	defEnv.SetBool("display.color", true)
	defEnv.SetBool(EnvKeyVerbose, false)

	defEnv.SetBool(EnvKeyTrain, false)
	defEnv.SetBool(EnvKeyScore, true)
	defEnv.SetBool(EnvKeyRulesOnly, false)

	defEnv.SetInt(EnvKeyGenRows, 1000)
	defEnv.SetInt(EnvKeyGenSeed, 42)
	defEnv.Set(EnvKeyGenOut, "synthetic_alerts.csv")
	defEnv.Set(EnvKeyGenSpan, "7d")
	defEnv.Set(EnvKeyGenMaliciousRatio, "0.1")

	RegisterCmds(tc.Cmds)
	RegisterHelp(tc)

	if tc.Env.GetBool(EnvKeyVerbose) {
		logger.SetVerbose(true)
	}
	logger.SetColorGetter(func() bool {
		return tc.Env.GetBool("display.color")
	})

	return nil
}
