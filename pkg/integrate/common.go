package integrate

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/config"
	"alert-risk/pkg/pipeline"
	"alert-risk/pkg/synth"

	"github.com/innerr/ticat/pkg/core/model"
)

func getEnvString(env *model.Env, key, def string) string {
	v := env.GetRaw(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt64(env *model.Env, key string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(env.GetRaw(key)), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(env *model.Env, key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(env.GetRaw(key)), 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(env *model.Env, key string, def bool) bool {
	s := strings.ToLower(strings.TrimSpace(env.GetRaw(key)))
	switch s {
	case "":
		return def
	case "on", "yes", "y":
		return true
	case "off", "no", "n":
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return def
}

// loadConfig reads the file named by the env, or the default file when it
// exists.
func loadConfig(env *model.Env) (*config.Config, error) {
	path := env.GetRaw(EnvKeyConfigFile)
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(config.DefaultConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config %s: %w", config.DefaultConfigFile, err)
		}
		config.SetDefault()
		cfg = config.Get()
	}
	return cfg, nil
}

// getScoreOptions overlays env values on the output section of cfg.
func getScoreOptions(env *model.Env, cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		DataPath:  env.GetRaw(EnvKeyData),
		OutPath:   getEnvString(env, EnvKeyOut, cfg.Output.GetPath()),
		Train:     getEnvBool(env, EnvKeyTrain, false),
		Score:     getEnvBool(env, EnvKeyScore, true),
		RulesOnly: getEnvBool(env, EnvKeyRulesOnly, false),
	}
}

// getGenerateParams overlays env values on the generate section of the
// config and returns the generator config and output path.
func getGenerateParams(env *model.Env, gc config.GenerateConfig) (synth.Config, string, error) {
	sc := synth.Config{
		Rows:           int(getEnvInt64(env, EnvKeyGenRows, int64(gc.GetRows()))),
		Seed:           getEnvInt64(env, EnvKeyGenSeed, gc.Seed),
		Span:           gc.GetSpan(),
		MaliciousRatio: getEnvFloat(env, EnvKeyGenMaliciousRatio, gc.GetMaliciousRatio()),
	}
	if s := env.GetRaw(EnvKeyGenSpan); s != "" {
		d, err := alert.ParseSpan(s)
		if err != nil {
			return synth.Config{}, "", err
		}
		sc.Span = d
	}
	if s := env.GetRaw(EnvKeyGenEnd); s != "" {
		t, err := alert.ParseTimestamp(s)
		if err != nil {
			return synth.Config{}, "", err
		}
		sc.End = t
	} else {
		sc.End = time.Now().UTC().Truncate(time.Second)
	}

	out := getEnvString(env, EnvKeyGenOut, gc.Out)
	if out == "" {
		out = "synthetic_alerts.csv"
	}
	return sc, out, nil
}
