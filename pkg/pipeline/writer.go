package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/lock"
	"alert-risk/pkg/logger"
)

const (
	ColRuleScore  = "rule_score"
	ColRuleRisk   = "rule_risk"
	ColMLProb     = "ml_prob"
	ColBlendScore = "blend_score"
	ColBlendRisk  = "blend_risk"
)

// OutputColumns is the rule-only output layout.
var OutputColumns = append(append([]string{}, alert.InputColumns...), ColRuleScore, ColRuleRisk)

// BlendColumns follow OutputColumns when the classifier stage succeeded.
var BlendColumns = []string{ColMLProb, ColBlendScore, ColBlendRisk}

func Columns(blended bool) []string {
	if !blended {
		return OutputColumns
	}
	return append(append([]string{}, OutputColumns...), BlendColumns...)
}

// WriteResults stages the output in a temp file next to path and renames it
// into place while holding path's lock.
func WriteResults(path string, results []Result, blended bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	fl, err := lock.TryLock(path)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	if cleaned, err := lock.CleanupTempFiles(path); err != nil {
		logger.Warnf("Failed to clean stale temp files for %s: %v", path, err)
	} else if cleaned > 0 {
		logger.Infof("Removed %d stale temp file(s) for %s", cleaned, path)
	}

	tmpPath := lock.TempPath(path)
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := Write(file, results, blended); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func Write(w io.Writer, results []Result, blended bool) error {
	columns := Columns(blended)
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, r := range results {
		for i, col := range alert.InputColumns {
			record[i] = r.Alert.Field(col)
		}
		n := len(alert.InputColumns)
		record[n] = formatFloat(r.RuleScore)
		record[n+1] = r.RuleRisk.String()
		if blended {
			record[n+2] = formatFloat(r.MLProb)
			record[n+3] = formatFloat(r.BlendScore)
			record[n+4] = r.BlendRisk.String()
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
