package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"alert-risk/pkg/alert"
	"alert-risk/pkg/lock"
	"alert-risk/pkg/logger"
	"alert-risk/pkg/model"
	"alert-risk/pkg/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "timestamp,user_id,asset_id,event_type,anomaly_score,off_hours,failed_logins_24h,geo_distance_km,proc_injection_flag"

// labeledCSV builds n rows where odd rows look malicious and carry label 1.
func labeledCSV(n int) string {
	var sb strings.Builder
	sb.WriteString(header + ",label\n")
	for i := 0; i < n; i++ {
		if i%2 == 1 {
			fmt.Fprintf(&sb, "2024-03-01 02:%02d:00,user%d,host-%d,process_start,0.%d5,1,%d,%d,1,1\n",
				i%60, i, i%7, 7+i%3, 8+i%5, 4000+i*10)
		} else {
			fmt.Fprintf(&sb, "2024-03-01 11:%02d:00,user%d,host-%d,login,0.%d0,0,%d,%d,0,0\n",
				i%60, i, i%7, 1+i%3, i%2, i*5)
		}
	}
	return sb.String()
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alerts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readOutput(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nil) })
	return &buf
}

func newTestPipeline() (*Pipeline, *bytes.Buffer) {
	p := New(scoring.NewScorer(), model.DefaultConfig())
	var stdout bytes.Buffer
	p.SetOutput(&stdout)
	return p, &stdout
}

func TestRunRuleOnlyWithoutLabel(t *testing.T) {
	input := header + "\n" +
		"2024-03-01 02:15:00,alice,host-1,login,0.9,1,20,6000,1\n" +
		"2024-03-01 10:00:00,bob,host-2,login,0.50,0,5,2500,0\n"
	data := writeInput(t, input)
	out := filepath.Join(t.TempDir(), "results.csv")
	logs := captureLogs(t)

	p, stdout := newTestPipeline()
	outcome, err := p.Run(Options{DataPath: data, OutPath: out, Score: true})
	require.NoError(t, err)

	assert.False(t, outcome.Blended)
	assert.Nil(t, outcome.Report)
	assert.Equal(t, out, outcome.Written)
	assert.Contains(t, logs.String(), "[WARN]")
	assert.Contains(t, logs.String(), "falling back to rules only")
	assert.Equal(t, fmt.Sprintf("Wrote %s with risk scores.\n", out), stdout.String())

	records := readOutput(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, OutputColumns, records[0])

	assert.Equal(t, "0.9", records[1][4])
	score, err := strconv.ParseFloat(records[1][9], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.14, score, 1e-9)
	assert.Equal(t, "High", records[1][10])

	assert.Equal(t, "0.50", records[2][4])
	score, err = strconv.ParseFloat(records[2][9], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, score, 1e-9)
	assert.Equal(t, "Low", records[2][10])
}

func TestRunBlendsWithLabels(t *testing.T) {
	data := writeInput(t, labeledCSV(60))
	out := filepath.Join(t.TempDir(), "results.csv")
	logs := captureLogs(t)

	p, stdout := newTestPipeline()
	outcome, err := p.Run(Options{DataPath: data, OutPath: out, Score: true})
	require.NoError(t, err)

	require.True(t, outcome.Blended, logs.String())
	require.NotNil(t, outcome.Report)
	assert.Equal(t, 18, outcome.Report.Total)
	assert.Contains(t, stdout.String(), "ML classification report (demo):\n")
	assert.Contains(t, stdout.String(), "weighted avg")
	assert.True(t, strings.HasSuffix(stdout.String(), "Wrote "+out+" with risk scores.\n"))

	for _, r := range outcome.Results {
		assert.GreaterOrEqual(t, r.MLProb, 0.0)
		assert.LessOrEqual(t, r.MLProb, 1.0)
		assert.InDelta(t, 0.6*r.RuleScore+0.4*r.MLProb, r.BlendScore, 1e-12)
		assert.Equal(t, scoring.TierOf(r.BlendScore), r.BlendRisk)
	}

	records := readOutput(t, out)
	require.Len(t, records, 61)
	assert.Equal(t, Columns(true), records[0])
	for _, rec := range records[1:] {
		assert.Len(t, rec, 14)
	}
}

func TestRunRulesOnlySkipsClassifier(t *testing.T) {
	data := writeInput(t, labeledCSV(20))
	out := filepath.Join(t.TempDir(), "results.csv")
	logs := captureLogs(t)

	p, stdout := newTestPipeline()
	outcome, err := p.Run(Options{DataPath: data, OutPath: out, Score: true, RulesOnly: true})
	require.NoError(t, err)

	assert.False(t, outcome.Blended)
	assert.NotContains(t, stdout.String(), "classification report")
	assert.NotContains(t, logs.String(), "falling back")
	assert.Equal(t, OutputColumns, readOutput(t, out)[0])
}

func TestRunTrainWithoutScoreWritesNothing(t *testing.T) {
	data := writeInput(t, labeledCSV(20))
	dir := t.TempDir()
	out := filepath.Join(dir, "results.csv")
	captureLogs(t)

	p, stdout := newTestPipeline()
	outcome, err := p.Run(Options{DataPath: data, OutPath: out, Train: true})
	require.NoError(t, err)

	assert.True(t, outcome.Blended)
	assert.Empty(t, outcome.Written)
	assert.Contains(t, stdout.String(), "ML classification report (demo):")
	assert.NotContains(t, stdout.String(), "Wrote")
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithoutFlagsOnlyScoresRules(t *testing.T) {
	data := writeInput(t, labeledCSV(10))
	p, stdout := newTestPipeline()

	outcome, err := p.Run(Options{DataPath: data})
	require.NoError(t, err)
	assert.False(t, outcome.Blended)
	assert.Len(t, outcome.Results, 10)
	assert.Empty(t, stdout.String())
}

func TestRunSingleClassFallsBack(t *testing.T) {
	input := header + ",label\n"
	for i := 0; i < 10; i++ {
		input += fmt.Sprintf("2024-03-01 10:00:00,u%d,h,login,0.1,0,0,0,0,0\n", i)
	}
	data := writeInput(t, input)
	out := filepath.Join(t.TempDir(), "results.csv")
	logs := captureLogs(t)

	p, _ := newTestPipeline()
	outcome, err := p.Run(Options{DataPath: data, OutPath: out, Score: true})
	require.NoError(t, err)
	assert.False(t, outcome.Blended)
	assert.Contains(t, logs.String(), model.ErrSingleClass.Error())
	assert.Equal(t, OutputColumns, readOutput(t, out)[0])
}

func TestRunIsDeterministic(t *testing.T) {
	data := writeInput(t, labeledCSV(50))
	dir := t.TempDir()
	captureLogs(t)

	var files [][]byte
	for _, name := range []string{"first.csv", "second.csv"} {
		p, _ := newTestPipeline()
		out := filepath.Join(dir, name)
		_, err := p.Run(Options{DataPath: data, OutPath: out, Score: true})
		require.NoError(t, err)
		content, err := os.ReadFile(out)
		require.NoError(t, err)
		files = append(files, content)
	}
	assert.Equal(t, files[0], files[1])
}

func TestRunErrors(t *testing.T) {
	captureLogs(t)

	t.Run("missing input", func(t *testing.T) {
		p, _ := newTestPipeline()
		_, err := p.Run(Options{DataPath: filepath.Join(t.TempDir(), "nope.csv"), Score: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing column", func(t *testing.T) {
		data := writeInput(t, "timestamp,user_id\n2024-03-01,alice\n")
		p, _ := newTestPipeline()
		_, err := p.Run(Options{DataPath: data, Score: true})
		assert.ErrorIs(t, err, alert.ErrMissingColumn)
	})

	t.Run("output locked", func(t *testing.T) {
		data := writeInput(t, labeledCSV(4))
		out := filepath.Join(t.TempDir(), "results.csv")
		held, err := lock.TryLock(out)
		require.NoError(t, err)
		defer held.Unlock()

		p, _ := newTestPipeline()
		_, err = p.Run(Options{DataPath: data, OutPath: out, Score: true, RulesOnly: true})
		assert.ErrorIs(t, err, lock.ErrLocked)
	})
}

func TestWriteResultsReplacesStaleTemp(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(lock.TempPath(out), []byte("partial"), 0644))
	require.NoError(t, os.WriteFile(out+".99.tmp", []byte("partial"), 0644))

	ds, err := alert.Read(strings.NewReader(labeledCSV(3)))
	require.NoError(t, err)
	require.NoError(t, WriteResults(out, ScoreRules(scoring.NewScorer(), ds), false))

	assert.Len(t, readOutput(t, out), 4)
	for _, leftover := range []string{lock.TempPath(out), out + ".99.tmp"} {
		_, err := os.Stat(leftover)
		assert.True(t, os.IsNotExist(err), leftover)
	}
}

func TestOptions(t *testing.T) {
	cases := []struct {
		opts  Options
		blend bool
	}{
		{Options{}, false},
		{Options{Train: true}, true},
		{Options{Score: true}, true},
		{Options{Train: true, Score: true, RulesOnly: true}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.blend, c.opts.BlendEnabled(), "%+v", c.opts)
	}
	assert.Equal(t, "results.csv", Options{}.GetOutPath())
	assert.Equal(t, "x.csv", Options{OutPath: "x.csv"}.GetOutPath())
}
