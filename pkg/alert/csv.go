package alert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	ds, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Read parses a header-led comma separated alert table. Extra columns are
// ignored; a missing required column or a non-numeric signal is an error.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range InputColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	_, hasLabel := index[ColLabel]

	ds := &Dataset{Header: header, HasLabel: hasLabel}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		a, err := parseRecord(record, index, hasLabel)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Alerts = append(ds.Alerts, a)
	}
	return ds, nil
}

func parseRecord(record []string, index map[string]int, hasLabel bool) (Alert, error) {
	raw := make(map[string]string, len(InputColumns)+1)
	for _, col := range InputColumns {
		raw[col] = record[index[col]]
	}
	if hasLabel {
		raw[ColLabel] = record[index[ColLabel]]
	}

	a := Alert{
		Timestamp: raw[ColTimestamp],
		UserID:    raw[ColUserID],
		AssetID:   raw[ColAssetID],
		EventType: raw[ColEventType],
		Label:     raw[ColLabel],
		raw:       raw,
	}

	signals := []struct {
		col string
		dst *float64
	}{
		{ColAnomalyScore, &a.AnomalyScore},
		{ColOffHours, &a.OffHours},
		{ColFailedLogins24h, &a.FailedLogins24h},
		{ColGeoDistanceKm, &a.GeoDistanceKm},
		{ColProcInjectionFlag, &a.ProcInjectionFlag},
	}
	for _, s := range signals {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw[s.col]), 64)
		if err != nil {
			return Alert{}, fmt.Errorf("column %s: invalid number %q", s.col, raw[s.col])
		}
		*s.dst = v
	}
	return a, nil
}

// Save writes alerts in input format, creating parent directories.
func Save(path string, alerts []Alert, withLabel bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, alerts, withLabel); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func Write(w io.Writer, alerts []Alert, withLabel bool) error {
	columns := InputColumns
	if withLabel {
		columns = append(append([]string{}, InputColumns...), ColLabel)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for i := range alerts {
		for j, col := range columns {
			record[j] = alerts[i].Field(col)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
