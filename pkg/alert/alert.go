// Package alert holds the alert row model and the delimited-file ingest path.
package alert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ColTimestamp         = "timestamp"
	ColUserID            = "user_id"
	ColAssetID           = "asset_id"
	ColEventType         = "event_type"
	ColAnomalyScore      = "anomaly_score"
	ColOffHours          = "off_hours"
	ColFailedLogins24h   = "failed_logins_24h"
	ColGeoDistanceKm     = "geo_distance_km"
	ColProcInjectionFlag = "proc_injection_flag"
	ColLabel             = "label"
)

// InputColumns are required in every input file, in output order.
var InputColumns = []string{
	ColTimestamp,
	ColUserID,
	ColAssetID,
	ColEventType,
	ColAnomalyScore,
	ColOffHours,
	ColFailedLogins24h,
	ColGeoDistanceKm,
	ColProcInjectionFlag,
}

// FeatureColumns is the classifier feature order.
var FeatureColumns = []string{
	ColAnomalyScore,
	ColOffHours,
	ColFailedLogins24h,
	ColGeoDistanceKm,
	ColProcInjectionFlag,
}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoLabel       = errors.New("dataset has no label column")
	ErrEmptyInput    = errors.New("empty input")
)

type Alert struct {
	Timestamp string
	UserID    string
	AssetID   string
	EventType string

	AnomalyScore      float64
	OffHours          float64
	FailedLogins24h   float64
	GeoDistanceKm     float64
	ProcInjectionFlag float64

	// Label is the raw ground-truth cell, empty when the input has none.
	Label string

	raw map[string]string
}

// Features returns the signals in FeatureColumns order.
func (a *Alert) Features() []float64 {
	return []float64{
		a.AnomalyScore,
		a.OffHours,
		a.FailedLogins24h,
		a.GeoDistanceKm,
		a.ProcInjectionFlag,
	}
}

// Field returns the text of a column. Values read from a file come back
// exactly as they were read.
func (a *Alert) Field(col string) string {
	if v, ok := a.raw[col]; ok {
		return v
	}
	switch col {
	case ColTimestamp:
		return a.Timestamp
	case ColUserID:
		return a.UserID
	case ColAssetID:
		return a.AssetID
	case ColEventType:
		return a.EventType
	case ColAnomalyScore:
		return formatFloat(a.AnomalyScore)
	case ColOffHours:
		return formatFloat(a.OffHours)
	case ColFailedLogins24h:
		return formatFloat(a.FailedLogins24h)
	case ColGeoDistanceKm:
		return formatFloat(a.GeoDistanceKm)
	case ColProcInjectionFlag:
		return formatFloat(a.ProcInjectionFlag)
	case ColLabel:
		return a.Label
	}
	return ""
}

func (a *Alert) Time() (time.Time, bool) {
	t, err := ParseTimestamp(a.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type Dataset struct {
	Header   []string
	Alerts   []Alert
	HasLabel bool
}

func (d *Dataset) Len() int {
	return len(d.Alerts)
}

func (d *Dataset) Features() [][]float64 {
	x := make([][]float64, len(d.Alerts))
	for i := range d.Alerts {
		x[i] = d.Alerts[i].Features()
	}
	return x
}

// Labels parses the label column as 0/1 class ids.
func (d *Dataset) Labels() ([]int, error) {
	if !d.HasLabel {
		return nil, ErrNoLabel
	}
	y := make([]int, len(d.Alerts))
	for i := range d.Alerts {
		v, err := parseLabel(d.Alerts[i].Label)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		y[i] = v
	}
	return y, nil
}

func parseLabel(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid label %q", s)
	}
	switch f {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	}
	return 0, fmt.Errorf("label must be 0 or 1, got %q", s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
