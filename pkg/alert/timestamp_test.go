package alert

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"unix_timestamp", "1700000000", time.Unix(1700000000, 0).UTC(), false},
		{"rfc3339", "2023-11-15T10:30:00Z", time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC), false},
		{"rfc3339_offset", "2023-11-15T12:30:00+02:00", time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC), false},
		{"rfc3339_nano", "2023-11-15T10:30:00.123456789Z", time.Date(2023, 11, 15, 10, 30, 0, 123456789, time.UTC), false},
		{"datetime_space", "2023-11-15 10:30:00", time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC), false},
		{"datetime_t", "2023-11-15T10:30:00", time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC), false},
		{"datetime_no_seconds", "2023-11-15 10:30", time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC), false},
		{"date_only", "2023-11-15", time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"invalid", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSpan(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"go_standard", "1h30m", 90 * time.Minute, false},
		{"days", "7d", 7 * 24 * time.Hour, false},
		{"combo_d_h", "1d12h", 36 * time.Hour, false},
		{"combo_all", "1d2h30m15s", 26*time.Hour + 30*time.Minute + 15*time.Second, false},
		{"empty", "", 0, true},
		{"invalid", "abc", 0, true},
		{"trailing_garbage", "7dx", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpan(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSpan(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSpan(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDatasetTimeSpan(t *testing.T) {
	ds := &Dataset{Alerts: []Alert{
		{Timestamp: "2024-03-02 00:00:00"},
		{Timestamp: "not a time"},
		{Timestamp: "2024-03-01 12:00:00"},
		{Timestamp: "2024-03-03"},
	}}

	first, last, ok := ds.TimeSpan()
	if !ok {
		t.Fatal("expected a time span")
	}
	if want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC); !first.Equal(want) {
		t.Errorf("first = %v, want %v", first, want)
	}
	if want := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC); !last.Equal(want) {
		t.Errorf("last = %v, want %v", last, want)
	}

	empty := &Dataset{Alerts: []Alert{{Timestamp: "?"}}}
	if _, _, ok := empty.TimeSpan(); ok {
		t.Error("expected no span when nothing parses")
	}
}
