package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		loc     *time.Location
		want    string
		wantErr bool
	}{
		{name: "plain day", input: "2024-03-05", loc: time.UTC, want: "2024-03-05"},
		{name: "surrounding whitespace", input: " 2024-03-05 ", loc: time.UTC, want: "2024-03-05"},
		{name: "RFC3339 in same zone", input: "2024-03-05T10:00:00Z", loc: time.UTC, want: "2024-03-05"},
		{name: "RFC3339 crosses midnight in Tokyo", input: "2024-03-05T20:00:00Z", loc: tokyo, want: "2024-03-06"},
		{name: "local timestamp", input: "2024-03-05T23:59:59", loc: tokyo, want: "2024-03-05"},
		{name: "nil location", input: "2024-03-05", loc: nil, want: "2024-03-05"},
		{name: "garbage", input: "yesterday-ish", loc: time.UTC, wantErr: true},
		{name: "impossible day", input: "2024-02-30", loc: time.UTC, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input, tt.loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoerceDay(t *testing.T) {
	if got := CoerceDay("not a date", "2024-01-10", time.UTC); got != "2024-01-10" {
		t.Errorf("CoerceDay() = %q, want fallback", got)
	}
	if got := CoerceDay("2024-01-03", "2024-01-10", time.UTC); got != "2024-01-03" {
		t.Errorf("CoerceDay() = %q, want parsed day", got)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-03-01", -1)
	if err != nil {
		t.Fatalf("AddDays() error = %v", err)
	}
	if got != "2024-02-29" {
		t.Errorf("AddDays() = %q, want 2024-02-29", got)
	}
}

func TestValidateFormats(t *testing.T) {
	if !ValidateDateFormat("2024-12-31") || ValidateDateFormat("12/31/2024") {
		t.Error("ValidateDateFormat() mismatch")
	}
	if !ValidateTimeFormat("09:30") || ValidateTimeFormat("9.30") {
		t.Error("ValidateTimeFormat() mismatch")
	}
	if !ValidateTimezone("UTC") || ValidateTimezone("Mars/Olympus") {
		t.Error("ValidateTimezone() mismatch")
	}
}
