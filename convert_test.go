package ighist

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{"plain number", "5000", "5000", true},
		{"negative", "-2600", "-2600", true},
		{"decimal", "62.43", "62.43", true},
		{"thousands separator", "2,684.87", "2684.87", true},
		{"currency symbol stripped", "E12.50", "12.5", true},
		{"empty means absent", "", "0", false},
		{"dash means absent", "-", "0", false},
		{"padded dash means absent", " - ", "0", false},
		{"garbage parses as zero", "n/a", "0", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseAmount(tc.value)
			if ok != tc.ok {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tc.value, ok, tc.ok)
			}
			if got.String() != tc.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}

func TestParseBrokerDate(t *testing.T) {
	got, err := ParseBrokerDate("15/06/2020")
	if err != nil {
		t.Fatalf("ParseBrokerDate() error = %v", err)
	}
	want := day(2020, time.June, 15)
	if !got.Equal(want) {
		t.Errorf("ParseBrokerDate() = %v, want %v", got, want)
	}

	if _, err := ParseBrokerDate("2020-06-15"); err == nil {
		t.Error("ParseBrokerDate() should reject ISO dates")
	}
}

func TestTimestampFromComponents(t *testing.T) {
	got, err := TimestampFromComponents("15/06/2020", "14:30:05")
	if err != nil {
		t.Fatalf("TimestampFromComponents() error = %v", err)
	}
	want := time.Date(2020, time.June, 15, 14, 30, 5, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("TimestampFromComponents() = %v, want %v", got, want)
	}

	t.Run("empty time means midnight", func(t *testing.T) {
		got, err := TimestampFromComponents("15/06/2020", "")
		if err != nil {
			t.Fatalf("TimestampFromComponents() error = %v", err)
		}
		if !got.Equal(day(2020, time.June, 15)) {
			t.Errorf("TimestampFromComponents() = %v, want midnight", got)
		}
	})
}
