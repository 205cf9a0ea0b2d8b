package timeparse

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected float64
	}{
		{"Minute and seconds", "01:30", 90},
		{"Hour form", "01:00:30", 3630},
		{"Zero", "00:00", 0},
		{"Fractional seconds", "00:12.5", 12.5},
		{"Fractional with hours", "00:01:30.25", 90.25},
		{"Large minutes", "90:00", 5400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.token)
			if err != nil {
				t.Fatalf("ParseClock(%q) returned error: %v", tt.token, err)
			}
			if got != tt.expected {
				t.Errorf("ParseClock(%q) = %v; want %v", tt.token, got, tt.expected)
			}
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"Single part", "90"},
		{"Four parts", "00:00:00:00"},
		{"Empty", ""},
		{"Non-numeric", "aa:bb"},
		{"Negative part", "-1:30"},
		{"Trailing garbage", "01:30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClock(tt.token)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ParseClock(%q) error = %v; want ErrInvalidFormat", tt.token, err)
			}
		})
	}
}

func TestSpec_Seconds(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		expected float64
	}{
		{"Plain number", Number(5), 5},
		{"Fractional number", Number(2.5), 2.5},
		{"Clock string", Text("01:30"), 90},
		{"Hour clock string", Text("01:00:30"), 3630},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Seconds()
			if err != nil {
				t.Fatalf("Seconds() returned error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Seconds() = %v; want %v", got, tt.expected)
			}
		})
	}
}

func TestSpec_Seconds_Errors(t *testing.T) {
	if _, err := Number(-1).Seconds(); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative number error = %v; want ErrInvalidValue", err)
	}
	if _, err := (Spec{}).Seconds(); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("absent spec error = %v; want ErrInvalidValue", err)
	}
	if _, err := Text("nope").Seconds(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("bad token error = %v; want ErrInvalidFormat", err)
	}
}

func TestSpec_SecondsOr(t *testing.T) {
	got, err := (Spec{}).SecondsOr(7)
	if err != nil {
		t.Fatalf("SecondsOr returned error: %v", err)
	}
	if got != 7 {
		t.Errorf("SecondsOr(7) on absent spec = %v; want 7", got)
	}

	got, err = Number(5).SecondsOr(7)
	if err != nil {
		t.Fatalf("SecondsOr returned error: %v", err)
	}
	if got != 5 {
		t.Errorf("SecondsOr(7) on Number(5) = %v; want 5", got)
	}
}

func TestSpec_UnmarshalYAML(t *testing.T) {
	var doc struct {
		Start Spec `yaml:"start"`
		End   Spec `yaml:"end"`
		Gone  Spec `yaml:"gone"`
	}

	input := "start: 12.5\nend: \"01:30\"\ngone: null\n"
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got, _ := doc.Start.Seconds(); got != 12.5 {
		t.Errorf("start = %v; want 12.5", got)
	}
	if got, _ := doc.End.Seconds(); got != 90 {
		t.Errorf("end = %v; want 90", got)
	}
	if doc.Gone.IsSet() {
		t.Error("null field should be absent")
	}
}

func TestSpec_UnmarshalYAML_NonScalar(t *testing.T) {
	var doc struct {
		Start Spec `yaml:"start"`
	}
	err := yaml.Unmarshal([]byte("start: [1, 2]\n"), &doc)
	if err == nil {
		t.Fatal("expected error for sequence node")
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"Zero", 0, "00:00:00.00"},
		{"Ninety seconds", 90, "00:01:30.00"},
		{"Complex time", 3661, "01:01:01.00"},
		{"Fractional", 30.53, "00:00:30.53"},
		{"Sub-second", 0.5, "00:00:00.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSeconds(tt.seconds); got != tt.expected {
				t.Errorf("FormatSeconds(%.2f) = %s; want %s", tt.seconds, got, tt.expected)
			}
		})
	}
}
