package language

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en_gb", "en-GB"},
		{"zh-hant", "zh-Hant"},
	}
	for _, tt := range tests {
		got, err := Canonical(tt.input)
		if err != nil {
			t.Fatalf("Canonical(%q) error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
	if _, err := Canonical(""); err == nil {
		t.Fatal("expected error for empty code")
	}
	if _, err := Canonical("not a language"); err == nil {
		t.Fatal("expected error for malformed code")
	}
}

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"en-US", "en"},
		{"fr-CA", "fr"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToISO3(t *testing.T) {
	if got := ToISO3("en"); got != "eng" {
		t.Errorf("ToISO3(en) = %q", got)
	}
	if got := ToISO3("de-AT"); got != "deu" {
		t.Errorf("ToISO3(de-AT) = %q", got)
	}
	if got := ToISO3(""); got != "und" {
		t.Errorf("ToISO3(\"\") = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("fr"); got != "French" {
		t.Errorf("DisplayName(fr) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Errorf("DisplayName(\"\") = %q", got)
	}
}
