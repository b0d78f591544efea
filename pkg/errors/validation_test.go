package errors

import (
	"strings"
	"testing"
)

func TestValidateConceptID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid numeric", "12", false},
		{"valid name", "top", false},
		{"valid with spaces", "concept 7", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConceptID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConceptID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConcept) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConcept)
			}
		})
	}
}

func TestValidateFilterTokens(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"nil", nil, false},
		{"valid", []string{"duck", "swan"}, false},
		{"blank tokens", []string{"", " "}, false},

		{"too many", make([]string, 101), true},
		{"too long", []string{strings.Repeat("a", 257)}, true},
		{"null byte", []string{"a\x00b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilterTokens(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilterTokens() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, padding float64
		minSpacing, maxSpacing float64
		wantErr                bool
	}{
		{"defaults", 0, 0, 0, 0, 0, false},
		{"valid", 800, 600, 50, 80, 150, false},
		{"equal spacing", 800, 600, 50, 100, 100, false},

		{"negative width", -1, 600, 50, 80, 150, true},
		{"negative spacing", 800, 600, 50, -80, 150, true},
		{"padding too wide", 100, 600, 50, 80, 150, true},
		{"inverted spacing", 800, 600, 50, 150, 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height, tt.padding, tt.minSpacing, tt.maxSpacing)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
