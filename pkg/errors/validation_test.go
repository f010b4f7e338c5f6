package errors

import (
	"strings"
	"testing"
)

func TestValidateModelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "statechart", false},
		{"uuid", "0f6c4f1e-9a1b-4f3e-8f1a-2b7c9d0e1f2a", false},
		{"with dashes and dots", "demo.model-v2", false},
		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"double slash", "a//b", true},
		{"backslash", "a\\b", true},
		{"control char", "a\x01b", true},
		{"too long", strings.Repeat("x", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModelID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateModelID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "$root$Nstate0", false},
		{"long but ok", strings.Repeat("n", 512), false},
		{"empty", "", true},
		{"too long", strings.Repeat("n", 513), true},
		{"control char", "node\n1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
