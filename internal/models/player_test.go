package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard guard", "PG", "PG"},
		{"center", "C", "C"},
		{"hybrid guard-forward", "G-F", "G-F"},
		{"hybrid forward-center", "F-C", "F-C"},
		{"lowercase normalized", "sg", "SG"},
		{"surrounding whitespace trimmed", "  SF ", "SF"},
		{"empty falls back to default", "", "F"},
		{"whitespace only falls back", "   ", "F"},
		{"unknown value falls back", "POINT GUARD", "F"},
		{"hyphen without sides falls back", "-", "F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePosition(tt.input))
		})
	}
}
