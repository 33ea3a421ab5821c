package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Swedish Basics", "Swedish Basics"},
		{"script tag stripped", `<script>alert("x")</script>Basics`, "Basics"},
		{"markup stripped, text kept", "<b>French</b> Vocabulary", "French Vocabulary"},
		{"whitespace trimmed", "  trimmed  ", "trimmed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jo@example.com", NormalizeEmail("  Jo@Example.COM "))
}
