package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare 10 digits", "9876543210", "+919876543210", false},
		{"already canonical", "+919876543210", "+919876543210", false},
		{"country code without plus", "919876543210", "+919876543210", false},
		{"leading zero", "09876543210", "+919876543210", false},
		{"spaces and dashes", "98765 432-10", "+919876543210", false},
		{"too short", "12345", "", true},
		{"letters", "98765abcde", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
