package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ada@example.com", "ada@example.com"},
		{"ADA@EXAMPLE.COM", "ada@example.com"},
		{"  Ada@Example.com  ", "ada@example.com"},
		{"\tada@example.com\n", "ada@example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in))
	}
}
