package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		part  int64
		total int64
		want  float64
	}{
		{"zero total", 0, 0, 0},
		{"none", 0, 4, 0},
		{"all", 4, 4, 100},
		{"two of three", 2, 3, 66.67},
		{"one of three", 1, 3, 33.33},
		{"one of eight", 1, 8, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.part, tt.total))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, -2.5, Round2(-2.499999))
	assert.Equal(t, 3.0, Round2(3))
}
