package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		major float64
		want  int64
	}{
		{0, 0},
		{1, 100},
		{19.99, 1999},
		{19.995, 2000},
		{0.005, 1},
		{500, 50000},
		{499.999, 50000},
		{0.004, 0},
		{123.45, 12345},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.major), "ToMinorUnits(%v)", tt.major)
	}
}

func TestFromMinorUnits(t *testing.T) {
	tests := []struct {
		minor int64
		want  float64
	}{
		{0, 0},
		{100, 1},
		{50000, 500},
		{1999, 19.99},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromMinorUnits(tt.minor), "FromMinorUnits(%d)", tt.minor)
	}
}
