package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreExperience(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		min, max int
		want     float64
	}{
		{"no requirement", 0, 0, 0, 100},
		{"no requirement with experience", 12, 0, 0, 100},
		{"within range", 7, 5, 10, 100},
		{"at lower bound", 5, 5, 10, 100},
		{"at upper bound", 10, 5, 10, 100},
		{"one year under", 4, 5, 10, 80},
		{"three years under", 2, 5, 10, 40},
		{"far under floors at zero", 0, 8, 10, 0},
		{"one year over", 11, 5, 10, 95},
		{"four years over", 14, 5, 10, 80},
		{"far over floors at seventy", 30, 5, 10, 70},
		{"fractional under", 4.5, 5, 10, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreExperience(tt.years, tt.min, tt.max), 1e-9)
		})
	}
}
