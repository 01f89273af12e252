package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleIngredient(t *testing.T) {
	tests := []struct {
		line string
		m    float64
		want string
	}{
		{"2 cups Flour", 2, "4.0 cups Flour"},
		{"1 tsp Salt", 2, "2.0 tsp Salt"},
		{"0.5 kg potatoes", 3, "1.5 kg potatoes"},
		{"Salt to taste", 2, "Salt to taste"},
		{"1 1/2 cups stock", 2, "2.0 1/2 cups stock"},
		{"eggs x3", 0.5, "eggs x1.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScaleIngredient(tt.line, tt.m), tt.line)
	}
}

func TestScaleServings(t *testing.T) {
	assert.Equal(t, 8, ScaleServings(4, 2))
	assert.Equal(t, 2, ScaleServings(3, 0.5))
	assert.Equal(t, 1, ScaleServings(1, 1.4))
}

func TestParseMultiplier(t *testing.T) {
	m, ok := ParseMultiplier("")
	assert.True(t, ok)
	assert.Equal(t, 1.0, m)

	m, ok = ParseMultiplier("1.5")
	assert.True(t, ok)
	assert.Equal(t, 1.5, m)

	for _, raw := range []string{"0", "-2", "abc", "NaN", "Inf"} {
		_, ok := ParseMultiplier(raw)
		assert.False(t, ok, raw)
	}
}
