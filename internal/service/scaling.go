package service

import (
	"math"
	"regexp"
	"strconv"
)

var quantityPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ScaleIngredient multiplies the first number in an ingredient line and
// prints it with one decimal. Lines without a number are returned unchanged.
func ScaleIngredient(line string, multiplier float64) string {
	loc := quantityPattern.FindStringIndex(line)
	if loc == nil {
		return line
	}
	value, err := strconv.ParseFloat(line[loc[0]:loc[1]], 64)
	if err != nil {
		return line
	}
	scaled := strconv.FormatFloat(value*multiplier, 'f', 1, 64)
	return line[:loc[0]] + scaled + line[loc[1]:]
}

// ScaleServings rounds servings*multiplier half away from zero.
func ScaleServings(servings int, multiplier float64) int {
	return int(math.Round(float64(servings) * multiplier))
}

// ParseMultiplier reads the servings multiplier of a cooking-mode request.
// An empty value means 1.
func ParseMultiplier(raw string) (float64, bool) {
	if raw == "" {
		return 1, true
	}
	m, err := strconv.ParseFloat(raw, 64)
	if err != nil || m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, false
	}
	return m, true
}
