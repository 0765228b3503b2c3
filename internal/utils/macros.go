package utils

import (
	"math"
	"strings"

	"nutiai.com/nutiai-server/internal/models"
)

// SumMacros adds up the macros of the given meals.
func SumMacros(meals []models.Meal) models.Macros {
	var total models.Macros
	for _, m := range meals {
		total.Calories += m.Calories
		total.Protein += m.Protein
		total.Carbs += m.Carbs
		total.Fats += m.Fats
	}
	return total
}

// CaloriePercentage is consumed/goal as a rounded percentage, capped at 100.
// A goal of zero or less yields 0.
func CaloriePercentage(consumed, goal float64) int {
	if goal <= 0 {
		return 0
	}
	pct := math.Round(consumed / goal * 100)
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// MealNameFromDescription is the text before the first period of a plan
// slot description, used as the name of the meal it logs.
func MealNameFromDescription(description string) string {
	name, _, _ := strings.Cut(description, ".")
	name = strings.TrimSpace(name)
	if name == "" {
		return strings.TrimSpace(description)
	}
	return name
}

// FilterByDate returns the meals logged on date, keeping their order.
func FilterByDate(meals []models.Meal, date string) []models.Meal {
	var out []models.Meal
	for _, m := range meals {
		if m.Date == date {
			out = append(out, m)
		}
	}
	return out
}
