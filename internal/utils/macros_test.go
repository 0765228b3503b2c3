package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nutiai.com/nutiai-server/internal/models"
)

func TestSumMacros(t *testing.T) {
	total := SumMacros([]models.Meal{
		{Calories: 300.5, Protein: 20, Carbs: 30, Fats: 10},
		{Calories: 199.5, Protein: 5, Carbs: 12.25, Fats: 1},
	})
	assert.Equal(t, models.Macros{Calories: 500, Protein: 25, Carbs: 42.25, Fats: 11}, total)
	assert.Equal(t, models.Macros{}, SumMacros(nil))
}

func TestCaloriePercentage(t *testing.T) {
	assert.Equal(t, 50, CaloriePercentage(1000, 2000))
	assert.Equal(t, 33, CaloriePercentage(666, 2000))
	assert.Equal(t, 100, CaloriePercentage(2500, 2000))
	assert.Equal(t, 0, CaloriePercentage(500, 0))
}

func TestMealNameFromDescription(t *testing.T) {
	assert.Equal(t, "Ovos mexidos com pão integral", MealNameFromDescription("Ovos mexidos com pão integral. Café sem açúcar."))
	assert.Equal(t, "Salada verde", MealNameFromDescription("Salada verde"))
	assert.Equal(t, "... e mais", MealNameFromDescription("... e mais"))
}

func TestFilterByDate(t *testing.T) {
	meals := []models.Meal{{ID: "a", Date: "2025-03-02"}, {ID: "b", Date: "2025-03-01"}, {ID: "c", Date: "2025-03-02"}}
	got := FilterByDate(meals, "2025-03-02")
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
