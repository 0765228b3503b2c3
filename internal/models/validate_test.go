package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullDay() DayPlan {
	detail := MealDetail{Description: "Arroz e feijão.", Calories: 500, Protein: 20, Carbs: 70, Fats: 10}
	return DayPlan{DayName: "Segunda", Breakfast: detail, Lunch: detail, Dinner: detail, Snack: detail}
}

func week() []DayPlan {
	days := make([]DayPlan, PlanDays)
	for i := range days {
		days[i] = fullDay()
	}
	return days
}

func TestMealCandidate_Validate(t *testing.T) {
	ok := MealCandidate{Name: "Ovos", Calories: 150, Protein: 12, Type: Breakfast}
	assert.NoError(t, ok.Validate())

	cases := map[string]MealCandidate{
		"blank name":     {Name: "  ", Type: Lunch},
		"unknown type":   {Name: "Ovos", Type: "brunch"},
		"negative carbs": {Name: "Ovos", Type: Dinner, Carbs: -1},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestValidateDays_ReportsFieldPath(t *testing.T) {
	assert.NoError(t, ValidateDays(week()))
	assert.ErrorIs(t, ValidateDays(week()[:6]), ErrInvalid)

	days := week()
	days[3].Dinner.Description = ""
	err := ValidateDays(days)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "days[3].dinner.description")
}

func TestDietDraft_ValidateChecksTargets(t *testing.T) {
	draft := DietDraft{Name: "Cutting", Targets: DailyGoal{Calories: 1800}, Days: week()}
	assert.NoError(t, draft.Validate())

	draft.Targets.Fats = -5
	assert.ErrorContains(t, draft.Validate(), "targets.fats")
}

func TestWorkoutDraft_Validate(t *testing.T) {
	session := WorkoutSession{
		DayName:   "Treino A",
		Focus:     "Pernas",
		Exercises: []Exercise{{Name: "Agachamento", Sets: 4, Reps: "10", Rest: "90s"}},
	}
	assert.NoError(t, WorkoutDraft{Name: "Força", Sessions: []WorkoutSession{session}}.Validate())
	assert.ErrorIs(t, WorkoutDraft{Name: "Força"}.Validate(), ErrInvalid)

	session.Exercises[0].Sets = 0
	assert.ErrorContains(t, ValidateSessions([]WorkoutSession{session}), "sessions[0].exercises[0].sets")
}

func TestUserProfile_Validate(t *testing.T) {
	assert.NoError(t, UserProfile{Name: "Ana", Email: "ana@example.com"}.Validate())
	assert.ErrorIs(t, UserProfile{Name: "Ana", Email: "ana"}.Validate(), ErrInvalid)
	assert.ErrorIs(t, UserProfile{Name: "", Email: "ana@example.com"}.Validate(), ErrInvalid)
}

func TestValidateMeals_StoredEntries(t *testing.T) {
	meal := Meal{ID: "m1", Name: "Ovos", Calories: 150, Type: Breakfast, Date: "2025-03-10"}
	assert.NoError(t, ValidateMeals([]Meal{meal}))
	assert.NoError(t, ValidateMeals(nil))

	noDate := meal
	noDate.Date = "10/03/2025"
	assert.ErrorIs(t, ValidateMeals([]Meal{meal, noDate}), ErrInvalid)

	noID := meal
	noID.ID = ""
	assert.ErrorContains(t, ValidateMeals([]Meal{noID}), "meals[0].id")
}

func TestValidateSavedDiets(t *testing.T) {
	diet := SavedDiet{ID: "d1", Name: "Bulking", Days: week()}
	assert.NoError(t, ValidateSavedDiets([]SavedDiet{diet}))

	diet.Days = nil
	assert.ErrorIs(t, ValidateSavedDiets([]SavedDiet{diet}), ErrInvalid)
}
