package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutiai.com/nutiai-server/internal/models"
)

func TestMealLine(t *testing.T) {
	line := MealLine(models.Breakfast, models.MealDetail{Description: "Aveia com banana", Calories: 350, Protein: 12.5, Carbs: 60, Fats: 6})
	assert.Equal(t, "Café da Manhã: Aveia com banana (350kcal | P: 12.5g | C: 60g | G: 6g)", line)
}

func TestExerciseLine(t *testing.T) {
	line := ExerciseLine(1, models.Exercise{Name: "Supino Reto", Sets: 3, Reps: "8-12", Rest: "60s"})
	assert.Equal(t, "1. Supino Reto | 3 séries x 8-12 (Descanso: 60s)", line)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Minha_Dieta_de_Verão.pdf", Filename("Minha Dieta  de\tVerão"))
}

func TestDietPDF(t *testing.T) {
	days := make([]models.DayPlan, models.PlanDays)
	for i := range days {
		detail := models.MealDetail{Description: "Frango grelhado com batata-doce, brócolis e azeite de oliva extra virgem, servido com salada verde.", Calories: 520, Protein: 40, Carbs: 45, Fats: 15}
		days[i] = models.DayPlan{DayName: fmt.Sprintf("Dia %d", i+1), Breakfast: detail, Lunch: detail, Dinner: detail, Snack: detail}
	}
	diet := models.SavedDiet{
		ID: "d1", Name: "Plano Ação", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Targets: models.DefaultBaseGoal, Days: days,
	}

	var buf bytes.Buffer
	require.NoError(t, DietPDF(&buf, diet))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.NotContains(t, buf.String(), "/Count 1\n", "seven days do not fit on one page")
}

func TestWorkoutPDF(t *testing.T) {
	workout := models.SavedWorkout{
		ID: "w1", Name: "ABC", CreatedAt: time.Now(),
		Sessions: []models.WorkoutSession{{
			DayName: "Treino A", Focus: "Pernas",
			Exercises: []models.Exercise{{Name: "Agachamento", Sets: 4, Reps: "10", Rest: "90s"}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WorkoutPDF(&buf, workout))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
