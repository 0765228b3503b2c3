package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutiai.com/nutiai-server/internal/models"
)

func newSQLiteSlots(t *testing.T) (*Slots, *SQLiteStore) {
	t.Helper()
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSlots(db.Namespace("user-1"), nil), db
}

func TestSlots_MealRoundTrip(t *testing.T) {
	meals := []models.Meal{
		{ID: "a", Name: "Omelete", Calories: 312.75, Protein: 21.3, Carbs: 2.05, Fats: 23.999, Type: models.Breakfast, Date: "2026-10-15"},
		{ID: "b", Name: "Arroz e feijão", Calories: 0.1 + 0.2, Protein: 1e-7, Carbs: 88, Fats: 0, Type: models.Lunch, Date: "2026-10-14"},
	}

	for name, kv := range map[string]func(t *testing.T) *Slots{
		"memory": func(t *testing.T) *Slots { return NewSlots(NewMemoryStore(), nil) },
		"sqlite": func(t *testing.T) *Slots { s, _ := newSQLiteSlots(t); return s },
	} {
		t.Run(name, func(t *testing.T) {
			slots := kv(t)
			require.NoError(t, slots.Save(SlotMeals, meals))

			var loaded []models.Meal
			require.True(t, slots.Load(SlotMeals, &loaded))
			assert.Equal(t, meals, loaded)
		})
	}
}

func TestSlots_NestedDietRoundTrip(t *testing.T) {
	slots, _ := newSQLiteSlots(t)
	day := models.DayPlan{
		DayName:   "Segunda",
		Breakfast: models.MealDetail{Description: "Aveia com banana", Calories: 350.5, Protein: 12, Carbs: 60, Fats: 7.25},
		Lunch:     models.MealDetail{Description: "Frango grelhado", Calories: 600, Protein: 45, Carbs: 70, Fats: 15},
		Dinner:    models.MealDetail{Description: "Peixe", Calories: 500, Protein: 40, Carbs: 40, Fats: 18},
		Snack:     models.MealDetail{Description: "Iogurte", Calories: 150, Protein: 10, Carbs: 20, Fats: 3},
	}
	diets := []models.SavedDiet{{
		ID:        "d1",
		Name:      "Cutting",
		CreatedAt: time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC),
		Targets:   models.DailyGoal{Calories: 1800, Protein: 150, Carbs: 180, Fats: 50},
		Days:      []models.DayPlan{day, day, day, day, day, day, day},
	}}
	require.NoError(t, slots.Save(SlotSavedDiets, diets))

	var loaded []models.SavedDiet
	require.True(t, slots.Load(SlotSavedDiets, &loaded))
	assert.Equal(t, diets, loaded)
}

func TestSlots_AbsentAndCorrupt(t *testing.T) {
	kv := NewMemoryStore()
	slots := NewSlots(kv, nil)

	var goal models.DailyGoal
	assert.False(t, slots.Load(SlotBaseGoal, &goal), "absent slot")

	require.NoError(t, kv.Apply(Change{Key: string(SlotBaseGoal), Value: "{not json"}))
	assert.False(t, slots.Load(SlotBaseGoal, &goal), "corrupt slot is treated as absent")
	assert.Equal(t, models.DailyGoal{}, goal)
}

func TestSlots_MistypedSlotLeavesTargetUntouched(t *testing.T) {
	kv := NewMemoryStore()
	slots := NewSlots(kv, nil)
	require.NoError(t, kv.Apply(Change{
		Key:   string(SlotMeals),
		Value: `[{"id":"a","name":"Ovos","calories":150},{"id":"b","name":"Arroz","calories":"lots"}]`,
	}))

	previous := []models.Meal{{ID: "keep", Name: "Pão"}}
	meals := previous
	assert.False(t, slots.Load(SlotMeals, &meals))
	assert.Equal(t, previous, meals)

	goal := models.DailyGoal{Calories: 1800}
	require.NoError(t, kv.Apply(Change{Key: string(SlotBaseGoal), Value: `{"protein":100,"calories":"x"}`}))
	assert.False(t, slots.Load(SlotBaseGoal, &goal))
	assert.Equal(t, models.DailyGoal{Calories: 1800}, goal)
}

func TestSlots_ActiveDietIDIsRawAndClearable(t *testing.T) {
	kv := NewMemoryStore()
	slots := NewSlots(kv, nil)

	require.NoError(t, slots.Save(SlotActiveDietID, "diet-42"))
	raw, ok, _ := kv.Get(string(SlotActiveDietID))
	require.True(t, ok)
	assert.Equal(t, "diet-42", raw, "stored without JSON quoting")

	var id string
	require.True(t, slots.Load(SlotActiveDietID, &id))
	assert.Equal(t, "diet-42", id)

	require.NoError(t, slots.Clear(SlotActiveDietID))
	assert.False(t, kv.Has(string(SlotActiveDietID)))
	id = ""
	assert.False(t, slots.Load(SlotActiveDietID, &id))
}

func TestSlots_WriteIsOneBatch(t *testing.T) {
	slots, db := newSQLiteSlots(t)
	require.NoError(t, slots.Save(SlotActiveDietID, "old"))

	err := slots.Write(
		Entry{Slot: SlotBaseGoal, Value: models.DefaultBaseGoal},
		Entry{Slot: SlotMeals, Value: []models.Meal{}},
		Entry{Slot: SlotActiveDietID, Clear: true},
	)
	require.NoError(t, err)

	var goal models.DailyGoal
	assert.True(t, slots.Load(SlotBaseGoal, &goal))
	assert.Equal(t, models.DefaultBaseGoal, goal)
	var id string
	assert.False(t, slots.Load(SlotActiveDietID, &id))

	namespaces, err := db.Namespaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, namespaces)
}

func TestSlots_UnknownSlotRejected(t *testing.T) {
	slots := NewSlots(NewMemoryStore(), nil)
	err := slots.Save(Slot("nutiai_theme"), "dark")
	assert.True(t, errors.Is(err, ErrUnknownSlot))

	var v string
	assert.False(t, slots.Load(Slot("nutiai_theme"), &v))
}

func TestSlots_WriteFailureIsReported(t *testing.T) {
	kv := NewMemoryStore()
	kv.FailWrites = errors.New("quota exceeded")
	slots := NewSlots(kv, nil)

	err := slots.Save(SlotMeals, []models.Meal{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSQLiteStore_NamespacesAreIsolated(t *testing.T) {
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	defer db.Close()

	alice := NewSlots(db.Namespace("alice"), nil)
	bob := NewSlots(db.Namespace("bob"), nil)
	require.NoError(t, alice.Save(SlotUser, models.UserProfile{Name: "Alice", Email: "alice@example.com"}))

	var profile models.UserProfile
	assert.False(t, bob.Load(SlotUser, &profile))
	assert.True(t, alice.Load(SlotUser, &profile))
	assert.Equal(t, "Alice", profile.Name)
}
