package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nutiai.com/nutiai-server/internal/models"
)

func openTestClient(t *testing.T) *Client {
	t.Helper()
	var mu sync.Mutex
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Second)
			return clock
		},
	}
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	c, err := Open(sqlite.Open(dsn), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleDays() []models.DayPlan {
	days := make([]models.DayPlan, models.PlanDays)
	for i := range days {
		detail := models.MealDetail{Description: "Ovos mexidos com pão integral.", Calories: 400, Protein: 25, Carbs: 40, Fats: 12}
		days[i] = models.DayPlan{DayName: "Dia", Breakfast: detail, Lunch: detail, Dinner: detail, Snack: detail}
	}
	return days
}

func TestDialector(t *testing.T) {
	d, err := Dialector("sqlite", ":memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector("postgres", "host=localhost")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector("mysql", "")
	assert.Error(t, err)
}

func TestMeals_InsertListDelete(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	first, err := c.Meals.Insert(ctx, "u1", MealInput{Name: "Aveia", Calories: 300, Protein: 10, Carbs: 50, Fats: 5, Type: models.Breakfast, Date: "2025-03-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := c.Meals.Insert(ctx, "u1", MealInput{Name: "Frango", Calories: 500.5, Type: models.Lunch, Date: "2025-03-02"})
	require.NoError(t, err)
	_, err = c.Meals.Insert(ctx, "u2", MealInput{Name: "Outro", Type: models.Snack, Date: "2025-03-02"})
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		meals, err := c.Meals.List(ctx, "u1", "")
		require.NoError(t, err)
		require.Len(t, meals, 2)
		assert.Equal(t, second.ID, meals[0].ID)
		assert.Equal(t, 500.5, meals[0].Calories)
		assert.Equal(t, first.ID, meals[1].ID)
	})

	t.Run("date filter", func(t *testing.T) {
		meals, err := c.Meals.List(ctx, "u1", "2025-03-01")
		require.NoError(t, err)
		require.Len(t, meals, 1)
		assert.Equal(t, "Aveia", meals[0].Name)
	})

	t.Run("delete is scoped and idempotent", func(t *testing.T) {
		require.NoError(t, c.Meals.Delete(ctx, "u2", first.ID))
		meals, _ := c.Meals.List(ctx, "u1", "")
		assert.Len(t, meals, 2)

		require.NoError(t, c.Meals.Delete(ctx, "u1", first.ID))
		require.NoError(t, c.Meals.Delete(ctx, "u1", first.ID))
		meals, _ = c.Meals.List(ctx, "u1", "")
		assert.Len(t, meals, 1)
	})
}

func TestDietsAndWorkouts_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	diet, err := c.Diets.Insert(ctx, "u1", models.DietDraft{Name: "Cutting", Targets: models.DefaultBaseGoal, Days: sampleDays()})
	require.NoError(t, err)
	assert.NotEmpty(t, diet.ID)
	assert.False(t, diet.CreatedAt.IsZero())

	diets, err := c.Diets.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, diets, 1)
	assert.Equal(t, sampleDays(), diets[0].Days)
	assert.Equal(t, models.DefaultBaseGoal, diets[0].Targets)

	sessions := []models.WorkoutSession{{DayName: "Treino A", Focus: "Peito", Exercises: []models.Exercise{{Name: "Supino", Sets: 3, Reps: "8-12", Rest: "60s"}}}}
	workout, err := c.Workouts.Insert(ctx, "u1", models.WorkoutDraft{Name: "ABC", Goal: "Hipertrofia", Level: "Iniciante", Sessions: sessions})
	require.NoError(t, err)

	workouts, err := c.Workouts.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, workout.ID, workouts[0].ID)
	assert.Equal(t, sessions, workouts[0].Sessions)
	assert.Equal(t, "Iniciante", workouts[0].Level)

	require.NoError(t, c.Diets.Delete(ctx, "u1", diet.ID))
	require.NoError(t, c.Workouts.Delete(ctx, "u1", workout.ID))
	diets, _ = c.Diets.List(ctx, "u1")
	workouts, _ = c.Workouts.List(ctx, "u1")
	assert.Empty(t, diets)
	assert.Empty(t, workouts)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	_, err := c.Profiles.Get(ctx, "missing")
	assert.True(t, IsNotFound(err))
	var remoteErr *Error
	assert.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "get profile", remoteErr.Op)

	p, err := c.Profiles.Insert(ctx, NewProfile{ID: "u1", Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBaseGoal, p.Goal())

	name := "Ana Maria"
	goal := models.DailyGoal{Calories: 1800, Protein: 120, Carbs: 200, Fats: 50}
	active := "d1"
	p, err = c.Profiles.Update(ctx, "u1", ProfileUpdate{Name: &name, BaseGoal: &goal, ActiveDietID: &active})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", p.Name)
	assert.Equal(t, goal, p.Goal())
	require.NotNil(t, p.ActiveDietID)
	assert.Equal(t, "d1", *p.ActiveDietID)

	p, err = c.Profiles.Update(ctx, "u1", ProfileUpdate{ClearActiveDiet: true})
	require.NoError(t, err)
	assert.Nil(t, p.ActiveDietID)

	_, err = c.Profiles.Update(ctx, "nobody", ProfileUpdate{Name: &name})
	assert.True(t, IsNotFound(err))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	account, profile, err := c.SignUp(ctx, " Ana@X.com ", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", account.Email)
	assert.Equal(t, "ana", profile.Name)
	assert.Equal(t, account.ID, profile.ID)

	_, _, err = c.SignUp(ctx, "ana@x.com", "other", "Ana")
	assert.ErrorIs(t, err, ErrEmailTaken)

	signedIn, err := c.SignIn(ctx, "ana@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, account.ID, signedIn.ID)

	_, err = c.SignIn(ctx, "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = c.SignIn(ctx, "nobody@x.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := c.Account(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, got.Email)
}

func TestAccounts_ProfileGapFallsBackToEmailPrefix(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	account, _, err := c.SignUp(ctx, "bruno@x.com", "secret", "Bruno")
	require.NoError(t, err)
	require.NoError(t, c.Profiles.Delete(ctx, account.ID))

	p, err := c.ProfileOrDefault(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, "bruno", p.Name)
	assert.Equal(t, "bruno@x.com", p.Email)
}

func TestSnapshot_PushPull(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	snap := models.Snapshot{
		Profile:  models.UserProfile{Name: "Ana", Email: "ana@x.com"},
		BaseGoal: models.DailyGoal{Calories: 1900, Protein: 130, Carbs: 210, Fats: 55},
		Meals: []models.Meal{
			{ID: "m2", Name: "Jantar", Calories: 600, Type: models.Dinner, Date: "2025-03-01"},
			{ID: "m1", Name: "Café", Calories: 300, Type: models.Breakfast, Date: "2025-03-01"},
		},
		Diets: []models.SavedDiet{
			{ID: "local-a", Name: "A", Targets: models.DefaultBaseGoal, Days: sampleDays()},
			{ID: "local-b", Name: "B", Targets: models.DefaultBaseGoal, Days: sampleDays()},
		},
		Workouts: []models.SavedWorkout{
			{ID: "w1", Name: "ABC", Sessions: []models.WorkoutSession{{DayName: "A", Focus: "Pernas", Exercises: []models.Exercise{{Name: "Agachamento", Sets: 4, Reps: "10", Rest: "90s"}}}}},
		},
		ActiveDietID: "local-b",
	}
	require.NoError(t, c.PushSnapshot(ctx, "u1", snap))

	got, err := c.PullSnapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, snap.Profile, got.Profile)
	assert.Equal(t, snap.BaseGoal, got.BaseGoal)

	require.Len(t, got.Meals, 2)
	assert.Equal(t, "Jantar", got.Meals[0].Name)
	assert.Equal(t, "Café", got.Meals[1].Name)

	require.Len(t, got.Diets, 2)
	assert.Equal(t, "A", got.Diets[0].Name)
	assert.Equal(t, "B", got.Diets[1].Name)
	assert.Equal(t, []string{"local-a", "local-b"}, []string{got.Diets[0].ID, got.Diets[1].ID})
	assert.Equal(t, "local-b", got.ActiveDietID)
	assert.Equal(t, []string{"m2", "m1"}, []string{got.Meals[0].ID, got.Meals[1].ID})

	require.Len(t, got.Workouts, 1)
	assert.Equal(t, 4, got.Workouts[0].Sessions[0].Exercises[0].Sets)

	// A second push replaces rather than appends.
	snap.Meals = snap.Meals[:1]
	snap.ActiveDietID = ""
	require.NoError(t, c.PushSnapshot(ctx, "u1", snap))
	got, err = c.PullSnapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.Meals, 1)
	assert.Equal(t, "m2", got.Meals[0].ID, "ids survive a repeated push")
	assert.Len(t, got.Diets, 2)
	assert.Empty(t, got.ActiveDietID)
}

func TestSnapshot_IDHeldByAnotherUserIsReplaced(t *testing.T) {
	ctx := context.Background()
	c := openTestClient(t)

	snap := models.Snapshot{
		Profile:      models.UserProfile{Name: "Ana", Email: "ana@x.com"},
		BaseGoal:     models.DefaultBaseGoal,
		Meals:        []models.Meal{{ID: "shared", Name: "Café", Calories: 300, Type: models.Breakfast, Date: "2025-03-01"}},
		Diets:        []models.SavedDiet{{ID: "diet-1", Name: "A", Targets: models.DefaultBaseGoal, Days: sampleDays()}},
		ActiveDietID: "diet-1",
	}
	require.NoError(t, c.PushSnapshot(ctx, "u1", snap))

	snap.Profile = models.UserProfile{Name: "Bruno", Email: "bruno@x.com"}
	require.NoError(t, c.PushSnapshot(ctx, "u2", snap))

	mine, err := c.PullSnapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "shared", mine.Meals[0].ID)
	assert.Equal(t, "diet-1", mine.ActiveDietID)

	theirs, err := c.PullSnapshot(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, theirs.Meals, 1)
	assert.NotEqual(t, "shared", theirs.Meals[0].ID)
	require.Len(t, theirs.Diets, 1)
	assert.NotEqual(t, "diet-1", theirs.Diets[0].ID)
	assert.Equal(t, theirs.Diets[0].ID, theirs.ActiveDietID)
}

func TestSnapshot_PullWithoutProfile(t *testing.T) {
	c := openTestClient(t)
	_, err := c.PullSnapshot(context.Background(), "ghost")
	assert.True(t, IsNotFound(err))
}
