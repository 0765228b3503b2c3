package remote

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nutiai.com/nutiai-server/internal/models"
)

// NewProfile is the insert payload for a profile. The id is the account id.
type NewProfile struct {
	ID    string
	Name  string
	Email string
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	Name            *string
	Email           *string
	BaseGoal        *models.DailyGoal
	ActiveDietID    *string
	ClearActiveDiet bool
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Insert(ctx context.Context, p NewProfile) (*Profile, error)
	Update(ctx context.Context, userID string, u ProfileUpdate) (*Profile, error)
	Delete(ctx context.Context, userID string) error
}

// MealInput is the insert payload for a logged meal.
type MealInput struct {
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
	Type     models.MealType
	Date     string
}

// MealInputFrom strips the identity off a locally stored meal.
func MealInputFrom(m models.Meal) MealInput {
	return MealInput{
		Name:     m.Name,
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fats:     m.Fats,
		Type:     m.Type,
		Date:     m.Date,
	}
}

type MealRepository interface {
	// List returns newest first. An empty date returns every day.
	List(ctx context.Context, userID, date string) ([]models.Meal, error)
	Insert(ctx context.Context, userID string, m MealInput) (models.Meal, error)
	Delete(ctx context.Context, userID, id string) error
}

type DietRepository interface {
	List(ctx context.Context, userID string) ([]models.SavedDiet, error)
	Insert(ctx context.Context, userID string, d models.DietDraft) (models.SavedDiet, error)
	Delete(ctx context.Context, userID, id string) error
}

type WorkoutRepository interface {
	List(ctx context.Context, userID string) ([]models.SavedWorkout, error)
	Insert(ctx context.Context, userID string, w models.WorkoutDraft) (models.SavedWorkout, error)
	Delete(ctx context.Context, userID, id string) error
}

type profileRepository struct {
	db *gorm.DB
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", userID).Error; err != nil {
		return nil, wrap("get profile", err)
	}
	return &p, nil
}

func (r *profileRepository) Insert(ctx context.Context, in NewProfile) (*Profile, error) {
	p := Profile{ID: in.ID, Name: in.Name, Email: in.Email}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, wrap("insert profile", err)
	}
	return &p, nil
}

func (r *profileRepository) Update(ctx context.Context, userID string, u ProfileUpdate) (*Profile, error) {
	changes := map[string]any{}
	if u.Name != nil {
		changes["name"] = *u.Name
	}
	if u.Email != nil {
		changes["email"] = *u.Email
	}
	if u.BaseGoal != nil {
		raw, err := json.Marshal(u.BaseGoal)
		if err != nil {
			return nil, wrap("update profile", err)
		}
		changes["base_goal"] = datatypes.JSON(raw)
	}
	switch {
	case u.ClearActiveDiet:
		changes["active_diet_id"] = nil
	case u.ActiveDietID != nil:
		changes["active_diet_id"] = *u.ActiveDietID
	}

	if len(changes) > 0 {
		changes["updated_at"] = time.Now()
		res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", userID).Updates(changes)
		if res.Error != nil {
			return nil, wrap("update profile", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, wrap("update profile", ErrNotFound)
		}
	}
	return r.Get(ctx, userID)
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	return wrap("delete profile", r.db.WithContext(ctx).Delete(&Profile{}, "id = ?", userID).Error)
}

type mealRepository struct {
	db *gorm.DB
}

func (r *mealRepository) List(ctx context.Context, userID, date string) ([]models.Meal, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	var rows []MealRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrap("list meals", err)
	}
	meals := make([]models.Meal, 0, len(rows))
	for _, row := range rows {
		meals = append(meals, row.toModel())
	}
	return meals, nil
}

func (r *mealRepository) Insert(ctx context.Context, userID string, m MealInput) (models.Meal, error) {
	return r.insertAt(ctx, userID, "", m, time.Time{})
}

// insertAt lets bulk writers fix the id and created_at so list order is
// deterministic. An empty id gets a fresh one.
func (r *mealRepository) insertAt(ctx context.Context, userID, id string, m MealInput, at time.Time) (models.Meal, error) {
	row := MealRow{
		ID:        id,
		UserID:    userID,
		Name:      m.Name,
		Calories:  m.Calories,
		Protein:   m.Protein,
		Carbs:     m.Carbs,
		Fats:      m.Fats,
		Type:      string(m.Type),
		Date:      m.Date,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Meal{}, wrap("insert meal", err)
	}
	return row.toModel(), nil
}

func (r *mealRepository) Delete(ctx context.Context, userID, id string) error {
	return wrap("delete meal", r.db.WithContext(ctx).Delete(&MealRow{}, "id = ? AND user_id = ?", id, userID).Error)
}

type dietRepository struct {
	db *gorm.DB
}

func (r *dietRepository) List(ctx context.Context, userID string) ([]models.SavedDiet, error) {
	var rows []SavedDietRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrap("list diets", err)
	}
	diets := make([]models.SavedDiet, 0, len(rows))
	for _, row := range rows {
		diet, err := row.toModel()
		if err != nil {
			return nil, wrap("list diets", err)
		}
		diets = append(diets, diet)
	}
	return diets, nil
}

func (r *dietRepository) Insert(ctx context.Context, userID string, d models.DietDraft) (models.SavedDiet, error) {
	return r.insertAt(ctx, userID, "", d, time.Time{})
}

func (r *dietRepository) insertAt(ctx context.Context, userID, id string, d models.DietDraft, at time.Time) (models.SavedDiet, error) {
	targets, err := json.Marshal(d.Targets)
	if err != nil {
		return models.SavedDiet{}, wrap("insert diet", err)
	}
	days, err := json.Marshal(d.Days)
	if err != nil {
		return models.SavedDiet{}, wrap("insert diet", err)
	}
	row := SavedDietRow{ID: id, UserID: userID, Name: d.Name, Targets: targets, Days: days, CreatedAt: at}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.SavedDiet{}, wrap("insert diet", err)
	}
	diet, err := row.toModel()
	return diet, wrap("insert diet", err)
}

func (r *dietRepository) Delete(ctx context.Context, userID, id string) error {
	return wrap("delete diet", r.db.WithContext(ctx).Delete(&SavedDietRow{}, "id = ? AND user_id = ?", id, userID).Error)
}

type workoutRepository struct {
	db *gorm.DB
}

func (r *workoutRepository) List(ctx context.Context, userID string) ([]models.SavedWorkout, error) {
	var rows []SavedWorkoutRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrap("list workouts", err)
	}
	workouts := make([]models.SavedWorkout, 0, len(rows))
	for _, row := range rows {
		w, err := row.toModel()
		if err != nil {
			return nil, wrap("list workouts", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

func (r *workoutRepository) Insert(ctx context.Context, userID string, w models.WorkoutDraft) (models.SavedWorkout, error) {
	return r.insertAt(ctx, userID, "", w, time.Time{})
}

func (r *workoutRepository) insertAt(ctx context.Context, userID, id string, w models.WorkoutDraft, at time.Time) (models.SavedWorkout, error) {
	sessions, err := json.Marshal(w.Sessions)
	if err != nil {
		return models.SavedWorkout{}, wrap("insert workout", err)
	}
	row := SavedWorkoutRow{
		ID:        id,
		UserID:    userID,
		Name:      w.Name,
		Goal:      w.Goal,
		Level:     w.Level,
		Sessions:  sessions,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.SavedWorkout{}, wrap("insert workout", err)
	}
	saved, err := row.toModel()
	return saved, wrap("insert workout", err)
}

func (r *workoutRepository) Delete(ctx context.Context, userID, id string) error {
	return wrap("delete workout", r.db.WithContext(ctx).Delete(&SavedWorkoutRow{}, "id = ? AND user_id = ?", id, userID).Error)
}
