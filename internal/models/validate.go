package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrInvalid marks input rejected by shape validation.
var ErrInvalid = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// check runs the struct tags of v and reports the first failing field.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fe := fields[0]
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	if fe.Param() != "" {
		return invalidf("%s failed %s=%s", path, fe.Tag(), fe.Param())
	}
	return invalidf("%s failed %s", path, fe.Tag())
}

func (g DailyGoal) Validate() error { return check(g) }

func (c MealCandidate) Validate() error { return check(c) }

// ValidateDays checks a 7-day plan with all four slots filled.
func ValidateDays(days []DayPlan) error {
	return check(struct {
		Days []DayPlan `json:"days" validate:"len=7,dive"`
	}{days})
}

func (d DietDraft) Validate() error { return check(d) }

// ValidateSessions checks that every session has a focus and usable exercises.
func ValidateSessions(sessions []WorkoutSession) error {
	return check(struct {
		Sessions []WorkoutSession `json:"sessions" validate:"min=1,dive"`
	}{sessions})
}

func (w WorkoutDraft) Validate() error { return check(w) }

func (p UserProfile) Validate() error { return check(p) }

// ValidateMeals checks diary entries read back from storage.
func ValidateMeals(meals []Meal) error {
	return check(struct {
		Meals []Meal `json:"meals" validate:"dive"`
	}{meals})
}

func ValidateSavedDiets(diets []SavedDiet) error {
	return check(struct {
		Diets []SavedDiet `json:"diets" validate:"dive"`
	}{diets})
}

func ValidateSavedWorkouts(workouts []SavedWorkout) error {
	return check(struct {
		Workouts []SavedWorkout `json:"workouts" validate:"dive"`
	}{workouts})
}
