package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"nutiai.com/nutiai-server/internal/models"
)

// Wire shapes use pointers so a missing field can be told apart from a zero.

type wireMacros struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

type wireMealDetail struct {
	Description *string `json:"description"`
	wireMacros
}

type wireDay struct {
	DayName   *string         `json:"dayName"`
	Breakfast *wireMealDetail `json:"breakfast"`
	Lunch     *wireMealDetail `json:"lunch"`
	Dinner    *wireMealDetail `json:"dinner"`
	Snack     *wireMealDetail `json:"snack"`
}

type wireMealPlan struct {
	Targets *wireMacros `json:"targets"`
	Days    []wireDay   `json:"days"`
}

type wireEstimate struct {
	Name *string `json:"name"`
	wireMacros
}

type wireExercise struct {
	Name *string  `json:"name"`
	Sets *float64 `json:"sets"`
	Reps *string  `json:"reps"`
	Rest *string  `json:"rest"`
}

type wireSession struct {
	DayName   *string        `json:"dayName"`
	Focus     *string        `json:"focus"`
	Exercises []wireExercise `json:"exercises"`
}

type wireWorkout struct {
	Name     *string       `json:"name"`
	Goal     *string       `json:"goal"`
	Sessions []wireSession `json:"sessions"`
}

type wireRecipe struct {
	Name         *string     `json:"name"`
	Ingredients  []string    `json:"ingredients"`
	Instructions []string    `json:"instructions"`
	Macros       *wireMacros `json:"macros"`
}

// cleanResponse strips markdown code fences some models wrap JSON in.
func cleanResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func decodeJSON(op, text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &ContractError{Operation: op, Path: "$", Reason: "invalid JSON: " + err.Error()}
	}
	return nil
}

// checker records the first violation found while converting a wire shape.
type checker struct {
	op  string
	err *ContractError
}

func (c *checker) fail(path, format string, args ...any) {
	if c.err == nil {
		c.err = &ContractError{Operation: c.op, Path: path, Reason: fmt.Sprintf(format, args...)}
	}
}

func (c *checker) text(path string, v *string) string {
	if v == nil {
		c.fail(path, "missing")
		return ""
	}
	if strings.TrimSpace(*v) == "" {
		c.fail(path, "empty")
	}
	return *v
}

func (c *checker) number(path string, v *float64) float64 {
	switch {
	case v == nil:
		c.fail(path, "missing")
		return 0
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		c.fail(path, "not a finite number")
	case *v < 0:
		c.fail(path, "negative value %v", *v)
	}
	return *v
}

func (c *checker) macros(path string, m *wireMacros) models.DailyGoal {
	if m == nil {
		c.fail(path, "missing")
		return models.DailyGoal{}
	}
	return models.DailyGoal{
		Calories: c.number(path+".calories", m.Calories),
		Protein:  c.number(path+".protein", m.Protein),
		Carbs:    c.number(path+".carbs", m.Carbs),
		Fats:     c.number(path+".fats", m.Fats),
	}
}

func (c *checker) mealDetail(path string, m *wireMealDetail) models.MealDetail {
	if m == nil {
		c.fail(path, "missing")
		return models.MealDetail{}
	}
	macros := c.macros(path, &m.wireMacros)
	return models.MealDetail{
		Description: c.text(path+".description", m.Description),
		Calories:    macros.Calories,
		Protein:     macros.Protein,
		Carbs:       macros.Carbs,
		Fats:        macros.Fats,
	}
}

func (c *checker) result() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

func convertMealPlan(op string, w wireMealPlan) (models.MealPlan, error) {
	c := &checker{op: op}
	plan := models.MealPlan{Targets: c.macros("targets", w.Targets)}
	if len(w.Days) != models.PlanDays {
		c.fail("days", "expected %d days, got %d", models.PlanDays, len(w.Days))
	}
	for i, d := range w.Days {
		path := fmt.Sprintf("days[%d]", i)
		plan.Days = append(plan.Days, models.DayPlan{
			DayName:   c.text(path+".dayName", d.DayName),
			Breakfast: c.mealDetail(path+".breakfast", d.Breakfast),
			Lunch:     c.mealDetail(path+".lunch", d.Lunch),
			Dinner:    c.mealDetail(path+".dinner", d.Dinner),
			Snack:     c.mealDetail(path+".snack", d.Snack),
		})
	}
	return plan, c.result()
}

func convertEstimate(op string, w wireEstimate) (models.MealEstimate, error) {
	c := &checker{op: op}
	macros := c.macros("$", &w.wireMacros)
	est := models.MealEstimate{
		Name:     c.text("name", w.Name),
		Calories: macros.Calories,
		Protein:  macros.Protein,
		Carbs:    macros.Carbs,
		Fats:     macros.Fats,
	}
	return est, c.result()
}

func convertWorkout(op string, w wireWorkout, sessions int) (models.Workout, error) {
	c := &checker{op: op}
	workout := models.Workout{
		Name: c.text("name", w.Name),
		Goal: c.text("goal", w.Goal),
	}
	if len(w.Sessions) != sessions {
		c.fail("sessions", "expected %d sessions, got %d", sessions, len(w.Sessions))
	}
	for i, s := range w.Sessions {
		path := fmt.Sprintf("sessions[%d]", i)
		session := models.WorkoutSession{
			DayName: c.text(path+".dayName", s.DayName),
			Focus:   c.text(path+".focus", s.Focus),
		}
		if len(s.Exercises) == 0 {
			c.fail(path+".exercises", "empty")
		}
		for j, e := range s.Exercises {
			ePath := fmt.Sprintf("%s.exercises[%d]", path, j)
			sets := c.number(ePath+".sets", e.Sets)
			if sets != math.Trunc(sets) || sets <= 0 {
				c.fail(ePath+".sets", "expected a positive whole number, got %v", sets)
			}
			session.Exercises = append(session.Exercises, models.Exercise{
				Name: c.text(ePath+".name", e.Name),
				Sets: int(sets),
				Reps: c.text(ePath+".reps", e.Reps),
				Rest: c.text(ePath+".rest", e.Rest),
			})
		}
		workout.Sessions = append(workout.Sessions, session)
	}
	return workout, c.result()
}

func convertRecipe(op string, w wireRecipe) (models.Recipe, error) {
	c := &checker{op: op}
	recipe := models.Recipe{Name: c.text("name", w.Name)}
	if len(w.Ingredients) == 0 {
		c.fail("ingredients", "empty")
	}
	if len(w.Instructions) == 0 {
		c.fail("instructions", "empty")
	}
	recipe.Ingredients = w.Ingredients
	recipe.Instructions = w.Instructions
	macros := c.macros("macros", w.Macros)
	recipe.Macros = models.Macros(macros)
	return recipe, c.result()
}
