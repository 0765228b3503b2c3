package app

import (
	"fmt"
	"slices"

	"nutiai.com/nutiai-server/internal/models"
	"nutiai.com/nutiai-server/internal/utils"
)

// PlanSlot addresses one meal slot of a saved diet.
type PlanSlot struct {
	DietID string
	Day    int
	Type   models.MealType
}

// Summary is the dashboard view of today.
type Summary struct {
	Date              string           `json:"date"`
	Goal              models.DailyGoal `json:"goal"`
	Totals            models.Macros    `json:"totals"`
	CaloriePercentage int              `json:"caloriePercentage"`
	Meals             []models.Meal    `json:"meals"`
}

func (c *Controller) Meals() []models.Meal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.meals)
}

func (c *Controller) TodayMeals() []models.Meal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return utils.FilterByDate(c.meals, c.today())
}

func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	today := c.today()
	meals := utils.FilterByDate(c.meals, today)
	totals := utils.SumMacros(meals)
	goal := c.currentGoal()
	if meals == nil {
		meals = []models.Meal{}
	}
	return Summary{
		Date:              today,
		Goal:              goal,
		Totals:            totals,
		CaloriePercentage: utils.CaloriePercentage(totals.Calories, goal.Calories),
		Meals:             meals,
	}
}

// AddMeal logs a meal for today as the newest entry.
func (c *Controller) AddMeal(candidate models.MealCandidate) (models.Meal, error) {
	if err := candidate.Validate(); err != nil {
		return models.Meal{}, err
	}
	c.mu.Lock()
	defer c.unlock()
	return c.addMeal(candidate), nil
}

func (c *Controller) addMeal(candidate models.MealCandidate) models.Meal {
	meal := models.Meal{
		ID:       c.opts.NewID(),
		Name:     candidate.Name,
		Calories: candidate.Calories,
		Protein:  candidate.Protein,
		Carbs:    candidate.Carbs,
		Fats:     candidate.Fats,
		Type:     candidate.Type,
		Date:     c.today(),
	}
	c.meals = slices.Insert(c.meals, 0, meal)
	c.persist()
	c.notify(models.NotifyMeal, "Refeição Adicionada", fmt.Sprintf("%s foi registrado no seu diário.", meal.Name))
	return meal
}

// RemoveMeal removes the first of today's meals matching name, calories and
// type. The removal notice is raised even when nothing matched.
func (c *Controller) RemoveMeal(d models.MealDescriptor) bool {
	c.mu.Lock()
	defer c.unlock()

	today := c.today()
	i := slices.IndexFunc(c.meals, func(m models.Meal) bool {
		return m.Date == today && m.Name == d.Name && m.Calories == d.Calories && m.Type == d.Type
	})
	if i >= 0 {
		c.removeMealAt(i)
		c.persist()
	}
	c.notify(models.NotifyInfo, "Refeição Removida", fmt.Sprintf("%s foi removida do diário.", d.Name))
	return i >= 0
}

func (c *Controller) RemoveMealByID(id string) error {
	c.mu.Lock()
	defer c.unlock()

	i := slices.IndexFunc(c.meals, func(m models.Meal) bool { return m.ID == id })
	if i < 0 {
		return ErrMealNotFound
	}
	name := c.meals[i].Name
	c.removeMealAt(i)
	c.persist()
	c.notify(models.NotifyInfo, "Refeição Removida", fmt.Sprintf("%s foi removida do diário.", name))
	return nil
}

func (c *Controller) removeMealAt(i int) {
	id := c.meals[i].ID
	c.meals = slices.Delete(c.meals, i, i+1)
	for slot, mealID := range c.links {
		if mealID == id {
			delete(c.links, slot)
		}
	}
}

func (c *Controller) planDetail(slot PlanSlot) (models.MealDetail, error) {
	i := c.dietIndex(slot.DietID)
	if i < 0 {
		return models.MealDetail{}, ErrDietNotFound
	}
	days := c.diets[i].Days
	if slot.Day < 0 || slot.Day >= len(days) {
		return models.MealDetail{}, fmt.Errorf("%w: day %d out of range", models.ErrInvalid, slot.Day)
	}
	detail, ok := days[slot.Day].Slot(slot.Type)
	if !ok {
		return models.MealDetail{}, fmt.Errorf("%w: unknown meal type %q", models.ErrInvalid, slot.Type)
	}
	return detail, nil
}

// loggedMeal returns the index of today's meal logged from slot, or -1.
func (c *Controller) loggedMeal(slot PlanSlot) int {
	id, ok := c.links[slot]
	if !ok {
		return -1
	}
	today := c.today()
	return slices.IndexFunc(c.meals, func(m models.Meal) bool { return m.ID == id && m.Date == today })
}

// pruneLinks forgets slots whose meal is gone or was logged on another day.
func (c *Controller) pruneLinks() {
	for slot := range c.links {
		if c.loggedMeal(slot) < 0 {
			delete(c.links, slot)
		}
	}
}

// LogPlanMeal logs the meal of a saved diet slot and remembers which meal
// it became. Logging an already logged slot returns the existing meal.
func (c *Controller) LogPlanMeal(slot PlanSlot) (models.Meal, error) {
	c.mu.Lock()
	defer c.unlock()

	detail, err := c.planDetail(slot)
	if err != nil {
		return models.Meal{}, err
	}
	c.pruneLinks()
	if i := c.loggedMeal(slot); i >= 0 {
		return c.meals[i], nil
	}
	meal := c.addMeal(models.MealCandidate{
		Name:     utils.MealNameFromDescription(detail.Description),
		Calories: detail.Calories,
		Protein:  detail.Protein,
		Carbs:    detail.Carbs,
		Fats:     detail.Fats,
		Type:     slot.Type,
	})
	c.links[slot] = meal.ID
	return meal, nil
}

// UnlogPlanMeal removes exactly the meal LogPlanMeal created for slot today.
func (c *Controller) UnlogPlanMeal(slot PlanSlot) error {
	c.mu.Lock()
	defer c.unlock()

	if _, err := c.planDetail(slot); err != nil {
		return err
	}
	i := c.loggedMeal(slot)
	if i < 0 {
		return ErrMealNotFound
	}
	name := c.meals[i].Name
	c.removeMealAt(i)
	c.persist()
	c.notify(models.NotifyInfo, "Refeição Removida", fmt.Sprintf("%s foi removida do diário.", name))
	return nil
}

func (c *Controller) PlanMealLogged(slot PlanSlot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedMeal(slot) >= 0
}

// LoggedPlanSlots lists the slots of a diet that have a meal logged today.
func (c *Controller) LoggedPlanSlots(dietID string) []PlanSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []PlanSlot
	for slot := range c.links {
		if slot.DietID == dietID && c.loggedMeal(slot) >= 0 {
			out = append(out, slot)
		}
	}
	slices.SortFunc(out, func(a, b PlanSlot) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return slices.Index(models.MealTypes, a.Type) - slices.Index(models.MealTypes, b.Type)
	})
	return out
}
