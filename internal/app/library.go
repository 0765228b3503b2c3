package app

import (
	"fmt"
	"slices"

	"nutiai.com/nutiai-server/internal/models"
)

func (c *Controller) dietIndex(id string) int {
	return slices.IndexFunc(c.diets, func(d models.SavedDiet) bool { return d.ID == id })
}

func (c *Controller) workoutIndex(id string) int {
	return slices.IndexFunc(c.workouts, func(w models.SavedWorkout) bool { return w.ID == id })
}

func (c *Controller) SavedDiets() []models.SavedDiet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diets)
}

func (c *Controller) Diet(id string) (models.SavedDiet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.dietIndex(id)
	if i < 0 {
		return models.SavedDiet{}, ErrDietNotFound
	}
	return c.diets[i], nil
}

func (c *Controller) SavedWorkouts() []models.SavedWorkout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.workouts)
}

func (c *Controller) Workout(id string) (models.SavedWorkout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.workoutIndex(id)
	if i < 0 {
		return models.SavedWorkout{}, ErrWorkoutNotFound
	}
	return c.workouts[i], nil
}

func (c *Controller) ActiveDietID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// SaveDiet appends the draft to the library. A full library is reported
// with a notification and ErrLimitReached, leaving it unchanged.
func (c *Controller) SaveDiet(draft models.DietDraft) (models.SavedDiet, error) {
	c.mu.Lock()
	defer c.unlock()

	if len(c.diets) >= c.opts.MaxSaved {
		c.notify(models.NotifyInfo, "Limite Atingido", fmt.Sprintf("Você atingiu o limite de %d dietas salvas.", c.opts.MaxSaved))
		return models.SavedDiet{}, ErrLimitReached
	}
	if err := draft.Validate(); err != nil {
		return models.SavedDiet{}, err
	}
	diet := models.SavedDiet{
		ID:        c.opts.NewID(),
		Name:      draft.Name,
		CreatedAt: c.opts.Now().UTC(),
		Targets:   draft.Targets,
		Days:      slices.Clone(draft.Days),
	}
	c.diets = append(c.diets, diet)
	c.persist()
	c.notify(models.NotifyInfo, "Dieta Salva", "A dieta foi guardada na sua biblioteca.")
	return diet, nil
}

func (c *Controller) SaveWorkout(draft models.WorkoutDraft) (models.SavedWorkout, error) {
	c.mu.Lock()
	defer c.unlock()

	if len(c.workouts) >= c.opts.MaxSaved {
		c.notify(models.NotifyInfo, "Limite Atingido", fmt.Sprintf("Você atingiu o limite de %d treinos salvos.", c.opts.MaxSaved))
		return models.SavedWorkout{}, ErrLimitReached
	}
	if err := draft.Validate(); err != nil {
		return models.SavedWorkout{}, err
	}
	workout := models.SavedWorkout{
		ID:        c.opts.NewID(),
		Name:      draft.Name,
		CreatedAt: c.opts.Now().UTC(),
		Goal:      draft.Goal,
		Level:     draft.Level,
		Sessions:  slices.Clone(draft.Sessions),
	}
	c.workouts = append(c.workouts, workout)
	c.persist()
	c.notify(models.NotifyInfo, "Treino Salvo", "O treino foi guardado na sua biblioteca.")
	return workout, nil
}

// DeleteDiet removes the diet and, when it was the active one, the active
// reference with it.
func (c *Controller) DeleteDiet(id string) error {
	c.mu.Lock()
	defer c.unlock()

	i := c.dietIndex(id)
	if i < 0 {
		return ErrDietNotFound
	}
	c.diets = slices.Delete(c.diets, i, i+1)
	if c.activeID == id {
		c.activeID = ""
	}
	for slot := range c.links {
		if slot.DietID == id {
			delete(c.links, slot)
		}
	}
	c.persist()
	return nil
}

func (c *Controller) DeleteWorkout(id string) error {
	c.mu.Lock()
	defer c.unlock()

	i := c.workoutIndex(id)
	if i < 0 {
		return ErrWorkoutNotFound
	}
	c.workouts = slices.Delete(c.workouts, i, i+1)
	c.persist()
	return nil
}

// SetActiveDiet points the current goal at a saved diet. An empty id
// clears it; an id naming no saved diet is rejected.
func (c *Controller) SetActiveDiet(id string) error {
	c.mu.Lock()
	defer c.unlock()

	if id != "" && c.dietIndex(id) < 0 {
		return ErrDietNotFound
	}
	c.activeID = id
	c.persist()
	return nil
}

// StartSession announces the start of one session of a saved workout.
func (c *Controller) StartSession(workoutID string, session int) (models.WorkoutSession, error) {
	c.mu.Lock()
	defer c.unlock()

	i := c.workoutIndex(workoutID)
	if i < 0 {
		return models.WorkoutSession{}, ErrWorkoutNotFound
	}
	sessions := c.workouts[i].Sessions
	if session < 0 || session >= len(sessions) {
		return models.WorkoutSession{}, fmt.Errorf("%w: session %d out of range", models.ErrInvalid, session)
	}
	s := sessions[session]
	c.notify(models.NotifyWorkout, "Treino Iniciado", fmt.Sprintf("Bom treino de %s!", s.Focus))
	return s, nil
}
