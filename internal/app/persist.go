package app

import (
	"slices"

	"nutiai.com/nutiai-server/internal/models"
	"nutiai.com/nutiai-server/internal/store"
)

func (c *Controller) load() {
	var auth string
	var profile models.UserProfile
	if c.slots.Load(store.SlotAuth, &auth) && auth == "true" &&
		c.slots.Load(store.SlotUser, &profile) && profile.Validate() == nil {
		c.state = StateAuthenticated
		c.profile = profile
	} else {
		c.state = StateLanding
		c.profile = models.GuestProfile
	}

	c.baseGoal = models.DefaultBaseGoal
	var goal models.DailyGoal
	if c.slots.Load(store.SlotBaseGoal, &goal) && goal.Validate() == nil {
		c.baseGoal = goal
	}

	var meals []models.Meal
	if c.loadChecked(store.SlotMeals, &meals, func() error { return models.ValidateMeals(meals) }) {
		c.meals = meals
	}
	var diets []models.SavedDiet
	if c.loadChecked(store.SlotSavedDiets, &diets, func() error { return models.ValidateSavedDiets(diets) }) {
		c.diets = diets
	}
	var workouts []models.SavedWorkout
	if c.loadChecked(store.SlotSavedWorkouts, &workouts, func() error { return models.ValidateSavedWorkouts(workouts) }) {
		c.workouts = workouts
	}
	c.slots.Load(store.SlotActiveDietID, &c.activeID)
	c.normalize()
}

// loadChecked reads a slot and accepts it only when validate passes. A slot
// that fails is treated as absent.
func (c *Controller) loadChecked(slot store.Slot, v any, validate func() error) bool {
	if !c.slots.Load(slot, v) {
		return false
	}
	if err := validate(); err != nil {
		c.log.Warn("slot holds invalid data, treating as absent", "slot", slot, "error", err)
		return false
	}
	return true
}

// normalize replaces nil collections so they are stored as [] rather than null.
func (c *Controller) normalize() {
	if c.meals == nil {
		c.meals = []models.Meal{}
	}
	if c.diets == nil {
		c.diets = []models.SavedDiet{}
	}
	if c.workouts == nil {
		c.workouts = []models.SavedWorkout{}
	}
}

// persist overwrites every collection slot in one batch. An empty active
// diet id deletes its slot.
func (c *Controller) persist() {
	active := store.Entry{Slot: store.SlotActiveDietID, Value: c.activeID}
	if c.activeID == "" {
		active = store.Entry{Slot: store.SlotActiveDietID, Clear: true}
	}
	c.saveFailed(c.slots.Write(
		store.Entry{Slot: store.SlotMeals, Value: c.meals},
		store.Entry{Slot: store.SlotSavedDiets, Value: c.diets},
		store.Entry{Slot: store.SlotSavedWorkouts, Value: c.workouts},
		store.Entry{Slot: store.SlotBaseGoal, Value: c.baseGoal},
		active,
	))
}

// saveFailed turns a storage error into a warning for the user. The
// in-memory state stays as it is.
func (c *Controller) saveFailed(err error) {
	if err == nil {
		return
	}
	c.log.Warn("local save failed", "error", err)
	c.notify(models.NotifyInfo, "Aviso", "Não foi possível salvar seus dados neste dispositivo.")
}

// Snapshot copies everything that is synced with the remote backup.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Snapshot{
		Profile:      c.profile,
		BaseGoal:     c.baseGoal,
		ActiveDietID: c.activeID,
		Meals:        slices.Clone(c.meals),
		Diets:        slices.Clone(c.diets),
		Workouts:     slices.Clone(c.workouts),
	}
}

// Restore replaces local collections with a pulled snapshot.
func (c *Controller) Restore(snap models.Snapshot) error {
	if err := snap.BaseGoal.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.unlock()

	c.baseGoal = snap.BaseGoal
	c.meals = slices.Clone(snap.Meals)
	c.diets = slices.Clone(snap.Diets)
	c.workouts = slices.Clone(snap.Workouts)
	c.normalize()
	c.activeID = ""
	if snap.ActiveDietID != "" && c.dietIndex(snap.ActiveDietID) >= 0 {
		c.activeID = snap.ActiveDietID
	}
	clear(c.links)
	if snap.Profile.Validate() == nil {
		c.profile = snap.Profile
		c.saveFailed(c.slots.Save(store.SlotUser, c.profile))
	}
	c.persist()
	c.notify(models.NotifyInfo, "Sincronização Concluída", "Seus dados foram restaurados da nuvem.")
	return nil
}
