package remote

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nutiai.com/nutiai-server/internal/models"
)

// PushSnapshot replaces everything the user has remotely with snap, in one
// transaction. Rows keep their local ids unless another user already holds
// the id; the active diet follows the id its diet ended up with.
func (c *Client) PushSnapshot(ctx context.Context, userID string, snap models.Snapshot) error {
	err := c.transaction(ctx, func(tx *gorm.DB) error {
		for _, row := range []any{&MealRow{}, &SavedDietRow{}, &SavedWorkoutRow{}} {
			if err := tx.Where("user_id = ?", userID).Delete(row).Error; err != nil {
				return err
			}
		}

		base := time.Now().UTC()
		meals := &mealRepository{db: tx}
		// Local meals are newest first; insert oldest first so created_at
		// ordering reproduces them.
		for i := len(snap.Meals) - 1; i >= 0; i-- {
			at := base.Add(time.Duration(len(snap.Meals)-1-i) * time.Millisecond)
			id, err := unclaimedID(tx, &MealRow{}, snap.Meals[i].ID)
			if err != nil {
				return err
			}
			if _, err := meals.insertAt(ctx, userID, id, MealInputFrom(snap.Meals[i]), at); err != nil {
				return err
			}
		}

		diets := &dietRepository{db: tx}
		dietIDs := make(map[string]string, len(snap.Diets))
		for i, d := range snap.Diets {
			at := d.CreatedAt
			if at.IsZero() {
				at = base.Add(time.Duration(i) * time.Millisecond)
			}
			id, err := unclaimedID(tx, &SavedDietRow{}, d.ID)
			if err != nil {
				return err
			}
			saved, err := diets.insertAt(ctx, userID, id, models.DietDraft{Name: d.Name, Targets: d.Targets, Days: d.Days}, at)
			if err != nil {
				return err
			}
			dietIDs[d.ID] = saved.ID
		}

		workouts := &workoutRepository{db: tx}
		for i, w := range snap.Workouts {
			at := w.CreatedAt
			if at.IsZero() {
				at = base.Add(time.Duration(i) * time.Millisecond)
			}
			id, err := unclaimedID(tx, &SavedWorkoutRow{}, w.ID)
			if err != nil {
				return err
			}
			draft := models.WorkoutDraft{Name: w.Name, Goal: w.Goal, Level: w.Level, Sessions: w.Sessions}
			if _, err := workouts.insertAt(ctx, userID, id, draft, at); err != nil {
				return err
			}
		}

		goal, err := json.Marshal(snap.BaseGoal)
		if err != nil {
			return err
		}
		profile := Profile{
			ID:       userID,
			Name:     snap.Profile.Name,
			Email:    snap.Profile.Email,
			BaseGoal: datatypes.JSON(goal),
		}
		if id, ok := dietIDs[snap.ActiveDietID]; ok && snap.ActiveDietID != "" {
			profile.ActiveDietID = &id
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "base_goal", "active_diet_id", "updated_at"}),
		}).Create(&profile).Error
	})
	if err != nil {
		c.log.Error("snapshot push failed", "user", userID, "error", err)
	}
	return wrap("push snapshot", err)
}

// unclaimedID returns id when no row of model holds it yet, and "" otherwise
// so the insert assigns a fresh one. Runs after the user's own rows are gone.
func unclaimedID(tx *gorm.DB, model any, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return "", err
	}
	if n > 0 {
		return "", nil
	}
	return id, nil
}

// PullSnapshot reads everything the user has remotely, in local order:
// meals newest first, saved diets and workouts oldest first.
func (c *Client) PullSnapshot(ctx context.Context, userID string) (models.Snapshot, error) {
	var snap models.Snapshot

	profile, err := c.Profiles.Get(ctx, userID)
	if err != nil {
		return snap, err
	}
	snap.Profile = models.UserProfile{Name: profile.Name, Email: profile.Email}
	snap.BaseGoal = profile.Goal()
	if profile.ActiveDietID != nil {
		snap.ActiveDietID = *profile.ActiveDietID
	}

	if snap.Meals, err = c.Meals.List(ctx, userID, ""); err != nil {
		return snap, err
	}
	if snap.Diets, err = c.Diets.List(ctx, userID); err != nil {
		return snap, err
	}
	slices.Reverse(snap.Diets)
	if snap.Workouts, err = c.Workouts.List(ctx, userID); err != nil {
		return snap, err
	}
	slices.Reverse(snap.Workouts)

	if snap.ActiveDietID != "" && !slices.ContainsFunc(snap.Diets, func(d models.SavedDiet) bool { return d.ID == snap.ActiveDietID }) {
		snap.ActiveDietID = ""
	}
	return snap, nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
