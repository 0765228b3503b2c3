package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"nutiai.com/nutiai-server/internal/app"
	"nutiai.com/nutiai-server/internal/models"
	"nutiai.com/nutiai-server/internal/report"
)

func (h *APIHandler) GenerateDietHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DietProfile
	if !decodeBody(w, r, &req) {
		return
	}
	var plan models.MealPlan
	err := h.scoped(r, "planner", "Não foi possível gerar sua dieta. Tente novamente.", func(ctx context.Context) error {
		var err error
		plan, err = h.gateway.GenerateMealPlan(ctx, req)
		return err
	})
	if err != nil {
		h.fail(w, r, "generate diet", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *APIHandler) ListDietsHandler(w http.ResponseWriter, r *http.Request) {
	diets := h.controller(r).SavedDiets()
	if diets == nil {
		diets = []models.SavedDiet{}
	}
	writeJSON(w, http.StatusOK, diets)
}

func (h *APIHandler) SaveDietHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DietDraft
	if !decodeBody(w, r, &req) {
		return
	}
	diet, err := h.controller(r).SaveDiet(req)
	if err != nil {
		h.fail(w, r, "save diet", err)
		return
	}
	writeJSON(w, http.StatusCreated, diet)
}

func (h *APIHandler) DeleteDietHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller(r).DeleteDiet(urlParam(r, "dietID")); err != nil {
		h.fail(w, r, "delete diet", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetActiveDietHandler takes {"dietId": ""} to go back to the base goal.
func (h *APIHandler) SetActiveDietHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DietID string `json:"dietId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	c := h.controller(r)
	if err := c.SetActiveDiet(req.DietID); err != nil {
		h.fail(w, r, "set active diet", err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

// planSlot reads /{dietID}/days/{day}/{slot}.
func planSlot(r *http.Request) (app.PlanSlot, error) {
	day, err := strconv.Atoi(urlParam(r, "day"))
	if err != nil {
		return app.PlanSlot{}, fmt.Errorf("%w: day must be a number", models.ErrInvalid)
	}
	return app.PlanSlot{
		DietID: urlParam(r, "dietID"),
		Day:    day,
		Type:   models.MealType(urlParam(r, "slot")),
	}, nil
}

type PlanSlotResponse struct {
	Day  int             `json:"day"`
	Type models.MealType `json:"type"`
}

func (h *APIHandler) LoggedPlanMealsHandler(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	dietID := urlParam(r, "dietID")
	if _, err := c.Diet(dietID); err != nil {
		h.fail(w, r, "logged plan meals", err)
		return
	}
	out := []PlanSlotResponse{}
	for _, s := range c.LoggedPlanSlots(dietID) {
		out = append(out, PlanSlotResponse{Day: s.Day, Type: s.Type})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) LogPlanMealHandler(w http.ResponseWriter, r *http.Request) {
	slot, err := planSlot(r)
	if err == nil {
		var meal models.Meal
		if meal, err = h.controller(r).LogPlanMeal(slot); err == nil {
			writeJSON(w, http.StatusOK, meal)
			return
		}
	}
	h.fail(w, r, "log plan meal", err)
}

func (h *APIHandler) UnlogPlanMealHandler(w http.ResponseWriter, r *http.Request) {
	slot, err := planSlot(r)
	if err == nil {
		err = h.controller(r).UnlogPlanMeal(slot)
	}
	if err != nil {
		h.fail(w, r, "unlog plan meal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) GenerateWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req models.WorkoutParams
	if !decodeBody(w, r, &req) {
		return
	}
	var workout models.Workout
	err := h.scoped(r, "workout", "Não foi possível gerar seu treino. Tente novamente.", func(ctx context.Context) error {
		var err error
		workout, err = h.gateway.GenerateWorkout(ctx, req)
		return err
	})
	if err != nil {
		h.fail(w, r, "generate workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (h *APIHandler) ListWorkoutsHandler(w http.ResponseWriter, r *http.Request) {
	workouts := h.controller(r).SavedWorkouts()
	if workouts == nil {
		workouts = []models.SavedWorkout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (h *APIHandler) SaveWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req models.WorkoutDraft
	if !decodeBody(w, r, &req) {
		return
	}
	workout, err := h.controller(r).SaveWorkout(req)
	if err != nil {
		h.fail(w, r, "save workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *APIHandler) DeleteWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller(r).DeleteWorkout(urlParam(r, "workoutID")); err != nil {
		h.fail(w, r, "delete workout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(urlParam(r, "session"))
	if err != nil {
		http.Error(w, "session must be a number", http.StatusBadRequest)
		return
	}
	session, err := h.controller(r).StartSession(urlParam(r, "workoutID"), idx)
	if err != nil {
		h.fail(w, r, "start session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func writePDF(w http.ResponseWriter, name string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(name)))
	w.Write(buf.Bytes())
	return nil
}

func (h *APIHandler) DietPDFHandler(w http.ResponseWriter, r *http.Request) {
	diet, err := h.controller(r).Diet(urlParam(r, "dietID"))
	if err == nil {
		err = writePDF(w, diet.Name, func(buf *bytes.Buffer) error { return report.DietPDF(buf, diet) })
	}
	if err != nil {
		h.fail(w, r, "diet pdf", err)
	}
}

func (h *APIHandler) WorkoutPDFHandler(w http.ResponseWriter, r *http.Request) {
	workout, err := h.controller(r).Workout(urlParam(r, "workoutID"))
	if err == nil {
		err = writePDF(w, workout.Name, func(buf *bytes.Buffer) error { return report.WorkoutPDF(buf, workout) })
	}
	if err != nil {
		h.fail(w, r, "workout pdf", err)
	}
}
