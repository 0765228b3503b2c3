package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"nutiai.com/nutiai-server/internal/media"
	"nutiai.com/nutiai-server/internal/models"
	"nutiai.com/nutiai-server/internal/utils"
)

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ListMealsHandler returns every logged meal, newest first, or only one day
// with ?date=YYYY-MM-DD.
func (h *APIHandler) ListMealsHandler(w http.ResponseWriter, r *http.Request) {
	meals := h.controller(r).Meals()
	if date := r.URL.Query().Get("date"); date != "" {
		meals = utils.FilterByDate(meals, date)
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (h *APIHandler) AddMealHandler(w http.ResponseWriter, r *http.Request) {
	var req models.MealCandidate
	if !decodeBody(w, r, &req) {
		return
	}
	meal, err := h.controller(r).AddMeal(req)
	if err != nil {
		h.fail(w, r, "add meal", err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (h *APIHandler) DeleteMealHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller(r).RemoveMealByID(urlParam(r, "mealID")); err != nil {
		h.fail(w, r, "delete meal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMealHandler removes the first of today's meals matching the
// descriptor. It reports whether one matched.
func (h *APIHandler) RemoveMealHandler(w http.ResponseWriter, r *http.Request) {
	var req models.MealDescriptor
	if !decodeBody(w, r, &req) {
		return
	}
	removed := h.controller(r).RemoveMeal(req)
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

type EstimateItemsRequest struct {
	Items []models.FoodItem `json:"items"`
}

func (h *APIHandler) EstimateItemsHandler(w http.ResponseWriter, r *http.Request) {
	var req EstimateItemsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var estimate models.MealEstimate
	err := h.scoped(r, "vision", "Não foi possível calcular os nutrientes.", func(ctx context.Context) error {
		var err error
		estimate, err = h.gateway.EstimateFromItems(ctx, req.Items)
		return err
	})
	if err != nil {
		h.fail(w, r, "estimate items", err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// EstimateImageRequest carries a photo as base64, optionally as a data URL.
type EstimateImageRequest struct {
	Image    string `json:"image"`
	MIMEType string `json:"mimeType"`
}

type EstimateImageResponse struct {
	models.MealEstimate
	PhotoURL string   `json:"photoUrl,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// decodeImage accepts "data:image/png;base64,...." or bare base64.
func decodeImage(req EstimateImageRequest) ([]byte, string, error) {
	payload, mimeType := req.Image, req.MIMEType
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, "", fmt.Errorf("%w: malformed data URL", models.ErrInvalid)
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(header, ";base64")
		}
		payload = data
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image is not valid base64", models.ErrInvalid)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: image is empty", models.ErrInvalid)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func (h *APIHandler) EstimateImageHandler(w http.ResponseWriter, r *http.Request) {
	// base64 inflates by 4/3; leave room for the JSON envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes*4/3+4096)
	var req EstimateImageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	data, mimeType, err := decodeImage(req)
	if err != nil {
		h.fail(w, r, "estimate image", err)
		return
	}
	if int64(len(data)) > h.maxImageBytes {
		http.Error(w, fmt.Sprintf("Image exceeds %d bytes", h.maxImageBytes), http.StatusRequestEntityTooLarge)
		return
	}

	var resp EstimateImageResponse
	err = h.scoped(r, "vision", "Não foi possível analisar a foto.", func(ctx context.Context) error {
		if h.guard != nil {
			labels, err := h.guard.Check(ctx, data)
			if errors.Is(err, media.ErrNotFood) {
				return err
			}
			if err != nil {
				h.log.Warn("food guard unavailable, continuing", "error", err)
			}
			resp.Labels = labels
		}
		var err error
		resp.MealEstimate, err = h.gateway.EstimateFromImage(ctx, data, mimeType)
		return err
	})
	if err != nil {
		h.fail(w, r, "estimate image", err)
		return
	}

	if h.photos != nil {
		url, err := h.photos.Store(r.Context(), UserID(r.Context()), data, mimeType)
		if err != nil {
			h.log.Warn("photo archive failed", "error", err)
		}
		resp.PhotoURL = url
	}
	writeJSON(w, http.StatusOK, resp)
}
