package api

import (
	"context"
	"net/http"

	"nutiai.com/nutiai-server/internal/models"
)

func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history := h.controller(r).ChatHistory()
	if history == nil {
		history = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, history)
}

type AdviceRequest struct {
	Message string `json:"message"`
}

// AdviceHandler answers one chat message. The exchange is recorded only
// when the model replied.
func (h *APIHandler) AdviceHandler(w http.ResponseWriter, r *http.Request) {
	var req AdviceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c := h.controller(r)
	var reply string
	err := h.scoped(r, "assistant", "Não foi possível obter uma resposta do assistente.", func(ctx context.Context) error {
		var err error
		reply, err = h.gateway.GetAdvice(ctx, req.Message, c.ChatHistory())
		return err
	})
	if err != nil {
		h.fail(w, r, "advice", err)
		return
	}
	msg := models.ChatMessage{Role: models.RoleModel, Text: reply}
	c.AppendChat(models.ChatMessage{Role: models.RoleUser, Text: req.Message}, msg)
	writeJSON(w, http.StatusOK, msg)
}

func (h *APIHandler) ResetChatHandler(w http.ResponseWriter, r *http.Request) {
	h.controller(r).ResetChat()
	w.WriteHeader(http.StatusNoContent)
}

type RecipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

func (h *APIHandler) RecipeHandler(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var recipe models.Recipe
	err := h.scoped(r, "recipes", "Não foi possível gerar a receita.", func(ctx context.Context) error {
		var err error
		recipe, err = h.gateway.GenerateRecipe(ctx, req.Ingredients)
		return err
	})
	if err != nil {
		h.fail(w, r, "recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}
