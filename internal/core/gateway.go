package core

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/hashicorp/go-hclog"

	"nutiai.com/nutiai-server/internal/models"
)

const (
	DefaultPlanModel    = "gemini-2.5-pro"
	DefaultFlashModel   = "gemini-2.5-flash"
	DefaultHistoryLimit = 10
)

type Options struct {
	// PlanModel serves the long structured plans (diets and workouts).
	PlanModel string
	// FlashModel serves estimates, chat and recipes.
	FlashModel   string
	HistoryLimit int
	Logger       hclog.Logger
}

// Gateway turns user parameters into prompts and model answers into
// validated domain values. It never retries.
type Gateway struct {
	gen  Generator
	opts Options
	log  hclog.Logger
}

func NewGateway(gen Generator, opts Options) *Gateway {
	if opts.PlanModel == "" {
		opts.PlanModel = DefaultPlanModel
	}
	if opts.FlashModel == "" {
		opts.FlashModel = DefaultFlashModel
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Gateway{gen: gen, opts: opts, log: log.Named("gateway")}
}

// call runs one structured request and decodes the JSON answer into v.
func (g *Gateway) call(ctx context.Context, op string, req GenerateRequest, v any) error {
	text, err := g.gen.Generate(ctx, req)
	if err != nil {
		return g.failed(op, err)
	}
	text = cleanResponse(text)
	if text == "" {
		g.log.Warn("empty model response", "operation", op)
		return ErrEmptyResponse
	}
	return g.checked(op, decodeJSON(op, text, v))
}

func (g *Gateway) failed(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		g.log.Debug("generation abandoned", "operation", op, "error", err)
		return err
	}
	if !errors.Is(err, ErrTransport) {
		err = errors.Join(ErrTransport, err)
	}
	g.log.Warn("model call failed", "operation", op, "error", err)
	return err
}

// checked logs contract violations apart from transport noise.
func (g *Gateway) checked(op string, err error) error {
	var ce *ContractError
	if errors.As(err, &ce) {
		g.log.Error("contract violation", "operation", op, "path", ce.Path, "reason", ce.Reason)
	}
	return err
}

func (g *Gateway) GenerateMealPlan(ctx context.Context, profile models.DietProfile) (models.MealPlan, error) {
	const op = "generateMealPlan"
	var wire wireMealPlan
	err := g.call(ctx, op, GenerateRequest{
		Model:  g.opts.PlanModel,
		Prompt: mealPlanPrompt(profile),
		Schema: mealPlanSchema,
	}, &wire)
	if err != nil {
		return models.MealPlan{}, err
	}
	plan, err := convertMealPlan(op, wire)
	return plan, g.checked(op, err)
}

func (g *Gateway) EstimateFromImage(ctx context.Context, data []byte, mimeType string) (models.MealEstimate, error) {
	const op = "estimateFromImage"
	if len(data) == 0 {
		return models.MealEstimate{}, invalidInput("image is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return models.MealEstimate{}, invalidInput("unsupported content type %q", mimeType)
	}
	return g.estimate(ctx, op, GenerateRequest{
		Model:  g.opts.FlashModel,
		Prompt: imagePrompt,
		Image:  &Image{MIMEType: mimeType, Data: data},
		Schema: estimateSchema,
	})
}

func (g *Gateway) EstimateFromItems(ctx context.Context, items []models.FoodItem) (models.MealEstimate, error) {
	const op = "estimateFromItems"
	var filled []models.FoodItem
	for _, item := range items {
		if strings.TrimSpace(item.Food) != "" {
			filled = append(filled, item)
		}
	}
	if len(filled) == 0 {
		return models.MealEstimate{}, invalidInput("at least one food item is required")
	}
	return g.estimate(ctx, op, GenerateRequest{
		Model:  g.opts.FlashModel,
		Prompt: itemsPrompt(filled),
		Schema: estimateSchema,
	})
}

func (g *Gateway) estimate(ctx context.Context, op string, req GenerateRequest) (models.MealEstimate, error) {
	var wire wireEstimate
	if err := g.call(ctx, op, req, &wire); err != nil {
		return models.MealEstimate{}, err
	}
	est, err := convertEstimate(op, wire)
	return est, g.checked(op, err)
}

// ParseDaysPerWeek accepts the form's free-text day count, 1 through 7.
func ParseDaysPerWeek(s string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || days < 1 || days > 7 {
		return 0, invalidInput("daysPerWeek must be a number from 1 to 7, got %q", s)
	}
	return days, nil
}

func (g *Gateway) GenerateWorkout(ctx context.Context, params models.WorkoutParams) (models.Workout, error) {
	const op = "generateWorkout"
	days, err := ParseDaysPerWeek(params.DaysPerWeek)
	if err != nil {
		return models.Workout{}, err
	}
	var wire wireWorkout
	err = g.call(ctx, op, GenerateRequest{
		Model:  g.opts.PlanModel,
		Prompt: workoutPrompt(params, days),
		Schema: workoutSchema,
	}, &wire)
	if err != nil {
		return models.Workout{}, err
	}
	workout, err := convertWorkout(op, wire, days)
	return workout, g.checked(op, err)
}

// GetAdvice replays at most the configured number of recent turns.
func (g *Gateway) GetAdvice(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	const op = "getAdvice"
	if strings.TrimSpace(message) == "" {
		return "", invalidInput("message is empty")
	}
	if len(history) > g.opts.HistoryLimit {
		history = history[len(history)-g.opts.HistoryLimit:]
	}
	// The replayed conversation has to open with a user turn.
	for len(history) > 0 && history[0].Role != models.RoleUser {
		history = history[1:]
	}
	text, err := g.gen.Generate(ctx, GenerateRequest{
		Model:             g.opts.FlashModel,
		SystemInstruction: adviceSystemInstruction,
		Prompt:            message,
		History:           history,
	})
	if err != nil {
		return "", g.failed(op, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		g.log.Warn("empty model response", "operation", op)
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gateway) GenerateRecipe(ctx context.Context, ingredients []string) (models.Recipe, error) {
	const op = "generateRecipe"
	var cleaned []string
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	if len(cleaned) == 0 {
		return models.Recipe{}, invalidInput("at least one ingredient is required")
	}
	var wire wireRecipe
	err := g.call(ctx, op, GenerateRequest{
		Model:  g.opts.FlashModel,
		Prompt: recipePrompt(cleaned),
		Schema: recipeSchema,
	}, &wire)
	if err != nil {
		return models.Recipe{}, err
	}
	recipe, err := convertRecipe(op, wire)
	return recipe, g.checked(op, err)
}

// Schemas exposes the declared output shapes by operation name.
func Schemas() map[string]*genai.Schema {
	return map[string]*genai.Schema{
		"generateMealPlan":  mealPlanSchema,
		"estimateFromImage": estimateSchema,
		"estimateFromItems": estimateSchema,
		"generateWorkout":   workoutSchema,
		"generateRecipe":    recipeSchema,
	}
}
