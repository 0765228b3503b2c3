package core

import "github.com/google/generative-ai-go/genai"

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func num() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func macrosSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"calories": num(),
		"protein":  num(),
		"carbs":    num(),
		"fats":     num(),
	}, "calories", "protein", "carbs", "fats")
}

func mealDetailSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"description": str(),
		"calories":    num(),
		"protein":     num(),
		"carbs":       num(),
		"fats":        num(),
	}, "description", "calories", "protein", "carbs", "fats")
}

var mealPlanSchema = object(map[string]*genai.Schema{
	"targets": macrosSchema(),
	"days": arrayOf(object(map[string]*genai.Schema{
		"dayName":   str(),
		"breakfast": mealDetailSchema(),
		"lunch":     mealDetailSchema(),
		"dinner":    mealDetailSchema(),
		"snack":     mealDetailSchema(),
	}, "dayName", "breakfast", "lunch", "dinner", "snack")),
}, "targets", "days")

var estimateSchema = object(map[string]*genai.Schema{
	"name":     str(),
	"calories": num(),
	"protein":  num(),
	"carbs":    num(),
	"fats":     num(),
}, "name", "calories", "protein", "carbs", "fats")

var workoutSchema = object(map[string]*genai.Schema{
	"name": str(),
	"goal": str(),
	"sessions": arrayOf(object(map[string]*genai.Schema{
		"dayName": {Type: genai.TypeString, Description: "Ex: Treino A, Treino B..."},
		"focus":   {Type: genai.TypeString, Description: "Ex: Membros Superiores"},
		"exercises": arrayOf(object(map[string]*genai.Schema{
			"name": str(),
			"sets": num(),
			"reps": str(),
			"rest": str(),
		}, "name", "sets", "reps", "rest")),
	}, "dayName", "focus", "exercises")),
}, "name", "goal", "sessions")

var recipeSchema = object(map[string]*genai.Schema{
	"name":         str(),
	"ingredients":  arrayOf(str()),
	"instructions": arrayOf(str()),
	"macros":       macrosSchema(),
}, "name", "ingredients", "instructions", "macros")
