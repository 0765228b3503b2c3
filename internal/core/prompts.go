package core

import (
	"fmt"
	"strings"

	"nutiai.com/nutiai-server/internal/models"
)

const (
	adviceSystemInstruction = "Você é o NutiAI, um assistente virtual especialista em nutrição e saúde."

	imagePrompt = "Analise esta imagem de comida. Forneça o nome estimado do prato (em português), " +
		"calorias, proteínas, carboidratos e gorduras totais. Formate a resposta como JSON."
)

func mealPlanPrompt(p models.DietProfile) string {
	restrictions := p.Restrictions
	if strings.TrimSpace(restrictions) == "" {
		restrictions = "Nenhuma"
	}
	return fmt.Sprintf(`Crie um plano alimentar completo para 7 dias (Segunda a Domingo).
Perfil: %s anos, %s, %scm, %skg, Nível de Atividade: %s, Objetivo: %s.
Restrições: %s.

Importante: Estime os macros (calorias, proteinas, carbos, gorduras) INDIVIDUALMENTE para cada refeição de cada dia.
Responda estritamente em Português do Brasil no formato JSON.`,
		p.Age, p.Gender, p.Height, p.Weight, p.Activity, p.Goal, restrictions)
}

func itemsPrompt(items []models.FoodItem) string {
	described := make([]string, 0, len(items))
	for _, item := range items {
		described = append(described, fmt.Sprintf("%s de %s", item.Amount, item.Food))
	}
	return fmt.Sprintf(`Analise os seguintes itens alimentares e estime os valores nutricionais totais (soma de todos os itens).
Itens: %s.
Forneça o nome (ex: "Refeição Personalizada"), calorias totais, proteínas, carboidratos e gorduras.
Responda estritamente em Português do Brasil no formato JSON.`, strings.Join(described, ", "))
}

func workoutPrompt(p models.WorkoutParams, days int) string {
	limitations := p.Limitations
	if strings.TrimSpace(limitations) == "" {
		limitations = "Nenhuma"
	}
	return fmt.Sprintf(`Crie uma rotina de treinos completa baseada em %d dias de treino por semana.
Você deve gerar EXATAMENTE %d sessões de treino diferentes (ex: Treino A, Treino B, Treino C...).

Perfil:
- Objetivo: %s
- Nível: %s
- Local: %s
- Limitações: %s

Cada sessão deve ter um foco (ex: Peito e Tríceps) e uma lista de exercícios com séries, repetições e tempo de descanso.
Responda em Português do Brasil no formato JSON.`, days, days, p.Goal, p.Level, p.Location, limitations)
}

func recipePrompt(ingredients []string) string {
	return fmt.Sprintf("Crie uma receita saudável e rápida com: %s. Responda em Português.", strings.Join(ingredients, ", "))
}
