package ai

import (
	"encoding/json"
	"fmt"

	"github.com/epetitpas/aischool/internal/models"
)

// FallbackResponse builds the deterministic answer served when the upstream
// model is unavailable. Content depends only on the request, so repeated calls
// for the same question return identical responses.
func FallbackResponse(req *GenerateRequest) *Generated {
	answer := fmt.Sprintf(`Bonjour ! Je suis Mr Alex, votre assistant éducatif IA.

Pour votre question sur "%s" en %s (niveau %s), voici une approche pédagogique que nous pouvons utiliser ensemble :

Cette réponse est générée en mode développement. Une fois la clé OpenAI configurée, vous aurez accès à des explications personnalisées et adaptées à votre niveau scolaire.`,
		req.QuestionText, req.Subject, req.GradeLevel)

	steps := []models.QuestionStep{
		{
			Title:   "Analyse de la question",
			Content: fmt.Sprintf("Commençons par bien comprendre ce que vous demandez en %s. C'est important de cerner les concepts clés.", req.Subject),
			Order:   1,
		},
		{
			Title:   "Concepts fondamentaux",
			Content: fmt.Sprintf("Explorons ensemble les principes de base qui vous aideront à maîtriser ce sujet au niveau %s.", req.GradeLevel),
			Order:   2,
		},
		{
			Title:   "Application pratique",
			Content: "Maintenant, voyons comment appliquer ces connaissances dans des situations concrètes !",
			Order:   3,
		},
	}

	quiz := []models.QuizItem{
		{
			Question: fmt.Sprintf("Quelle est la meilleure approche pour apprendre en %s ?", req.Subject),
			Options: []string{
				"Mémoriser sans comprendre",
				"Décomposer étape par étape",
				"Éviter les parties difficiles",
				"Ne lire que des résumés",
			},
			CorrectAnswer: 1,
		},
		{
			Question: "Comment Mr Alex peut-il vous aider dans vos études ?",
			Options: []string{
				"En donnant seulement des réponses courtes",
				"En fournissant des explications détaillées et des quiz",
				"En faisant les devoirs à votre place",
				"En évitant les sujets complexes",
			},
			CorrectAnswer: 1,
		},
	}

	return &Generated{
		Answer:     answer,
		Steps:      steps,
		Quiz:       quiz,
		TokensUsed: estimateTokens(answer, steps),
		Fallback:   true,
	}
}

// estimateTokens approximates token usage for locally generated content,
// mirroring what the usage telemetry would report for a real completion.
func estimateTokens(answer string, steps []models.QuestionStep) int {
	raw, _ := json.Marshal(steps)
	return (len(answer) + len(raw)) / 4
}
