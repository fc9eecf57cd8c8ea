package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/epetitpas/aischool/internal/models"
	cfgpkg "github.com/epetitpas/aischool/pkg/config"
	"github.com/epetitpas/aischool/pkg/logctx"
	"github.com/epetitpas/aischool/pkg/metrics"
)

// GenerateRequest carries the student question and its context.
type GenerateRequest struct {
	QuestionText string
	Subject      string
	GradeLevel   string
	QuestionType string
}

// Generated is a structurally valid tutoring answer.
type Generated struct {
	Answer     string
	Steps      []models.QuestionStep
	Quiz       []models.QuizItem
	TokensUsed int
	// Fallback marks locally generated content substituted for the upstream model.
	Fallback bool
}

// Generator produces an answer for a student question. Implementations must
// always return a usable response: upstream failures are absorbed by
// substituting deterministic fallback content, never surfaced to the caller.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) *Generated
}

// OpenAIGenerator generates answers with the OpenAI chat completion API and
// falls back to canned content when the API is unconfigured or unavailable.
type OpenAIGenerator struct {
	api *openai.Client
	cfg cfgpkg.OpenAIConfig
	log *zap.SugaredLogger
}

func NewOpenAIGenerator(cfg *cfgpkg.Config, log *zap.SugaredLogger) Generator {
	g := &OpenAIGenerator{cfg: cfg.OpenAI, log: log}
	if cfg.OpenAI.APIKey != "" {
		g.api = openai.NewClient(cfg.OpenAI.APIKey)
	} else {
		log.Warnw("openai api key not configured, generator will serve fallback content")
	}
	return g
}

const systemPromptFmt = `Tu es Mr Alex, un professeur IA expert en pédagogie pour E-petitpas IA School.

CONTEXTE:
- Niveau: %s
- Matière: %s
- Type: %s

MISSION:
1. Fournis une explication claire et pédagogique
2. Décompose en étapes logiques (2-4 étapes max)
3. Crée un mini-quiz (2-3 questions) pour tester la compréhension
4. Adapte le vocabulaire au niveau scolaire
5. Sois encourageant et bienveillant

FORMAT DE RÉPONSE (JSON strict):
{
  "answer": "Explication principale claire et adaptée au niveau",
  "steps": [{"title": "Titre de l'étape", "content": "Contenu détaillé de l'étape", "order": 1}],
  "quiz": [{"question": "Question de compréhension", "options": ["Option A", "Option B", "Option C", "Option D"], "correct_answer": 0}]
}

IMPORTANT: Réponds uniquement en JSON valide, sans markdown ni commentaires.`

type completionPayload struct {
	Answer string                `json:"answer"`
	Steps  []models.QuestionStep `json:"steps"`
	Quiz   []models.QuizItem     `json:"quiz"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req *GenerateRequest) *Generated {
	if g.api == nil {
		return g.fallback(ctx, req)
	}

	out, err := g.complete(ctx, req)
	if err != nil {
		logctx.FromCtx(ctx, g.log).Warnw("openai completion failed, serving fallback", "err", err)
		return g.fallback(ctx, req)
	}
	return out
}

func (g *OpenAIGenerator) complete(ctx context.Context, req *GenerateRequest) (*Generated, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPromptFmt, req.GradeLevel, req.Subject, req.QuestionType)},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question de l'élève: %s\n\nGénère une réponse pédagogique complète avec étapes et quiz.", req.QuestionText)},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode completion payload: %w", err)
	}
	if payload.Answer == "" || len(payload.Steps) == 0 || len(payload.Quiz) == 0 {
		return nil, fmt.Errorf("incomplete completion payload")
	}

	return &Generated{
		Answer:     payload.Answer,
		Steps:      payload.Steps,
		Quiz:       payload.Quiz,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func (g *OpenAIGenerator) fallback(ctx context.Context, req *GenerateRequest) *Generated {
	metrics.GenerationFallbackTotal.Inc()
	logctx.FromCtx(ctx, g.log).Infow("serving fallback generation",
		"subject", req.Subject, "grade_level", req.GradeLevel)
	return FallbackResponse(req)
}
