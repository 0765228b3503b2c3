package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/hashicorp/go-hclog"
	"google.golang.org/api/option"

	"nutiai.com/nutiai-server/internal/models"
)

// Image is an inline picture sent along with a prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// GenerateRequest is one call to the model: one request, one response.
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Image             *Image
	// Schema, when set, makes the model answer with JSON of that shape.
	Schema  *genai.Schema
	History []models.ChatMessage
}

// Generator returns the raw text the model answered with.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type LLMService struct {
	client *genai.Client
	log    hclog.Logger
}

func NewLLMService(ctx context.Context, apiKey string, logger hclog.Logger) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LLMService{client: client, log: logger.Named("gemini")}, nil
}

func (s *LLMService) Close() {
	if s.client == nil {
		return
	}
	if err := s.client.Close(); err != nil {
		s.log.Error("error closing GenAI client", "error", err)
	} else {
		s.log.Info("GenAI client closed")
	}
}

func (s *LLMService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := s.client.GenerativeModel(req.Model)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema
	}

	var parts []genai.Part
	if req.Image != nil {
		parts = append(parts, genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data})
	}
	parts = append(parts, genai.Text(req.Prompt))

	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	if len(req.History) > 0 {
		chatSession := model.StartChat()
		chatSession.History = historyContents(req.History)
		resp, err = chatSession.SendMessage(ctx, parts...)
	} else {
		resp, err = model.GenerateContent(ctx, parts...)
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: gemini request failed: %v", ErrTransport, err)
	}
	return responseText(resp), nil
}

func historyContents(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleModel {
			role = "model"
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Text)}})
	}
	return contents
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return text.String()
}
