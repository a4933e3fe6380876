package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// VertexClient implements domain.CompletionClient on Vertex AI (Gemini).
// Alternate backend for deployments that already run on GCP and prefer not
// to route completions through OpenRouter.
type VertexClient struct {
	client       *genai.Client
	defaultModel string
}

func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for the vertex backend")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{client: client, defaultModel: modelName}, nil
}

// Complete implements domain.CompletionClient. System messages become the
// system instruction; the rest map onto the user/model conversation.
func (v *VertexClient) Complete(ctx context.Context, messages []domain.ChatMessage, model string) (string, error) {
	if model == "" {
		model = v.defaultModel
	}

	var system string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case domain.ChatRoleSystem:
			if system != "" {
				system += "\n"
			}
			system += m.Content
		case domain.ChatRoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: 8192,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := v.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", ErrMalformedResponse
	}

	return text, nil
}
