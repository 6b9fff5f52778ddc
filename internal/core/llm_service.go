package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"gwi.com/globallaunch-advisor/internal/config"
	"gwi.com/globallaunch-advisor/internal/logger"
	"gwi.com/globallaunch-advisor/internal/store"
)

// LLMService is the Gemini-backed Analyst. Transport and API failures come
// back as readable "Error: ..." text rather than as errors.
type LLMService struct {
	client             *genai.Client
	expertModel        string
	personaModel       string
	personaTemperature float32
}

func NewLLMService(ctx context.Context) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:             client,
		expertModel:        config.AppConfig.ExpertModel,
		personaModel:       config.AppConfig.PersonaModel,
		personaTemperature: config.AppConfig.PersonaTemperature,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logger.Error("Error closing GenAI client", "error", err)
		} else {
			logger.Info("GenAI client closed")
		}
	}
}

func (s *LLMService) GenerateExpertAnalysis(ctx context.Context, req AnalysisRequest) (string, error) {
	model := s.client.GenerativeModel(s.expertModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(expertSystemInstruction)},
	}

	text, err := s.complete(ctx, model, buildHistory(req.History, true), userParts(req.Input, req.Attachments))
	if err != nil {
		logger.Error("Expert analysis failed", "model", s.expertModel, "error", err)
		return fmt.Sprintf("Error: %v", err), nil
	}
	return text, nil
}

func (s *LLMService) SimulatePersona(ctx context.Context, req AnalysisRequest) (string, error) {
	model := s.client.GenerativeModel(s.personaModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(personaSystemInstruction(req.Persona, req.ExpertContext))},
	}
	temp := s.personaTemperature
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
	}

	// Earlier attachments are not replayed to the simulated consumer.
	text, err := s.complete(ctx, model, buildHistory(req.History, false), userParts(req.Input, req.Attachments))
	if err != nil {
		logger.Error("Persona simulation failed", "model", s.personaModel, "error", err)
		return fmt.Sprintf("Error: %v", err), nil
	}
	return text, nil
}

func (s *LLMService) complete(ctx context.Context, model *genai.GenerativeModel, history []*genai.Content, parts []genai.Part) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("nothing to send")
	}

	chatSession := model.StartChat()
	chatSession.History = history

	resp, err := chatSession.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		logger.Warn("Gemini response was empty or had no valid candidates/parts")
		return emptyReplyText
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			logger.Debug("Gemini response part was not text", "type", fmt.Sprintf("%T", part))
		}
	}
	if text.Len() == 0 {
		return emptyReplyText
	}
	return text.String()
}

// buildHistory converts the message log into Gemini contents. System messages
// are local only.
func buildHistory(messages []store.Message, withAttachments bool) []*genai.Content {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == store.RoleSystem {
			continue
		}
		var parts []genai.Part
		if withAttachments {
			parts = userParts(m.Text, m.Attachments)
		} else if m.Text != "" {
			parts = []genai.Part{genai.Text(m.Text)}
		}
		if len(parts) == 0 {
			continue
		}
		history = append(history, &genai.Content{Role: string(m.Role), Parts: parts})
	}
	return history
}

func userParts(text string, attachments []store.Attachment) []genai.Part {
	var parts []genai.Part
	for _, att := range attachments {
		data, err := decodeAttachment(att.Data)
		if err != nil {
			logger.Warn("Skipping undecodable attachment", "file", att.Name, "error", err)
			continue
		}
		parts = append(parts, genai.Blob{MIMEType: att.MIMEType, Data: data})
	}
	if text != "" {
		parts = append(parts, genai.Text(text))
	}
	return parts
}

// decodeAttachment accepts raw base64 or a data URL.
func decodeAttachment(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		if _, payload, ok := strings.Cut(data, ","); ok {
			data = payload
		}
	}
	return base64.StdEncoding.DecodeString(data)
}
