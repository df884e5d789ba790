package translator

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/types"
)

// Gemini translates text through the Google Gemini API.
type Gemini struct {
	apiKey     string
	model      string
	targetLang string
}

// NewGemini creates a new Gemini translator.
func NewGemini(apiKey, model, targetLang string) *Gemini {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if targetLang == "" {
		targetLang = "Chinese"
	}
	return &Gemini{
		apiKey:     apiKey,
		model:      model,
		targetLang: targetLang,
	}
}

// Translate implements the Translator interface.
func (g *Gemini) Translate(ctx context.Context, text string) (string, error) {
	if g.apiKey == "" {
		return "", types.NewAppError(types.ErrConfig, "Gemini API key is not configured", nil)
	}
	if text == "" {
		return "", nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", types.NewAppError(types.ErrAPICall, "failed to create gemini client", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(buildSystemPrompt(g.targetLang))},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(buildUserPrompt(text)))
	if err != nil {
		logger.Error("gemini generate content failed", err, logger.String("model", g.model))
		return "", types.NewAppError(types.ErrAPICall, "failed to generate content", err)
	}

	if len(resp.Candidates) == 0 {
		return "", types.NewAppError(types.ErrAPICall, "no candidates returned from Gemini", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", types.NewAppError(types.ErrAPICall, "empty content returned from Gemini", nil)
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return "", types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"unexpected response format from Gemini",
			fmt.Sprintf("part type %T", candidate.Content.Parts[0]),
			nil,
		)
	}

	return cleanTranslationResult(string(txt)), nil
}
