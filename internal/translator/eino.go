package translator

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/types"
)

// EinoModel translates text through an eino ChatModel. It speaks the same
// chat-completions protocol as Engine but goes through the eino component
// layer, which gives callback hooks and model swapping for free.
type EinoModel struct {
	chatModel  model.BaseChatModel
	targetLang string
}

// NewEinoModel creates an eino-backed translator using the OpenAI chat
// model component.
func NewEinoModel(ctx context.Context, apiKey, baseURL, modelName, targetLang string) (*EinoModel, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	if targetLang == "" {
		targetLang = "Chinese"
	}

	cfg := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to create chat model", err)
	}

	return &EinoModel{
		chatModel:  chatModel,
		targetLang: targetLang,
	}, nil
}

// Translate implements the Translator interface.
func (m *EinoModel) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	messages := []*schema.Message{
		schema.SystemMessage(buildSystemPrompt(m.targetLang)),
		schema.UserMessage(buildUserPrompt(text)),
	}

	resp, err := m.chatModel.Generate(ctx, messages)
	if err != nil {
		logger.Error("eino chat model generate failed", err)
		return "", types.NewAppError(types.ErrAPICall, "chat model generate failed", err)
	}

	return cleanTranslationResult(resp.Content), nil
}
