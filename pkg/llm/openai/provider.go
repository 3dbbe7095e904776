package openai

import (
	"context"
	"fmt"

	"designhub-be/pkg/llm"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIProvider struct {
	client    openaisdk.Client
	ModelName string
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		client:    openaisdk.NewClient(option.WithAPIKey(apiKey)),
		ModelName: modelName,
	}
}

func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case "system":
			messages = append(messages, openaisdk.SystemMessage(msg.Content))
		case "assistant", "model":
			messages = append(messages, openaisdk.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(msg.Content))
		}
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(model),
		Messages:    messages,
		Temperature: openaisdk.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(options.MaxTokens))
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
