package service

import (
	"context"
	"strings"

	"designhub-be/internal/constant"
	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/logger"
	"designhub-be/pkg/llm"
)

// IChatService backs the web chat widget. The endpoint is stateless; the
// frontend resends the transcript on every turn.
type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewChatService(llmProvider llm.LLMProvider, log logger.ILogger) IChatService {
	return &chatService{
		llmProvider: llmProvider,
		log:         log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	history := make([]llm.Message, 0, len(req.Messages)+1)
	history = append(history, llm.Message{
		Role:    "system",
		Content: constant.DesignChatSystemPrompt,
	})
	for _, turn := range req.Messages {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.llmProvider.Chat(ctx, history, llm.WithMaxTokens(1000))
	if err != nil {
		s.log.Error("chat", "llm request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	// The machine-readable block is split off and returned separately so
	// the frontend can offer task creation.
	data := extractJsonData(reply)
	cleaned := stripJsonBlock(reply)
	if strings.TrimSpace(cleaned) == "" {
		cleaned = constant.SlackMsgEmptyResponse
	}
	return &dto.ChatResponse{Reply: cleaned, Data: data}, nil
}
