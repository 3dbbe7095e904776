package service

import (
	"context"
	"errors"
	"testing"

	"designhub-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatRequest(content string) *dto.ChatRequest {
	return &dto.ChatRequest{
		Messages: []dto.ChatTurn{{Role: "user", Content: content}},
	}
}

func TestChat_ReturnsReplyAndExtractedData(t *testing.T) {
	llmStub := &fakeLLM{replies: []string{
		"まとめました。\n```json\n{\"title\": \"広告バナー\", \"description\": \"1080x1920\", \"urgency\": \"急ぎ\"}\n```",
	}}
	svc := NewChatService(llmStub, nopLogger{})

	res, err := svc.Chat(context.Background(), chatRequest("バナー作りたい"))
	require.NoError(t, err)

	assert.NotContains(t, res.Reply, "```")
	assert.Contains(t, res.Reply, "まとめました。")

	require.NotNil(t, res.Data)
	assert.Equal(t, "広告バナー", res.Data.Title)
	assert.Equal(t, "急ぎ", res.Data.Urgency)
}

func TestChat_NoJsonInReply(t *testing.T) {
	llmStub := &fakeLLM{replies: []string{"もう少し詳しく教えてください。"}}
	svc := NewChatService(llmStub, nopLogger{})

	res, err := svc.Chat(context.Background(), chatRequest("相談があります"))
	require.NoError(t, err)

	assert.Equal(t, "もう少し詳しく教えてください。", res.Reply)
	assert.Nil(t, res.Data)
}

func TestChat_LLMFailure(t *testing.T) {
	llmStub := &fakeLLM{err: errors.New("model unavailable")}
	svc := NewChatService(llmStub, nopLogger{})

	_, err := svc.Chat(context.Background(), chatRequest("バナー作りたい"))
	require.Error(t, err)
}
