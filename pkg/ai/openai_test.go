package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newCompletionServer(t *testing.T, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]string{"role": "assistant", "content": content},
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestGenerator(t *testing.T, baseURL string) *ChatGenerator {
	t.Helper()
	generator, err := NewChatGenerator(Config{
		Provider:      ProviderOpenAI,
		APIKey:        "test-key",
		BaseURL:       baseURL + "/v1",
		Model:         "test-model",
		QuestionCount: 3,
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return generator
}

func TestChatGeneratorGenerateQuestions(t *testing.T) {
	var captured capturedRequest
	server := newCompletionServer(t, "1. What is a goroutine?\n\n2. Explain GIL.\n3) How do decorators work?", &captured)
	generator := newTestGenerator(t, server.URL)

	questions, err := generator.GenerateQuestions(t.Context(), "Python Developer")
	require.NoError(t, err)
	require.Equal(t, []string{"What is a goroutine?", "Explain GIL.", "How do decorators work?"}, questions)

	require.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	require.Contains(t, captured.Messages[1].Content, "Generate 3 interview questions for the role of Python Developer")
}

func TestChatGeneratorGenerateFeedback(t *testing.T) {
	var captured capturedRequest
	server := newCompletionServer(t, "Clear and correct.\nScore: 8 out of 10", &captured)
	generator := newTestGenerator(t, server.URL)

	feedback, err := generator.GenerateFeedback(t.Context(), "What is REST?", "An architectural style")
	require.NoError(t, err)
	require.Equal(t, "Clear and correct.\nScore: 8 out of 10", feedback)
	require.Contains(t, captured.Messages[1].Content, "Question: What is REST?")
	require.Contains(t, captured.Messages[1].Content, "Candidate's Answer: An architectural style")
	require.Contains(t, captured.Messages[0].Content, "Score: X out of 10")
}

func TestChatGeneratorRejectsEmptyCompletion(t *testing.T) {
	server := newCompletionServer(t, "   ", nil)
	generator := newTestGenerator(t, server.URL)

	_, err := generator.GenerateFeedback(t.Context(), "q", "a")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrEmptyCompletion))
}

func TestChatGeneratorPropagatesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	t.Cleanup(server.Close)
	generator := newTestGenerator(t, server.URL)

	_, err := generator.GenerateQuestions(t.Context(), "Web Developer")
	require.Error(t, err)
}

func TestNewChatGeneratorValidatesConfig(t *testing.T) {
	_, err := NewChatGenerator(Config{Provider: ProviderOpenAI})
	require.Error(t, err)

	_, err = NewChatGenerator(Config{Provider: "bard", APIKey: "k"})
	require.Error(t, err)

	generator, err := NewChatGenerator(Config{Provider: ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "gemini-2.0-flash", generator.Model())
}

func TestParseQuestionList(t *testing.T) {
	content := "Here are questions\n- What is Docker?\n* Explain CI/CD.\n\n   \n10. Describe blue/green deploys."
	require.Equal(t, []string{"Here are questions", "What is Docker?", "Explain CI/CD.", "Describe blue/green deploys."}, ParseQuestionList(content))
	require.Empty(t, ParseQuestionList("  \n "))

	numbered := "1. 3 ways to scale a web app?\n2) 404 vs 410: when do you use each?\n- 5 whys in incident reviews?"
	require.Equal(t, []string{
		"3 ways to scale a web app?",
		"404 vs 410: when do you use each?",
		"5 whys in incident reviews?",
	}, ParseQuestionList(numbered))
}
