package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
}

func newTestClient(baseURL string) *GeminiClient {
	return &GeminiClient{
		client:    &http.Client{Timeout: 5 * time.Second},
		baseURL:   baseURL,
		apiKey:    "test-key",
		textModel: "text-model",
		ttsModel:  "tts-model",
		log:       quietLogger(),
	}
}

func textUpstream(t *testing.T, reply string, capture *generateRequest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestGenerateReply(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(textUpstream(t, "*sorri* E aí, aprendiz.", &captured))
	defer srv.Close()
	c := newTestClient(srv.URL)

	char := models.Character{ID: "c1", Name: "Lyra", Franchise: "Eldoria", Personality: "Sarcástica", Traits: "Brilhante"}
	history := []models.Message{
		models.NewMessage(models.RoleAssistant, "Bem-vindo."),
		models.NewMessage(models.RoleUser, "Oi!"),
	}

	got := c.GenerateReply(context.Background(), char, "Me ensina magia?", history, "")
	assert.Equal(t, "*sorri* E aí, aprendiz.", got)

	require.NotNil(t, captured.SystemInstruction)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "LYRA")
	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, 1.0, captured.GenerationConfig.Temperature)
	assert.Equal(t, 0.95, captured.GenerationConfig.TopP)

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "model", captured.Contents[0].Role)
	assert.Equal(t, "user", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, "Me ensina magia?", captured.Contents[2].Parts[0].Text)
}

func TestGenerateReplyTruncatesHistory(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(textUpstream(t, "ok", &captured))
	defer srv.Close()
	c := newTestClient(srv.URL)

	history := make([]models.Message, 35)
	for i := range history {
		history[i] = models.NewMessage(models.RoleUser, "msg")
	}
	c.GenerateReply(context.Background(), models.Character{Name: "X"}, "hi", history, "")

	// 20 prior turns plus the current one.
	assert.Len(t, captured.Contents, HistoryLimit+1)
}

func TestGenerateReplyHistoryImageTurn(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(textUpstream(t, "ok", &captured))
	defer srv.Close()
	c := newTestClient(srv.URL)

	// An image turn without a caption is stored with empty content and
	// replays as a bare ellipsis, never as a payload.
	imageTurn := models.NewMessage(models.RoleUser, "")
	imageTurn.Type = models.TypeImage
	history := []models.Message{
		models.NewMessage(models.RoleAssistant, "Oi."),
		imageTurn,
	}

	c.GenerateReply(context.Background(), models.Character{Name: "X"}, "E aí?", history, "")

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "...", captured.Contents[1].Parts[0].Text)
	assert.Nil(t, captured.Contents[1].Parts[0].InlineData)
}

func TestGenerateReplyInlineImage(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(textUpstream(t, "ok", &captured))
	defer srv.Close()
	c := newTestClient(srv.URL)

	c.GenerateReply(context.Background(), models.Character{Name: "X"}, "", nil,
		"data:image/jpeg;base64,AAAA")

	require.Len(t, captured.Contents, 1)
	parts := captured.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "...", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)
	assert.Equal(t, "AAAA", parts[1].InlineData.Data)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, imageDirective)
}

func TestGenerateReplyUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	char := models.Character{Name: "Kael", Franchise: "Nébula-9"}
	got := c.GenerateReply(context.Background(), char, "oi", nil, "")
	assert.Contains(t, got, "Nébula-9")
	assert.Contains(t, got, "instável")
}

func TestGenerateReplyEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	got := c.GenerateReply(context.Background(), models.Character{Name: "Morgana"}, "oi", nil, "")
	assert.Equal(t, "*Morgana apenas sorri, guardando seus segredos.*", got)
}

func TestGenerateSpeech(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "audio/pcm", "data": "UENN"}},
				}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	char := models.Character{Name: "Kael", VoiceType: models.VoiceMale, VoiceFilter: "Heróico"}
	audio, ok := c.GenerateSpeech(context.Background(), char, "*acena* Bem-vindo a bordo")

	assert.True(t, ok)
	assert.Equal(t, "UENN", audio)
	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, []string{"AUDIO"}, captured.GenerationConfig.ResponseModalities)
	assert.Equal(t, "Kore", captured.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Bem-vindo a bordo")
	assert.NotContains(t, captured.Contents[0].Parts[0].Text, "*acena*")
}

func TestGenerateSpeechNothingSpeakable(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	audio, ok := c.GenerateSpeech(context.Background(), models.Character{Name: "X"}, "*apenas observa*")
	assert.False(t, ok)
	assert.Empty(t, audio)
	assert.False(t, called)
}

func TestGenerateSpeechUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	audio, ok := c.GenerateSpeech(context.Background(), models.Character{Name: "X"}, "Olá")
	assert.False(t, ok)
	assert.Empty(t, audio)
}
