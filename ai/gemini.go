package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/pkg/config"
	"roleplay-online/backend/pkg/logger"
	"roleplay-online/backend/pkg/observability"
)

// GeminiClient talks to the Gemini generateContent API over plain HTTP.
// The base URL is configurable so tests can stand in a fake upstream.
type GeminiClient struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	textModel string
	ttsModel  string
	log       *logger.Logger
	metrics   *observability.Metrics
}

// NewGeminiClient builds a client from the application config.
func NewGeminiClient(log *logger.Logger, metrics *observability.Metrics) *GeminiClient {
	cfg := config.Get()
	if log == nil {
		log = logger.GetGlobal()
	}
	return &GeminiClient{
		client:    &http.Client{Timeout: cfg.Gemini.Timeout},
		baseURL:   strings.TrimRight(cfg.Gemini.BaseURL, "/"),
		apiKey:    cfg.Gemini.APIKey,
		textModel: cfg.Gemini.TextModel,
		ttsModel:  cfg.Gemini.TTSModel,
		log:       log,
		metrics:   metrics,
	}
}

// Ready reports whether the client has credentials to reach the upstream.
func (c *GeminiClient) Ready() bool {
	return c.apiKey != ""
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature        float64       `json:"temperature,omitempty"`
	TopP               float64       `json:"topP,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateReply produces the character's next line. Upstream failures come
// back as the in-character instability line naming the franchise; an empty
// completion comes back as the silent-smile line naming the character. The
// caller never sees an error.
func (c *GeminiClient) GenerateReply(ctx context.Context, char models.Character, userMessage string, history []models.Message, imageBase64 string) string {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}

	contents := make([]content, 0, len(history)+1)
	for _, h := range history {
		role := "model"
		if h.Role == models.RoleUser {
			role = "user"
		}
		// Image turns are stored as their caption, which may be empty.
		text := h.Content
		if text == "" {
			text = "..."
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: text}}})
	}

	text := userMessage
	if text == "" {
		text = "..."
	}
	current := []part{{Text: text}}
	if imageBase64 != "" {
		data := imageBase64
		if idx := strings.Index(data, ","); idx >= 0 {
			data = data[idx+1:]
		}
		current = append(current, part{InlineData: &inlineData{MimeType: "image/jpeg", Data: data}})
	}
	contents = append(contents, content{Role: "user", Parts: current})

	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: personaInstruction(char, imageBase64 != "")}}},
		Contents:          contents,
		GenerationConfig:  &generationConfig{Temperature: 1.0, TopP: 0.95},
	}

	start := time.Now()
	resp, err := c.call(ctx, c.textModel, req)
	if err != nil {
		c.metrics.RecordLLMCall(ctx, "generate", time.Since(start), false)
		c.log.Warn("Reply generation failed", "character", char.ID, "error", err.Error())
		return fmt.Sprintf("*A realidade de %s parece instável. Tente novamente.*", char.Franchise)
	}
	c.metrics.RecordLLMCall(ctx, "generate", time.Since(start), true)

	if out := resp.text(); out != "" {
		return out
	}
	return fmt.Sprintf("*%s apenas sorri, guardando seus segredos.*", char.Name)
}

// GenerateSpeech synthesizes the spoken portion of text in the character's
// voice. Returns base64 PCM and true, or "" and false when there is nothing
// to speak or synthesis failed.
func (c *GeminiClient) GenerateSpeech(ctx context.Context, char models.Character, text string) (string, bool) {
	cleanText := CleanSpeechText(text)
	if cleanText == "" {
		return "", false
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: speechDirective(char, cleanText)}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: VoiceForType(char.VoiceType)},
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.call(ctx, c.ttsModel, req)
	if err != nil {
		c.metrics.RecordLLMCall(ctx, "speech", time.Since(start), false)
		c.log.Warn("Speech synthesis failed", "character", char.ID, "error", err.Error())
		return "", false
	}

	audio := resp.audio()
	ok := audio != ""
	c.metrics.RecordLLMCall(ctx, "speech", time.Since(start), ok)
	return audio, ok
}

func (c *GeminiClient) call(ctx context.Context, model string, req generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini %s returned status %d", model, httpResp.StatusCode)
	}
	var out generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	return &out, nil
}

// text concatenates the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// audio returns the inline data of the first candidate's first audio part.
func (r *generateResponse) audio() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData.Data
		}
	}
	return ""
}
