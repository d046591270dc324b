package ai

import (
	"context"

	"roleplay-online/backend/internal/models"
)

// HistoryLimit caps how many prior messages condition a generation request.
const HistoryLimit = 20

// Audio format of synthesized speech (raw PCM, no container).
const (
	SampleRate = 24000
	Channels   = 1
)

// Client generates in-character dialogue and speech for a persona.
//
// GenerateReply never fails from the caller's point of view: upstream or
// transport errors come back as an in-character fallback line, so the chat
// turn always completes with some assistant text.
//
// GenerateSpeech returns base64 s16le mono 24kHz PCM and true, or "" and
// false when the text has no speakable content or synthesis failed.
type Client interface {
	GenerateReply(ctx context.Context, char models.Character, userMessage string, history []models.Message, imageBase64 string) string
	GenerateSpeech(ctx context.Context, char models.Character, text string) (string, bool)
}
