package service

import (
	"context"

	"roleplay-online/backend/ai"
	"roleplay-online/backend/pkg/logger"
)

// VoiceResult carries synthesized speech back to the client. Audio is raw
// base64 PCM; the client builds its own playback buffer from the format
// fields.
type VoiceResult struct {
	Playing    bool   `json:"playing"`
	Audio      string `json:"audio,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// VoiceService turns assistant replies into speech, honoring the session's
// single-active-audio rule.
type VoiceService struct {
	characters *CharacterService
	sessions   *SessionService
	client     ai.Client
	log        *logger.Logger
}

func NewVoiceService(characters *CharacterService, sessions *SessionService, client ai.Client, log *logger.Logger) *VoiceService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &VoiceService{characters: characters, sessions: sessions, client: client, log: log}
}

// Synthesize toggles the voice slot for a message index and, when the
// toggle starts playback, synthesizes the text in the character's voice.
// A failed or empty synthesis returns a non-playing result, never an error.
func (s *VoiceService) Synthesize(ctx context.Context, email, characterID, text string, messageIndex int) (VoiceResult, error) {
	char, err := s.characters.Get(characterID)
	if err != nil {
		return VoiceResult{}, err
	}

	if !s.sessions.ToggleVoice(email, messageIndex) {
		return VoiceResult{Playing: false}, nil
	}

	audio, ok := s.client.GenerateSpeech(ctx, char, text)
	if !ok {
		s.sessions.ToggleVoice(email, messageIndex)
		return VoiceResult{Playing: false}, nil
	}
	return VoiceResult{
		Playing:    true,
		Audio:      audio,
		SampleRate: ai.SampleRate,
		Channels:   ai.Channels,
	}, nil
}
