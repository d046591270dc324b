package ai

import (
	"fmt"
	"regexp"
	"strings"

	"roleplay-online/backend/internal/models"
)

var actionPattern = regexp.MustCompile(`\*[^*]+\*`)

// CleanSpeechText strips *action* annotations and quotation marks so only
// spoken dialogue reaches the TTS model. Returns "" when nothing speakable
// remains.
func CleanSpeechText(text string) string {
	out := actionPattern.ReplaceAllString(text, "")
	out = strings.ReplaceAll(out, `"`, "")
	return strings.TrimSpace(out)
}

// VoiceForType maps a character voice type onto a prebuilt Gemini voice.
func VoiceForType(voiceType string) string {
	if voiceType == models.VoiceMale {
		return "Kore"
	}
	return "Puck"
}

// speechDirective wraps the cleaned text with the character's voice filter
// so the TTS model performs the line instead of reading it flat.
func speechDirective(char models.Character, cleanText string) string {
	filter := char.VoiceFilter
	if filter == "" {
		filter = models.DefaultVoiceFilter
	}
	return fmt.Sprintf("Diga isso com uma voz %s e interpretando o personagem %s: %s", filter, char.Name, cleanText)
}
