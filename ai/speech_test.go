package ai

import (
	"testing"

	"roleplay-online/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCleanSpeechText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips action annotations", "*waves hello* Hi there", "Hi there"},
		{"strips quotes", `"Olá" disse ela`, "Olá disse ela"},
		{"action only becomes empty", "*olha em silêncio*", ""},
		{"multiple actions", "*suspira* Tudo bem *sorri* por aqui", "Tudo bem  por aqui"},
		{"plain text untouched", "Bom dia", "Bom dia"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSpeechText(tt.input))
		})
	}
}

func TestVoiceForType(t *testing.T) {
	assert.Equal(t, "Kore", VoiceForType(models.VoiceMale))
	assert.Equal(t, "Puck", VoiceForType(models.VoiceFemale))
	assert.Equal(t, "Puck", VoiceForType(""))
}

func TestSpeechDirective(t *testing.T) {
	char := models.Character{Name: "Lyra", VoiceFilter: "Rouca"}
	got := speechDirective(char, "Bem-vindo")
	assert.Equal(t, "Diga isso com uma voz Rouca e interpretando o personagem Lyra: Bem-vindo", got)

	char.VoiceFilter = ""
	got = speechDirective(char, "Bem-vindo")
	assert.Contains(t, got, "voz Natural")
}
