package ai

import (
	"testing"

	"roleplay-online/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPersonaInstruction(t *testing.T) {
	char := models.Character{
		Name:        "Kael",
		Franchise:   "Nébula-9",
		Personality: "Piloto mercenário",
		Traits:      "Impulsivo, leal",
	}

	got := personaInstruction(char, false)
	assert.Contains(t, got, "KAEL")
	assert.Contains(t, got, "NÉBULA-9")
	assert.Contains(t, got, "Piloto mercenário")
	assert.Contains(t, got, "Impulsivo, leal")
	assert.NotContains(t, got, imageDirective)

	got = personaInstruction(char, true)
	assert.Contains(t, got, imageDirective)
}

func TestPersonaInstructionDefaultsFranchise(t *testing.T) {
	got := personaInstruction(models.Character{Name: "X"}, false)
	assert.Contains(t, got, models.DefaultFranchise)
}
