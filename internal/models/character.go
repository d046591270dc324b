package models

import "time"

// SystemAuthorID marks the built-in catalog entries.
const SystemAuthorID = "system"

// Voice types accepted by the speech pipeline.
const (
	VoiceMale   = "male"
	VoiceFemale = "female"
)

// Defaults applied when a character record omits optional persona fields.
const (
	DefaultFranchise   = "Multiverso"
	DefaultVoiceFilter = "Natural"
)

// Character is a persona definition consumed by the LLM client to condition
// generated dialogue. Characters are immutable once published; there is no
// edit or delete path.
type Character struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Name        string    `json:"name"`
	Franchise   string    `json:"franchise"`
	Gender      string    `json:"gender"`
	Description string    `json:"description"`
	Traits      string    `json:"traits"`
	AvatarURL   string    `json:"avatar_url"`
	Category    string    `json:"category"`
	Theme       string    `json:"theme"`
	Personality string    `json:"personality"`
	Greeting    string    `json:"greeting"`
	IsPublic    bool      `json:"is_public"`
	Background  string    `json:"background,omitempty"`
	VoiceType   string    `json:"voice_type,omitempty"`
	VoiceFilter string    `json:"voice_filter,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Normalize fills the optional fields the catalog guarantees to readers.
func (c *Character) Normalize() {
	if c.Franchise == "" {
		c.Franchise = DefaultFranchise
	}
	if c.VoiceType == "" {
		if c.Gender == VoiceFemale {
			c.VoiceType = VoiceFemale
		} else {
			c.VoiceType = VoiceMale
		}
	}
	if c.VoiceFilter == "" {
		c.VoiceFilter = DefaultVoiceFilter
	}
}

// PublishCharacterRequest is the payload for publishing a user-authored
// character into the shared public gallery.
type PublishCharacterRequest struct {
	Name        string `json:"name" binding:"required"`
	Franchise   string `json:"franchise" binding:"required"`
	Traits      string `json:"traits" binding:"required"`
	Personality string `json:"personality" binding:"required"`
	Greeting    string `json:"greeting" binding:"required"`
	AvatarURL   string `json:"avatar_url"`
	Category    string `json:"category"`
	Theme       string `json:"theme"`
	VoiceType   string `json:"voice_type"`
	VoiceFilter string `json:"voice_filter"`
}
