package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/store"
	"roleplay-online/backend/pkg/cache"
	apperrors "roleplay-online/backend/pkg/errors"
	"roleplay-online/backend/pkg/logger"

	"github.com/google/uuid"
)

// Gallery tabs.
const (
	TabGlobal = "global"
	TabMine   = "mine"
)

const catalogCacheKey = "characters:catalog"

// ListFilter narrows the gallery listing. Zero values mean no filtering.
type ListFilter struct {
	Tab      string
	Category string
	Query    string
}

// CharacterService serves the character gallery: the built-in seed set plus
// everything users have published. Published characters are immutable, so
// the whole catalog is cacheable until the next publish.
type CharacterService struct {
	store *store.Store
	cache cache.Backend
	log   *logger.Logger
}

func NewCharacterService(s *store.Store, c cache.Backend, log *logger.Logger) *CharacterService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &CharacterService{store: s, cache: c, log: log}
}

// List returns the catalog filtered for one viewer. tab=mine keeps only the
// viewer's own published characters; the default global tab shows everything.
func (s *CharacterService) List(viewerEmail string, filter ListFilter) ([]models.Character, error) {
	catalog, err := s.catalog()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]models.Character, 0, len(catalog))
	for _, c := range catalog {
		if filter.Tab == TabMine && c.AuthorID != viewerEmail {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && c.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.Franchise), query) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Get resolves a character by id from the built-in set or the published set.
func (s *CharacterService) Get(id string) (models.Character, error) {
	for _, c := range models.BuiltinCharacters() {
		if c.ID == id {
			return c, nil
		}
	}
	c, err := s.store.GetCharacter(id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Character{}, apperrors.NewNotFoundError("CHARACTER_NOT_FOUND", "character not found")
	}
	if err != nil {
		return models.Character{}, apperrors.NewInternalServerError("CHARACTER_LOOKUP_FAILED", "could not load character")
	}
	c.Normalize()
	return *c, nil
}

// Publish puts a user-authored character into the shared gallery. Every
// publish creates a fresh entry; there is no dedup, edit, or delete.
func (s *CharacterService) Publish(authorEmail string, req models.PublishCharacterRequest) (models.Character, error) {
	char := models.Character{
		ID:          uuid.NewString(),
		AuthorID:    authorEmail,
		Name:        strings.TrimSpace(req.Name),
		Franchise:   strings.TrimSpace(req.Franchise),
		Gender:      "other",
		Traits:      req.Traits,
		AvatarURL:   req.AvatarURL,
		Category:    req.Category,
		Theme:       req.Theme,
		Personality: req.Personality,
		Greeting:    req.Greeting,
		IsPublic:    true,
		VoiceType:   req.VoiceType,
		VoiceFilter: req.VoiceFilter,
		CreatedAt:   time.Now(),
	}
	if char.AvatarURL == "" {
		char.AvatarURL = fmt.Sprintf("https://api.dicebear.com/7.x/bottts/svg?seed=%d", time.Now().UnixMilli())
	}
	char.Normalize()

	if err := s.store.PublishCharacter(char); err != nil {
		return models.Character{}, apperrors.NewInternalServerError("CHARACTER_PUBLISH_FAILED", "could not publish character")
	}
	s.cache.Delete(catalogCacheKey)
	return char, nil
}

// catalog returns built-ins followed by the published set in insertion
// order, going through the cache backend.
func (s *CharacterService) catalog() ([]models.Character, error) {
	if data, ok := s.cache.GetBytes(catalogCacheKey); ok {
		var cached []models.Character
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	published, err := s.store.ListPublishedCharacters()
	if err != nil {
		return nil, apperrors.NewInternalServerError("CHARACTER_LIST_FAILED", "could not list characters")
	}
	for i := range published {
		published[i].Normalize()
	}
	catalog := append(models.BuiltinCharacters(), published...)

	if data, err := json.Marshal(catalog); err == nil {
		s.cache.SetBytes(catalogCacheKey, data, 5*time.Minute)
	}
	return catalog, nil
}
