package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/store"
	"roleplay-online/backend/pkg/di"
	"roleplay-online/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Config{Level: "error", JSON: true, Output: io.Discard}
	st, err := store.Open(t.TempDir(), logger.New(log))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	container, err := di.New(st, &di.Config{LoggerConfig: log})
	require.NoError(t, err)

	r := New(container)
	r.SetupRoutes()
	r.Container.Health.RunChecks()
	return r
}

func doJSON(t *testing.T, r *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *Router, email, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "store")
}

func TestLoginAndMe(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "ana@x.com", "ana")

	w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "ana@x.com", user.Email)
	assert.Equal(t, "A", user.Initial)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/characters", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCharacterGallery(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "u1@x.com", "um")

	// The gallery starts with the built-in set.
	w := doJSON(t, r, http.MethodGet, "/api/v1/characters", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gallery []models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gallery))
	assert.Len(t, gallery, len(models.BuiltinCharacters()))

	// Publish one and find it under tab=mine.
	w = doJSON(t, r, http.MethodPost, "/api/v1/characters", token, gin.H{
		"name": "Rex", "franchise": "Dino World", "traits": "Feroz",
		"personality": "Predador", "greeting": "*ruge*",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var published models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &published))

	w = doJSON(t, r, http.MethodGet, "/api/v1/characters?tab=mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, published.ID, mine[0].ID)

	// Another user sees it globally but not under mine.
	otherToken := login(t, r, "u2@x.com", "dois")
	w = doJSON(t, r, http.MethodGet, "/api/v1/characters?tab=mine", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var otherMine []models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &otherMine))
	assert.Empty(t, otherMine)

	w = doJSON(t, r, http.MethodGet, "/api/v1/characters/"+published.ID, otherToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublishRequiresPersonaFields(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "u@x.com", "u")

	w := doJSON(t, r, http.MethodPost, "/api/v1/characters", token, gin.H{"name": "Incompleto"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHistorySeedsGreeting(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "u@x.com", "u")

	w := doJSON(t, r, http.MethodGet, "/api/v1/chat/builtin_lyra/messages", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msgs []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleAssistant, msgs[0].Role)
	assert.NotEmpty(t, msgs[0].Content)

	// The seed is stable across reloads.
	w = doJSON(t, r, http.MethodGet, "/api/v1/chat/builtin_lyra/messages", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	assert.Len(t, msgs, 1)
}

func TestChatHistoryUnknownCharacter(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "u@x.com", "u")

	w := doJSON(t, r, http.MethodGet, "/api/v1/chat/missing/messages", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecentStartsEmpty(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "u@x.com", "u")

	w := doJSON(t, r, http.MethodGet, "/api/v1/chat/recent", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var recent []models.ChatHistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recent))
	assert.Empty(t, recent)
}
