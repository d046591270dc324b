package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/store"
	"roleplay-online/backend/pkg/cache"
	"roleplay-online/backend/pkg/jwt"
	"roleplay-online/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAI struct {
	reply  string
	speech string
	ok     bool
}

func (s stubAI) GenerateReply(_ context.Context, _ models.Character, _ string, _ []models.Message, _ string) string {
	return s.reply
}

func (s stubAI) GenerateSpeech(_ context.Context, _ models.Character, _ string) (string, bool) {
	return s.speech, s.ok
}

// recordingAI captures the arguments of the last generation call.
type recordingAI struct {
	reply   string
	text    string
	image   string
	history []models.Message
}

func (r *recordingAI) GenerateReply(_ context.Context, _ models.Character, userMessage string, history []models.Message, imageBase64 string) string {
	r.text = userMessage
	r.image = imageBase64
	r.history = append([]models.Message(nil), history...)
	return r.reply
}

func (r *recordingAI) GenerateSpeech(_ context.Context, _ models.Character, _ string) (string, bool) {
	return "", false
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoginCreatesUser(t *testing.T) {
	svc := NewUserService(testStore(t), jwt.NewService("test-secret", time.Hour), testLogger())

	user, token, err := svc.Login(models.LoginRequest{Email: "ana@x.com", Name: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.Equal(t, "A", user.Initial)
	assert.NotEmpty(t, token)
}

func TestLoginReturningUserKeepsOriginalName(t *testing.T) {
	svc := NewUserService(testStore(t), jwt.NewService("test-secret", time.Hour), testLogger())

	_, _, err := svc.Login(models.LoginRequest{Email: "ana@x.com", Name: "ana"})
	require.NoError(t, err)

	user, _, err := svc.Login(models.LoginRequest{Email: "ana@x.com", Name: "other"})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Name)
}

func TestLoginRejectsBlankFields(t *testing.T) {
	svc := NewUserService(testStore(t), jwt.NewService("test-secret", time.Hour), testLogger())

	_, _, err := svc.Login(models.LoginRequest{Email: "  ", Name: "ana"})
	assert.Error(t, err)
	_, _, err = svc.Login(models.LoginRequest{Email: "a@x.com", Name: ""})
	assert.Error(t, err)
}

func TestListTabs(t *testing.T) {
	chars := NewCharacterService(testStore(t), cache.NewMemoryBackend(), testLogger())

	published, err := chars.Publish("u1@x.com", models.PublishCharacterRequest{
		Name: "Rex", Franchise: "Dino World", Traits: "Feroz",
		Personality: "Predador", Greeting: "*ruge*",
	})
	require.NoError(t, err)

	mine, err := chars.List("u1@x.com", ListFilter{Tab: TabMine})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, published.ID, mine[0].ID)

	otherMine, err := chars.List("u2@x.com", ListFilter{Tab: TabMine})
	require.NoError(t, err)
	assert.Empty(t, otherMine)

	global, err := chars.List("u2@x.com", ListFilter{Tab: TabGlobal})
	require.NoError(t, err)
	ids := make([]string, 0, len(global))
	for _, c := range global {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, published.ID)
}

func TestListKeepsPublishOrder(t *testing.T) {
	chars := NewCharacterService(testStore(t), cache.NewMemoryBackend(), testLogger())

	var ids []string
	for _, name := range []string{"Primeiro", "Segundo", "Terceiro"} {
		c, err := chars.Publish("u@x.com", models.PublishCharacterRequest{
			Name: name, Franchise: "Ordem", Traits: "t",
			Personality: "p", Greeting: "oi",
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	mine, err := chars.List("u@x.com", ListFilter{Tab: TabMine})
	require.NoError(t, err)
	require.Len(t, mine, len(ids))
	for i, c := range mine {
		assert.Equal(t, ids[i], c.ID)
	}
}

func TestListSearchAndCategory(t *testing.T) {
	chars := NewCharacterService(testStore(t), cache.NewMemoryBackend(), testLogger())

	byName, err := chars.List("u@x.com", ListFilter{Query: "lyra"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Lyra", byName[0].Name)

	byFranchise, err := chars.List("u@x.com", ListFilter{Query: "nébula"})
	require.NoError(t, err)
	require.Len(t, byFranchise, 1)
	assert.Equal(t, "Kael", byFranchise[0].Name)

	horror, err := chars.List("u@x.com", ListFilter{Category: "horror"})
	require.NoError(t, err)
	require.Len(t, horror, 1)
	assert.Equal(t, "Morgana", horror[0].Name)

	all, err := chars.List("u@x.com", ListFilter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, len(models.BuiltinCharacters()))
}

func TestPublishDefaults(t *testing.T) {
	chars := NewCharacterService(testStore(t), cache.NewMemoryBackend(), testLogger())

	c, err := chars.Publish("u@x.com", models.PublishCharacterRequest{
		Name: "Nyx", Franchise: "Umbra", Traits: "Quieta",
		Personality: "Observadora", Greeting: "...",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.IsPublic)
	assert.Contains(t, c.AvatarURL, "dicebear")
	assert.Equal(t, models.DefaultVoiceFilter, c.VoiceFilter)
	assert.NotEmpty(t, c.VoiceType)
}

func TestHistorySeedsGreetingOnce(t *testing.T) {
	st := testStore(t)
	chat := NewChatService(st, stubAI{reply: "oi"}, nil, nil, testLogger())
	char := models.Character{ID: "c1", Name: "Lyra", Greeting: "*acena* Bem-vindo."}

	first, err := chat.History("u@x.com", char)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, models.RoleAssistant, first[0].Role)
	assert.Equal(t, char.Greeting, first[0].Content)

	// Seed is persisted, not re-issued.
	second, err := chat.History("u@x.com", char)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	stored, err := st.GetMessages("u@x.com", "c1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSendAppendsBothTurns(t *testing.T) {
	st := testStore(t)
	chat := NewChatService(st, stubAI{reply: "*sorri* Claro."}, nil, nil, testLogger())
	char := models.Character{ID: "c1", Name: "Lyra", Greeting: "Oi."}

	_, err := chat.History("u@x.com", char)
	require.NoError(t, err)

	userMsg, assistantMsg, err := chat.Send(context.Background(), "u@x.com", char, "Me ajuda?", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, userMsg.Role)
	assert.Equal(t, "*sorri* Claro.", assistantMsg.Content)

	stored, err := st.GetMessages("u@x.com", "c1")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "Me ajuda?", stored[1].Content)
	assert.Equal(t, "*sorri* Claro.", stored[2].Content)

	recent, err := chat.Recent("u@x.com")
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c1", recent[0].CharID)
	assert.Equal(t, "*sorri* Claro....", recent[0].LastMsg)
}

func TestSendImageTurnStoresCaptionOnly(t *testing.T) {
	st := testStore(t)
	rec := &recordingAI{reply: "*observa a imagem*"}
	chat := NewChatService(st, rec, nil, nil, testLogger())
	char := models.Character{ID: "c1", Name: "Lyra", Greeting: "Oi."}

	_, err := chat.History("u@x.com", char)
	require.NoError(t, err)

	payload := "data:image/jpeg;base64," + strings.Repeat("QUJD", 512)
	userMsg, _, err := chat.Send(context.Background(), "u@x.com", char, "", payload)
	require.NoError(t, err)
	assert.Equal(t, models.TypeImage, userMsg.Type)
	assert.Empty(t, userMsg.Content)
	assert.Equal(t, payload, rec.image)

	stored, err := st.GetMessages("u@x.com", "c1")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, models.TypeImage, stored[1].Type)
	assert.Empty(t, stored[1].Content)

	// The next turn's history replays the caption slot, never the payload.
	_, _, err = chat.Send(context.Background(), "u@x.com", char, "E então?", "")
	require.NoError(t, err)
	for _, m := range rec.history {
		assert.NotContains(t, m.Content, "QUJD")
	}
}

func TestSendImageTurnKeepsCaption(t *testing.T) {
	st := testStore(t)
	rec := &recordingAI{reply: "*aponta* Que lugar é esse?"}
	chat := NewChatService(st, rec, nil, nil, testLogger())
	char := models.Character{ID: "c1", Name: "Lyra", Greeting: "Oi."}

	userMsg, _, err := chat.Send(context.Background(), "u@x.com", char, "Olha isso", "data:image/jpeg;base64,QUJD")
	require.NoError(t, err)
	assert.Equal(t, models.TypeImage, userMsg.Type)
	assert.Equal(t, "Olha isso", userMsg.Content)
}

func TestSendRejectsEmptyTurn(t *testing.T) {
	chat := NewChatService(testStore(t), stubAI{reply: "x"}, nil, nil, testLogger())

	_, _, err := chat.Send(context.Background(), "u@x.com", models.Character{ID: "c"}, "", "")
	assert.Error(t, err)
}

func TestPreviewTruncation(t *testing.T) {
	long := "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddEXTRA"
	got := preview(long)
	assert.Equal(t, "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd...", got)

	short := preview("oi")
	assert.Equal(t, "oi...", short)
}

func TestSessionStateMachine(t *testing.T) {
	sessions := NewSessionService(nil, testLogger())

	assert.Equal(t, StateLoggedOut, sessions.Begin(""))
	assert.Equal(t, StateAwaitingNickname, sessions.Begin("u@x.com"))

	sessions.CompleteLogin("u@x.com")
	assert.Equal(t, StateBrowsing, sessions.Get("u@x.com").State)

	sessions.EnterChat("u@x.com", "c1")
	got := sessions.Get("u@x.com")
	assert.Equal(t, StateChatting, got.State)
	assert.Equal(t, "c1", got.CharacterID)

	sessions.LeaveChat("u@x.com")
	got = sessions.Get("u@x.com")
	assert.Equal(t, StateBrowsing, got.State)
	assert.Empty(t, got.CharacterID)
}

func TestSessionVoiceToggle(t *testing.T) {
	sessions := NewSessionService(nil, testLogger())
	sessions.EnterChat("u@x.com", "c1")

	assert.True(t, sessions.ToggleVoice("u@x.com", 2))
	assert.Equal(t, 2, sessions.Get("u@x.com").ActiveVoice)

	// Same index stops playback.
	assert.False(t, sessions.ToggleVoice("u@x.com", 2))
	assert.Equal(t, NoActiveVoice, sessions.Get("u@x.com").ActiveVoice)

	// A different index replaces the active one.
	assert.True(t, sessions.ToggleVoice("u@x.com", 1))
	assert.True(t, sessions.ToggleVoice("u@x.com", 4))
	assert.Equal(t, 4, sessions.Get("u@x.com").ActiveVoice)
}

func TestVoiceSynthesize(t *testing.T) {
	st := testStore(t)
	chars := NewCharacterService(st, cache.NewMemoryBackend(), testLogger())
	sessions := NewSessionService(nil, testLogger())
	voice := NewVoiceService(chars, sessions, stubAI{speech: "UENN", ok: true}, testLogger())

	res, err := voice.Synthesize(context.Background(), "u@x.com", "builtin_lyra", "Olá", 0)
	require.NoError(t, err)
	assert.True(t, res.Playing)
	assert.Equal(t, "UENN", res.Audio)
	assert.Equal(t, 24000, res.SampleRate)
	assert.Equal(t, 1, res.Channels)

	// Toggling the same index stops without synthesizing.
	res, err = voice.Synthesize(context.Background(), "u@x.com", "builtin_lyra", "Olá", 0)
	require.NoError(t, err)
	assert.False(t, res.Playing)
	assert.Empty(t, res.Audio)
}

func TestVoiceSynthesizeFailureIsAbsent(t *testing.T) {
	st := testStore(t)
	chars := NewCharacterService(st, cache.NewMemoryBackend(), testLogger())
	sessions := NewSessionService(nil, testLogger())
	voice := NewVoiceService(chars, sessions, stubAI{ok: false}, testLogger())

	res, err := voice.Synthesize(context.Background(), "u@x.com", "builtin_lyra", "Olá", 0)
	require.NoError(t, err)
	assert.False(t, res.Playing)
	// The slot is free again after the failed start.
	assert.Equal(t, NoActiveVoice, sessions.Get("u@x.com").ActiveVoice)
}
