package service

import (
	"sync"

	"roleplay-online/backend/pkg/logger"
)

// SessionState is the explicit phase a user session is in. Rendering and
// allowed operations follow from the state alone.
type SessionState string

const (
	StateLoggedOut        SessionState = "logged_out"
	StateAwaitingNickname SessionState = "awaiting_nickname"
	StateBrowsing         SessionState = "browsing"
	StateChatting         SessionState = "chatting"
)

// EventSessionState announces a state transition over the notifier.
const EventSessionState = "session.state"

// NoActiveVoice marks a session with no audio playing.
const NoActiveVoice = -1

// Session is the per-user controller state. At most one voice slot is
// active; starting audio for another message index replaces it.
type Session struct {
	Email       string       `json:"email"`
	State       SessionState `json:"state"`
	CharacterID string       `json:"character_id,omitempty"`
	ActiveVoice int          `json:"active_voice"`
}

// SessionService holds the in-memory state machine for every connected
// user. There is no terminal state: sessions only move between phases.
type SessionService struct {
	notifier Notifier
	log      *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionService(notifier Notifier, log *logger.Logger) *SessionService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &SessionService{
		notifier: notifier,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Begin starts the login flow for an email. An empty email is silently
// ignored and the session stays logged out.
func (s *SessionService) Begin(email string) SessionState {
	if email == "" {
		return StateLoggedOut
	}
	s.transition(email, func(sess *Session) {
		if sess.State == StateLoggedOut {
			sess.State = StateAwaitingNickname
		}
	})
	return s.Get(email).State
}

// CompleteLogin moves a session to browsing once the user record exists.
// A returning user resumes here directly.
func (s *SessionService) CompleteLogin(email string) {
	s.transition(email, func(sess *Session) {
		sess.State = StateBrowsing
		sess.CharacterID = ""
		sess.ActiveVoice = NoActiveVoice
	})
}

// EnterChat moves the session into a conversation with one character.
func (s *SessionService) EnterChat(email, characterID string) {
	s.transition(email, func(sess *Session) {
		sess.State = StateChatting
		sess.CharacterID = characterID
		sess.ActiveVoice = NoActiveVoice
	})
}

// LeaveChat returns the session to browsing and silences any audio.
func (s *SessionService) LeaveChat(email string) {
	s.transition(email, func(sess *Session) {
		sess.State = StateBrowsing
		sess.CharacterID = ""
		sess.ActiveVoice = NoActiveVoice
	})
}

// ToggleVoice flips the voice slot for a message index. Toggling the index
// already playing stops it; any other index becomes the single active one.
// Returns true when audio should start playing.
func (s *SessionService) ToggleVoice(email string, index int) bool {
	play := false
	s.transition(email, func(sess *Session) {
		if sess.ActiveVoice == index {
			sess.ActiveVoice = NoActiveVoice
			return
		}
		sess.ActiveVoice = index
		play = true
	})
	return play
}

// Get returns a snapshot of the session, creating a logged-out one when the
// email is unknown.
func (s *SessionService) Get(email string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.sessionLocked(email)
}

func (s *SessionService) transition(email string, apply func(*Session)) {
	s.mu.Lock()
	sess := s.sessionLocked(email)
	before := sess.State
	apply(sess)
	snapshot := *sess
	s.mu.Unlock()

	if before != snapshot.State {
		s.log.Debug("Session transition", "email", email, "from", string(before), "to", string(snapshot.State))
	}
	if s.notifier != nil {
		s.notifier.Notify(email, EventSessionState, snapshot)
	}
}

func (s *SessionService) sessionLocked(email string) *Session {
	sess, ok := s.sessions[email]
	if !ok {
		sess = &Session{Email: email, State: StateLoggedOut, ActiveVoice: NoActiveVoice}
		s.sessions[email] = sess
	}
	return sess
}
