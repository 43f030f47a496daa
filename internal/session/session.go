// Package session holds per-conversation state: the turn history, the user's
// language and input mode selections, the profile facts learned so far, and
// the duplicate-input guard.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/vaanilabs/dhanvani/internal/advisor"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Input modes.
const (
	ModeText  = "text"
	ModeVoice = "voice"
)

// DefaultLanguage is the language a fresh session starts in.
const DefaultLanguage = "en-IN"

// Turn is one message in the conversation history.
type Turn struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Translated string    `json:"translated_content,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session is the state of one conversation. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time

	turns   []Turn
	profile advisor.Profile

	language        string
	inputMode       string
	continuousVoice bool
	lastDetected    string

	processed map[string]struct{}
}

func newSession(id string) *Session {
	return &Session{
		id:        id,
		createdAt: time.Now(),
		language:  DefaultLanguage,
		inputMode: ModeText,
		processed: make(map[string]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Append records a turn in the history. translated may be empty when the
// content needed no translation.
func (s *Session) Append(role, content, translated string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{
		Role:       role,
		Content:    content,
		Translated: translated,
		Timestamp:  time.Now(),
	})
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Clear drops the history, the learned profile, and the duplicate guard.
// Language and mode selections survive, matching what a user expects from a
// "new conversation" action.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.profile = advisor.Profile{}
	s.lastDetected = ""
	s.processed = make(map[string]struct{})
}

// Profile returns the facts learned about the user so far.
func (s *Session) Profile() advisor.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// UpdateProfile merges newly learned facts into the stored profile.
func (s *Session) UpdateProfile(p advisor.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = s.profile.Merge(p)
}

// Language returns the session's selected language code.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage selects the session language.
func (s *Session) SetLanguage(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = code
}

// InputMode returns the current input mode.
func (s *Session) InputMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputMode
}

// SetInputMode selects text or voice input. Continuous voice mode is only
// meaningful for voice input and is dropped when switching to text.
func (s *Session) SetInputMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputMode = mode
	if mode != ModeVoice {
		s.continuousVoice = false
	}
}

// SetContinuousVoice toggles hands-free back-and-forth voice conversation.
func (s *Session) SetContinuousVoice(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.continuousVoice = on
	if on {
		s.inputMode = ModeVoice
	}
}

// ContinuousVoice reports whether continuous voice mode is on.
func (s *Session) ContinuousVoice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.continuousVoice
}

// CarryoverLanguage returns the language detected on the previous voice turn,
// or "" when none applies. Carryover only happens in continuous voice mode,
// where re-detecting every utterance causes jitter mid-conversation.
func (s *Session) CarryoverLanguage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.continuousVoice {
		return ""
	}
	return s.lastDetected
}

// RecordDetectedLanguage remembers the detected language for carryover. Only
// voice turns in continuous mode update it.
func (s *Session) RecordDetectedLanguage(code string, voiceTurn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if voiceTurn && s.continuousVoice {
		s.lastDetected = code
	}
}

// MarkProcessed registers an input fingerprint. It returns false when the
// exact input was already processed in this session, which suppresses
// double-submits of the same utterance.
func (s *Session) MarkProcessed(input string) bool {
	sum := sha256.Sum256([]byte(input))
	key := hex.EncodeToString(sum[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.processed[key]; dup {
		return false
	}
	s.processed[key] = struct{}{}
	return true
}
