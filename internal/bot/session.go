package bot

import "sync"

// State names the step a chat conversation is waiting on.
type State string

const (
	StateIdle        State = ""
	StateName        State = "name"
	StateCategory    State = "category"
	StateMedia       State = "media"
	StateSocial      State = "social"
	StateVerifyEmail State = "verify_email"
	StateVerifyCode  State = "verify_code"
	StateEditInfo    State = "edit_info"
)

// Session holds the answers collected so far for one chat.
type Session struct {
	State      State
	BizName    string
	Category   string
	ExtraInfo  string
	Email      string
	LastSiteID string
}

// SessionStore is an in-memory, mutex-guarded session map keyed by
// chat ID. Sessions are stored by value; mutate through Update.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]Session)}
}

// Begin resets the chat to a fresh conversation at the first step,
// keeping the last generated site ID so /edit keeps working.
func (s *SessionStore) Begin(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{State: StateName, LastSiteID: s.sessions[chatID].LastSiteID}
	s.sessions[chatID] = sess
	return sess
}

// Get returns a copy of the chat's session.
func (s *SessionStore) Get(chatID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	return sess, ok
}

// Update applies fn to the chat's session under the lock. It reports
// whether a session existed.
func (s *SessionStore) Update(chatID int64, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return false
	}
	fn(&sess)
	s.sessions[chatID] = sess
	return true
}

// Clear drops the chat's session entirely.
func (s *SessionStore) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Finish marks a generation as done: the conversation answers are
// dropped but the site ID stays available for /edit.
func (s *SessionStore) Finish(chatID int64, siteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = Session{State: StateIdle, LastSiteID: siteID}
}
