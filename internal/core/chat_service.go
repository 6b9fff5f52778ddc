package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gwi.com/globallaunch-advisor/internal/logger"
	"gwi.com/globallaunch-advisor/internal/store"
)

const titleRunes = 20

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrTurnInProgress     = errors.New("a turn is already in progress for this session")
	ErrEmptyTurn          = errors.New("turn has no text and no attachments")
	ErrUnknownMode        = errors.New("unknown mode")
	ErrUnknownScenario    = errors.New("unknown demo scenario")
	ErrAttachmentNotFound = errors.New("pending attachment not found")
)

// ChatService owns the session collection and the working copy of the active
// session. All mutations go through it and are persisted as a whole.
type ChatService struct {
	repo    store.SessionRepository
	analyst Analyst
	now     func() time.Time

	mu       sync.Mutex
	sessions []store.Session // newest first
	activeID string
	// set when the stored record could not be read; saving would overwrite it
	memoryOnly bool

	// working copy of the active session
	messages []store.Message
	mode     store.Mode
	persona  store.PersonaProfile
	pending  []store.Attachment
	draft    string

	busy map[string]bool
}

func NewChatService(repo store.SessionRepository, analyst Analyst) *ChatService {
	return &ChatService{
		repo:    repo,
		analyst: analyst,
		now:     time.Now,
		busy:    make(map[string]bool),
	}
}

// SessionSummary is the sidebar view of a session.
type SessionSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	LastModified time.Time  `json:"lastModified"`
	Mode         store.Mode `json:"mode"`
	MessageCount int        `json:"messageCount"`
	Active       bool       `json:"active"`
	Busy         bool       `json:"busy"`
}

// Workspace is the active session together with its unsent input.
type Workspace struct {
	Session            store.Session      `json:"session"`
	PendingAttachments []store.Attachment `json:"pendingAttachments"`
	Draft              string             `json:"draft"`
	Busy               bool               `json:"busy"`
}

// Init loads the persisted collection and activates the most recent session,
// creating a fresh one when nothing usable was stored.
func (s *ChatService) Init(ctx context.Context) {
	sessions, err := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case errors.Is(err, store.ErrCorruptRecord):
		logger.Error("Stored sessions are unreadable, starting fresh", "error", err)
		sessions = nil
	case err != nil:
		logger.Error("Failed to load sessions, running without persistence", "error", err)
		sessions = nil
		s.memoryOnly = true
	}

	s.sessions = sessions
	if len(s.sessions) == 0 {
		s.createLocked(ctx)
		return
	}
	s.sortLocked()
	s.activateLocked(s.sessions[0])
	logger.Info("Sessions restored", "count", len(s.sessions), "active", s.activeID)
}

// CreateSession starts a new expert-mode session and makes it active.
func (s *ChatService) CreateSession(ctx context.Context) store.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(ctx).Clone()
}

func (s *ChatService) createLocked(ctx context.Context) store.Session {
	now := s.now()
	sess := store.Session{
		ID:           newSessionID(),
		Title:        DefaultTitle,
		Messages:     []store.Message{s.newMessage(store.RoleModel, onboardingText)},
		LastModified: now,
		Mode:         store.ModeExpertAnalysis,
		Persona:      store.DefaultPersona,
	}
	s.sessions = append([]store.Session{sess}, s.sessions...)
	s.sortLocked()
	s.activateLocked(sess)
	s.persistLocked(ctx)
	logger.Debug("Session created", "id", sess.ID)
	return sess
}

// LoadSession makes id the active session. Unsent input is discarded.
func (s *ChatService) LoadSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrSessionNotFound
	}
	s.activateLocked(s.sessions[idx])
	return nil
}

// DeleteSession removes id. If it was active, the next most recent session
// takes over, or a fresh one is created.
func (s *ChatService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrSessionNotFound
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	s.persistLocked(ctx)

	if id != s.activeID {
		return nil
	}
	if len(s.sessions) > 0 {
		s.activateLocked(s.sessions[0])
		return nil
	}
	s.createLocked(ctx)
	return nil
}

// ListSessions returns summaries, most recently modified first.
func (s *ChatService) ListSessions() []SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, SessionSummary{
			ID:           sess.ID,
			Title:        sess.Title,
			LastModified: sess.LastModified,
			Mode:         sess.Mode,
			MessageCount: len(sess.Messages),
			Active:       sess.ID == s.activeID,
			Busy:         s.busy[sess.ID],
		})
	}
	return out
}

// Workspace snapshots the active session.
func (s *ChatService) Workspace() Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceLocked()
}

func (s *ChatService) workspaceLocked() Workspace {
	sess := store.Session{
		ID:       s.activeID,
		Title:    DefaultTitle,
		Messages: store.CloneMessages(s.messages),
		Mode:     s.mode,
		Persona:  s.persona,
	}
	if idx := s.indexLocked(s.activeID); idx >= 0 {
		sess.Title = s.sessions[idx].Title
		sess.LastModified = s.sessions[idx].LastModified
	}
	pending := make([]store.Attachment, len(s.pending))
	copy(pending, s.pending)
	return Workspace{
		Session:            sess,
		PendingAttachments: pending,
		Draft:              s.draft,
		Busy:               s.busy[s.activeID],
	}
}

// Session returns a copy of the stored session id.
func (s *ChatService) Session(id string) (store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return store.Session{}, ErrSessionNotFound
	}
	return s.sessions[idx].Clone(), nil
}

// IsBusy reports whether a turn is in flight for id.
func (s *ChatService) IsBusy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[id]
}

func (s *ChatService) activateLocked(sess store.Session) {
	s.activeID = sess.ID
	s.messages = store.CloneMessages(sess.Messages)
	s.mode = sess.Mode
	if !s.mode.Valid() {
		s.mode = store.ModeExpertAnalysis
	}
	s.persona = sess.Persona
	s.pending = nil
	s.draft = ""
}

// syncActiveLocked writes the working copy back into the collection.
func (s *ChatService) syncActiveLocked(ctx context.Context) {
	idx := s.indexLocked(s.activeID)
	if idx < 0 {
		return
	}
	sess := &s.sessions[idx]
	sess.Messages = store.CloneMessages(s.messages)
	sess.Mode = s.mode
	sess.Persona = s.persona
	s.touchLocked(sess)
	s.sortLocked()
	s.persistLocked(ctx)
}

func (s *ChatService) touchLocked(sess *store.Session) {
	sess.LastModified = s.now()
	if sess.Title == DefaultTitle && len(sess.Messages) > 1 {
		sess.Title = autoTitle(sess.Messages)
	}
}

func (s *ChatService) sortLocked() {
	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].LastModified.After(s.sessions[j].LastModified)
	})
}

func (s *ChatService) persistLocked(ctx context.Context) {
	if s.memoryOnly {
		logger.Warn("Skipping save, stored sessions were not loaded")
		return
	}
	snapshot := make([]store.Session, len(s.sessions))
	for i, sess := range s.sessions {
		snapshot[i] = sess.Clone()
	}
	if err := s.repo.SaveAll(ctx, snapshot); err != nil {
		logger.Error("Failed to persist sessions", "error", err)
	}
}

func (s *ChatService) indexLocked(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ChatService) newMessage(role store.Role, text string) store.Message {
	return store.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: s.now(),
	}
}

func autoTitle(messages []store.Message) string {
	for _, m := range messages {
		if m.Role != store.RoleUser {
			continue
		}
		r := []rune(strings.TrimSpace(m.Text))
		if len(r) > titleRunes {
			r = r[:titleRunes]
		}
		if len(r) == 0 {
			return DefaultTitle
		}
		return string(r)
	}
	return DefaultTitle
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
