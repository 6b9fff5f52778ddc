package core

import (
	"context"
	"fmt"
	"strings"

	"gwi.com/globallaunch-advisor/internal/chart"
	"gwi.com/globallaunch-advisor/internal/logger"
	"gwi.com/globallaunch-advisor/internal/store"
)

// AnalysisRequest is one exchange handed to the Analyst. History holds the
// messages before the user's new input.
type AnalysisRequest struct {
	History       []store.Message
	Input         string
	Attachments   []store.Attachment
	Persona       store.PersonaProfile
	ExpertContext string
}

// Analyst produces the model side of a turn.
type Analyst interface {
	GenerateExpertAnalysis(ctx context.Context, req AnalysisRequest) (string, error)
	SimulatePersona(ctx context.Context, req AnalysisRequest) (string, error)
}

// SendTurn posts the user's input, plus any pending attachments, to the active
// session and waits for the model reply. A second turn on a busy session is
// rejected, not queued.
func (s *ChatService) SendTurn(ctx context.Context, input string, attachments []store.Attachment) (*store.Message, error) {
	s.mu.Lock()
	all := append(s.pendingLocked(), attachments...)
	if strings.TrimSpace(input) == "" && len(all) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyTurn
	}
	sessionID := s.activeID
	if s.busy[sessionID] {
		s.mu.Unlock()
		return nil, ErrTurnInProgress
	}
	s.busy[sessionID] = true

	prior := store.CloneMessages(s.messages)
	mode := s.mode
	persona := s.persona

	userMsg := s.newMessage(store.RoleUser, input)
	if len(all) > 0 {
		userMsg.Attachments = all
	}
	s.messages = append(s.messages, userMsg)
	s.pending = nil
	s.draft = ""
	s.syncActiveLocked(ctx)
	s.mu.Unlock()
	defer s.release(sessionID)

	// An in-flight turn always runs to completion.
	ctx = context.WithoutCancel(ctx)

	req := AnalysisRequest{History: prior, Input: input, Attachments: all, Persona: persona}
	raw, err := s.consult(ctx, mode, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	var reply store.Message
	if err != nil {
		logger.Error("Turn failed", "session", sessionID, "mode", mode, "error", err)
		reply = s.newMessage(store.RoleModel, turnErrorText)
	} else {
		reply = s.modelReply(raw)
	}
	if !s.appendLocked(ctx, sessionID, reply) {
		return nil, fmt.Errorf("turn completed for %s: %w", sessionID, ErrSessionNotFound)
	}
	return &reply, nil
}

// LoadDemo creates a session pre-seeded with a demo brief and runs one expert
// turn on it.
func (s *ChatService) LoadDemo(ctx context.Context, scenarioID string) (store.Session, error) {
	scenario, ok := findScenario(scenarioID)
	if !ok {
		return store.Session{}, fmt.Errorf("%w: %q", ErrUnknownScenario, scenarioID)
	}

	s.mu.Lock()
	intro := s.newMessage(store.RoleModel, fmt.Sprintf(demoIntroFormat, scenario.Title))
	prompt := s.newMessage(store.RoleUser, scenario.Prompt)
	sess := store.Session{
		ID:           newSessionID(),
		Title:        "💡 " + scenario.Title,
		Messages:     []store.Message{intro, prompt},
		LastModified: s.now(),
		Mode:         store.ModeExpertAnalysis,
		Persona:      store.DefaultPersona,
	}
	s.sessions = append([]store.Session{sess}, s.sessions...)
	s.sortLocked()
	s.activateLocked(sess)
	s.busy[sess.ID] = true
	s.persistLocked(ctx)
	s.mu.Unlock()
	defer s.release(sess.ID)

	ctx = context.WithoutCancel(ctx)
	raw, err := s.analyst.GenerateExpertAnalysis(ctx, AnalysisRequest{
		Input:   scenario.Prompt,
		Persona: store.DefaultPersona,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	var reply store.Message
	if err != nil {
		logger.Error("Demo turn failed", "scenario", scenarioID, "error", err)
		reply = s.newMessage(store.RoleModel, demoErrorText)
	} else {
		reply = s.modelReply(raw)
	}
	if !s.appendLocked(ctx, sess.ID, reply) {
		return store.Session{}, fmt.Errorf("demo %s: %w", sess.ID, ErrSessionNotFound)
	}
	return s.sessions[s.indexLocked(sess.ID)].Clone(), nil
}

func (s *ChatService) consult(ctx context.Context, mode store.Mode, req AnalysisRequest) (string, error) {
	if mode == store.ModePersonaSimulation {
		req.ExpertContext = ExpertContext(req.History)
		return s.analyst.SimulatePersona(ctx, req)
	}
	return s.analyst.GenerateExpertAnalysis(ctx, req)
}

func (s *ChatService) modelReply(raw string) store.Message {
	text, payload := chart.Decompose(raw)
	msg := s.newMessage(store.RoleModel, text)
	msg.Chart = payload
	return msg
}

// appendLocked adds msg to the session a turn started on, which may no longer
// be the active one.
func (s *ChatService) appendLocked(ctx context.Context, sessionID string, msg store.Message) bool {
	if sessionID == s.activeID {
		s.messages = append(s.messages, msg)
		s.syncActiveLocked(ctx)
		return true
	}

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		logger.Warn("Dropping reply for deleted session", "session", sessionID)
		return false
	}
	sess := &s.sessions[idx]
	sess.Messages = append(sess.Messages, msg)
	s.touchLocked(sess)
	s.sortLocked()
	s.persistLocked(ctx)
	return true
}

// release clears the busy flag. Callers defer it before re-locking so that it
// runs after their deferred unlock.
func (s *ChatService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, sessionID)
}
