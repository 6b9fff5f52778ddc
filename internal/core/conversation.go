package core

import (
	"context"
	"fmt"

	"gwi.com/globallaunch-advisor/internal/store"
)

// SwitchMode changes the interaction mode of the active session and posts the
// matching framing message. Pending attachments are dropped.
func (s *ChatService) SwitchMode(ctx context.Context, mode store.Mode) (store.Message, error) {
	if !mode.Valid() {
		return store.Message{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	text := expertModeText
	if mode == store.ModePersonaSimulation {
		text = personaModeText(s.persona)
	}
	msg := s.newMessage(store.RoleModel, text)

	s.mode = mode
	s.pending = nil
	s.messages = append(s.messages, msg)
	s.syncActiveLocked(ctx)
	return msg, nil
}

// SetPersona replaces the simulated consumer of the active session.
func (s *ChatService) SetPersona(ctx context.Context, p store.PersonaProfile) store.PersonaProfile {
	p = NormalizePersona(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persona = p
	s.syncActiveLocked(ctx)
	return p
}

// AddAttachments queues attachments for the next turn and returns the full queue.
func (s *ChatService) AddAttachments(atts []store.Attachment) []store.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, atts...)
	return s.pendingLocked()
}

// RemoveAttachment drops the pending attachment at index.
func (s *ChatService) RemoveAttachment(index int) ([]store.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.pending) {
		return nil, fmt.Errorf("%w: index %d", ErrAttachmentNotFound, index)
	}
	s.pending = append(s.pending[:index], s.pending[index+1:]...)
	return s.pendingLocked(), nil
}

func (s *ChatService) PendingAttachments() []store.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked()
}

func (s *ChatService) pendingLocked() []store.Attachment {
	out := make([]store.Attachment, len(s.pending))
	copy(out, s.pending)
	return out
}

// SetDraft stores unsent input for the active session.
func (s *ChatService) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}
