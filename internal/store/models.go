package store

import (
	"time"

	"gwi.com/globallaunch-advisor/internal/chart"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

type Mode string

const (
	ModeExpertAnalysis    Mode = "expert"
	ModePersonaSimulation Mode = "persona"
)

// Valid reports whether m is one of the two interaction modes.
func (m Mode) Valid() bool {
	return m == ModeExpertAnalysis || m == ModePersonaSimulation
}

type TechSavviness string

const (
	TechLow    TechSavviness = "Low"
	TechMedium TechSavviness = "Medium"
	TechHigh   TechSavviness = "High"
)

type PersonaProfile struct {
	Country       string        `json:"country"`
	Age           int           `json:"age"`
	Gender        string        `json:"gender"`
	Occupation    string        `json:"occupation"`
	Interests     string        `json:"interests"`
	TechSavviness TechSavviness `json:"techSavviness"`
}

// DefaultPersona is the simulated consumer every new session starts with.
var DefaultPersona = PersonaProfile{
	Country:       "United States",
	Age:           24,
	Gender:        "Female",
	Occupation:    "Content Creator",
	Interests:     "TikTok trends, smart home gadgets, productivity",
	TechSavviness: TechHigh,
}

type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Data     string `json:"data"` // base64
}

type Message struct {
	ID          string         `json:"id"`
	Role        Role           `json:"role"`
	Text        string         `json:"text"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	Chart       *chart.Payload `json:"chart,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

type Session struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Messages     []Message      `json:"messages"`
	LastModified time.Time      `json:"lastModified"`
	Mode         Mode           `json:"mode"`
	Persona      PersonaProfile `json:"persona"`
}

// Clone returns a copy that shares no slices with s.
func (s Session) Clone() Session {
	out := s
	out.Messages = CloneMessages(s.Messages)
	return out
}

// CloneMessages copies a message log, including each message's attachments.
// Charts are immutable once decomposed and are shared.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		if m.Attachments != nil {
			m.Attachments = append([]Attachment(nil), m.Attachments...)
		}
		out[i] = m
	}
	return out
}
