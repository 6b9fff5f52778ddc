// Package chart models the structured visualization payload that the analysis
// model embeds in its replies, and splits it out of the narrative text.
package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type Type string

const (
	TypeSWOT       Type = "swot"
	TypeRadar      Type = "radar"
	TypeAssessment Type = "assessment"
)

// ErrInvalidPayload is returned when a payload has no recognized type or no data.
var ErrInvalidPayload = errors.New("invalid chart payload")

// Data is implemented by exactly the three payload variants.
type Data interface {
	Kind() Type
}

// Payload is a chart attached to a model message. Data's concrete type always
// matches Type.
type Payload struct {
	Type  Type
	Title string
	Data  Data
}

type SwotData struct {
	Strengths     []string     `json:"strengths"`
	Weaknesses    []string     `json:"weaknesses"`
	Opportunities []string     `json:"opportunities"`
	Threats       []string     `json:"threats"`
	MissingData   *SwotMissing `json:"missingData,omitempty"`
}

// SwotMissing flags quadrants the model could not fill from the user's input.
type SwotMissing struct {
	S bool `json:"s,omitempty"`
	W bool `json:"w,omitempty"`
	O bool `json:"o,omitempty"`
	T bool `json:"t,omitempty"`
}

func (*SwotData) Kind() Type { return TypeSWOT }

type RadarDimension struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"` // 0-100
	Comment string  `json:"comment,omitempty"`
}

type RadarData struct {
	Dimensions   []RadarDimension `json:"dimensions"`
	OverallScore float64          `json:"overallScore"`
}

func (*RadarData) Kind() Type { return TypeRadar }

type Decision string

const (
	DecisionGo          Decision = "GO"
	DecisionNoGo        Decision = "NO-GO"
	DecisionConditional Decision = "CONDITIONAL"
)

type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

type Completeness struct {
	Score          float64  `json:"score"` // 0-100
	Status         string   `json:"status"`
	MissingFields  []string `json:"missingFields"`
	AcquiredFields []string `json:"acquiredFields,omitempty"`
}

type Verdict struct {
	Result     Decision `json:"result"`
	Confidence float64  `json:"confidence"` // 0-100
	Summary    string   `json:"summary"`
}

type ScoreItem struct {
	Category  string  `json:"category"`
	Score     float64 `json:"score"`  // 0-10
	Weight    float64 `json:"weight"` // 0-1
	Rationale string  `json:"rationale"`
	Impact    Level   `json:"impact"`
}

type Risk struct {
	Type        string `json:"type"`
	Level       Level  `json:"level"`
	Probability Level  `json:"probability"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
}

type AssessmentData struct {
	Completeness       Completeness `json:"completeness"`
	Decision           Verdict      `json:"decision"`
	ScoringTable       []ScoreItem  `json:"scoringTable"`
	Risks              []Risk       `json:"risks,omitempty"`
	StrategicQuestions []string     `json:"strategicQuestions,omitempty"`
}

func (*AssessmentData) Kind() Type { return TypeAssessment }

// WeakCategories lists scoring categories below the given score.
func (a *AssessmentData) WeakCategories(below float64) []string {
	var out []string
	for _, item := range a.ScoringTable {
		if item.Score < below {
			out = append(out, item.Category)
		}
	}
	return out
}

type wirePayload struct {
	Type  Type            `json:"type"`
	Title string          `json:"title"`
	Data  json.RawMessage `json:"data"`
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Data == nil {
		return nil, fmt.Errorf("marshal %q chart: %w", p.Type, ErrInvalidPayload)
	}
	data, err := json.Marshal(p.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart data: %w", err)
	}
	return json.Marshal(wirePayload{Type: p.Data.Kind(), Title: p.Title, Data: data})
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	var w wirePayload
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	raw := bytes.TrimSpace(w.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("chart %q has no data: %w", w.Type, ErrInvalidPayload)
	}

	var data Data
	switch w.Type {
	case TypeSWOT:
		data = &SwotData{}
	case TypeRadar:
		data = &RadarData{}
	case TypeAssessment:
		data = &AssessmentData{}
	default:
		return fmt.Errorf("unknown chart type %q: %w", w.Type, ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return fmt.Errorf("failed to decode %s chart data: %w", w.Type, err)
	}

	*p = Payload{Type: w.Type, Title: w.Title, Data: data}
	return nil
}

// Parse decodes a payload from the content of a fenced chart block.
func Parse(content string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
