package export

import (
	"html/template"

	"gwi.com/globallaunch-advisor/internal/chart"
	"gwi.com/globallaunch-advisor/internal/store"
)

type badge struct {
	Background template.CSS
	Foreground template.CSS
}

var decisionColors = map[chart.Decision]template.CSS{
	chart.DecisionGo:   "#059669",
	chart.DecisionNoGo: "#e11d48",
}

const defaultDecisionColor template.CSS = "#d97706"

func decisionColor(d chart.Decision) template.CSS {
	if c, ok := decisionColors[d]; ok {
		return c
	}
	return defaultDecisionColor
}

var (
	goodBadge    = badge{Background: "#d1fae5", Foreground: "#047857"}
	badBadge     = badge{Background: "#fee2e2", Foreground: "#b91c1c"}
	warningBadge = badge{Background: "#fef3c7", Foreground: "#b45309"}
)

// scoreBadge colours a 0-10 dimension score.
func scoreBadge(score float64) badge {
	if score >= 8 {
		return goodBadge
	}
	return badBadge
}

var levelBadges = map[chart.Level]badge{
	chart.LevelHigh:   badBadge,
	chart.LevelMedium: warningBadge,
	chart.LevelLow:    goodBadge,
}

func levelBadge(l chart.Level) badge {
	if b, ok := levelBadges[l]; ok {
		return b
	}
	return warningBadge
}

type quadrantStyle struct {
	Background template.CSS
	Border     template.CSS
	Text       template.CSS
}

var (
	strengthsStyle     = quadrantStyle{Background: "#ecfdf5", Border: "#a7f3d0", Text: "#065f46"}
	weaknessesStyle    = quadrantStyle{Background: "#fff1f2", Border: "#fecdd3", Text: "#9f1239"}
	opportunitiesStyle = quadrantStyle{Background: "#eff6ff", Border: "#bfdbfe", Text: "#1e40af"}
	threatsStyle       = quadrantStyle{Background: "#fffbeb", Border: "#fde68a", Text: "#92400e"}
)

var roleLabels = map[store.Role]string{
	store.RoleUser: "User",
}

func roleLabel(r store.Role) string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return "AI Advisor"
}

func roleClass(r store.Role) string {
	if r == store.RoleUser {
		return "user"
	}
	return "model"
}

var modeLabels = map[store.Mode]string{
	store.ModeExpertAnalysis:    "Expert Analysis",
	store.ModePersonaSimulation: "Persona Simulation",
}

func modeLabel(m store.Mode) string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return modeLabels[store.ModeExpertAnalysis]
}
