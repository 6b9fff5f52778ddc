package core

import (
	"fmt"
	"strings"

	"gwi.com/globallaunch-advisor/internal/chart"
	"gwi.com/globallaunch-advisor/internal/store"
)

// MinPersonaAge is applied to missing or implausible persona ages.
const MinPersonaAge = 18

// weakScore is the threshold below which an assessment dimension counts as a weakness.
const weakScore = 6

// NormalizePersona repairs user-edited persona fields.
func NormalizePersona(p store.PersonaProfile) store.PersonaProfile {
	if p.Age < MinPersonaAge {
		p.Age = MinPersonaAge
	}
	switch p.TechSavviness {
	case store.TechLow, store.TechMedium, store.TechHigh:
	default:
		p.TechSavviness = store.TechMedium
	}
	if strings.TrimSpace(p.Country) == "" {
		p.Country = store.DefaultPersona.Country
	}
	return p
}

// ExpertContext summarizes the most recent assessment chart in history so the
// simulated consumer can confirm or push back on the expert's view.
func ExpertContext(history []store.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role != store.RoleModel || msg.Chart == nil {
			continue
		}
		data, ok := msg.Chart.Data.(*chart.AssessmentData)
		if !ok {
			continue
		}

		risks := make([]string, 0, len(data.Risks))
		for _, r := range data.Risks {
			risks = append(risks, r.Type)
		}

		var b strings.Builder
		b.WriteString("[Earlier input: the investment expert's view]\n")
		fmt.Fprintf(&b, "The expert's verdict on this product: %s.\n", data.Decision.Result)
		fmt.Fprintf(&b, "Weak spots the expert pointed out: %s.\n", strings.Join(data.WeakCategories(weakScore), ", "))
		fmt.Fprintf(&b, "Risks the expert worries about: %s.\n\n", strings.Join(risks, ", "))
		b.WriteString("Your job: validate or refute the expert's view from a consumer's point of view. ")
		b.WriteString("If the expert says the price is too high, do you agree, or would you pay for this feature anyway?")
		return b.String()
	}
	return ""
}
