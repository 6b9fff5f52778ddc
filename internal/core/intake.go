package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrIncompleteIntake = errors.New("intake form is incomplete")

// MarketPresets are the quick-pick values offered for IntakeForm.Market.
var MarketPresets = []string{
	"United States (Amazon FBA)",
	"Europe (Germany/UK)",
	"Southeast Asia (TikTok Shop)",
	"Global (DTC site)",
}

const defaultConcern = "Run a full HEFM-Pro assessment on the parameters above, with particular attention to cash-flow risk."

// IntakeForm is the structured project brief a user can fill in instead of free text.
type IntakeForm struct {
	ProductName   string `json:"productName"`
	Market        string `json:"market"`
	Price         string `json:"price"`
	Cost          string `json:"cost"`
	Budget        string `json:"budget"`
	SellingPoints string `json:"sellingPoints"`
	Concerns      string `json:"concerns"`
}

func (f IntakeForm) missing() []string {
	var fields []string
	required := []struct {
		name  string
		value string
	}{
		{"productName", f.ProductName},
		{"market", f.Market},
		{"budget", f.Budget},
		{"sellingPoints", f.SellingPoints},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fields = append(fields, r.name)
		}
	}
	return fields
}

// BuildIntakePrompt renders the form as a standardized project brief.
func BuildIntakePrompt(f IntakeForm) (string, error) {
	if missing := f.missing(); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrIncompleteIntake, strings.Join(missing, ", "))
	}

	concerns := strings.TrimSpace(f.Concerns)
	if concerns == "" {
		concerns = defaultConcern
	}

	var b strings.Builder
	b.WriteString("**[Standardized Project Intake]**\n\n")
	b.WriteString("**1. 🎯 Product Definition**:\n")
	fmt.Fprintf(&b, "- Product name/category: %s\n", strings.TrimSpace(f.ProductName))
	fmt.Fprintf(&b, "- Target market/channel: %s\n\n", strings.TrimSpace(f.Market))
	b.WriteString("**2. 💰 Financial Structure**:\n")
	fmt.Fprintf(&b, "- Target retail price (RRP): $%s\n", strings.TrimSpace(f.Price))
	fmt.Fprintf(&b, "- Landed cost: $%s (BOM + first-leg freight)\n", strings.TrimSpace(f.Cost))
	fmt.Fprintf(&b, "- Launch budget: $%s\n\n", strings.TrimSpace(f.Budget))
	b.WriteString("**3. 🚀 Strategic Core**:\n")
	fmt.Fprintf(&b, "- Unique selling points (USP): %s\n", strings.TrimSpace(f.SellingPoints))
	fmt.Fprintf(&b, "- Decision concerns: %s\n\n", concerns)
	b.WriteString("(Generated from the project intake form. Score strictly on this data.)")
	return b.String(), nil
}
