package core

import "strings"

// DemoScenario is a canned research brief that can be replayed as a fresh session.
type DemoScenario struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

var demoScenarios = []DemoScenario{
	{
		ID:    "pet",
		Label: "🐶 Smart Pet Feeder (US)",
		Title: "Smart Pet Feeder",
		Prompt: lines(
			"**[Sample input]**",
			"",
			"**Product**: Smart automatic pet feeder (Smart Pet Feeder with Camera)",
			"**Target market**: United States (Amazon FBA & DTC site)",
			"**Target price**: $89.99",
			"**Cost structure**:",
			"- BOM cost: $28.00",
			"- First-leg freight: $3.50/unit",
			"- Amazon fulfilment fee: $7.20",
			"**Budget**:",
			"- First batch inventory: $15,000 (500 units)",
			"- Promotion budget: $5,000 (first month)",
			"**Key selling points**:",
			"- 1080P night-vision camera with two-way audio.",
			"- AI motion capture that auto-generates a \"pet vlog\" pushed to the phone.",
			"- Antibacterial ceramic bowl (differentiator, competitors mostly use stainless steel).",
			"**Open questions**:",
			"- Competitors such as Petlibro sell at $60-$80. Is $90 too high?",
			"- Only $20k of starting capital. Is that too risky?",
			"- Does the camera raise complicated privacy compliance issues?",
		),
	},
	{
		ID:    "ebike",
		Label: "🚲 E-Bike Conversion Kit (DE)",
		Title: "E-Bike Conversion Kit",
		Prompt: lines(
			"**[Sample input]**",
			"",
			"**Product**: 250W mid-drive E-Bike conversion kit (Mid-drive Motor Kit)",
			"**Target market**: Germany (DTC site + partnerships with local repair shops)",
			"**Target price**: €450",
			"**Cost structure**:",
			"- BOM cost: €180 (motor, controller and sensors)",
			"- Certification amortization: €5/unit (CE, EN15194)",
			"- Local German warehousing and delivery: €25",
			"**Budget**:",
			"- First batch inventory: €50,000",
			"- After-sales spare parts pool: €5,000",
			"**Key selling points**:",
			"- Foolproof install: anyone can convert an old bike to pedal assist in 15 minutes.",
			"- Torque sensor: very low riding resistance, close to a factory e-bike.",
			"- Compatibility: fits 95% of standard bottom-bracket frames.",
			"**Open questions**:",
			"- German TUV certification is slow and expensive. Can we launch without it at first?",
			"- The manual is English only. Will German customers mind?",
			"- Bosch is extremely strong locally. How do we carve out a niche?",
		),
	},
	{
		ID:    "coffee",
		Label: "☕ Portable Espresso Maker (JP)",
		Title: "Portable Espresso Maker",
		Prompt: lines(
			"**[Sample input]**",
			"",
			"**Product**: Hand-pressed portable espresso maker (Portable Manual Espresso Maker)",
			"**Target market**: Japan (Makuake crowdfunding -> Rakuten/Amazon JP)",
			"**Target price**: 8,500 JPY (about $55)",
			"**Cost structure**:",
			"- BOM cost: $12",
			"- Gift-grade packaging: $3",
			"- Local Japanese logistics: $6",
			"**Budget**:",
			"- Crowdfunding video shoot: $5,000",
			"- KOL/YouTuber promotion: $3,000",
			"**Key selling points**:",
			"- Ultra light: only 300g, designed for solo camping.",
			"- Patented dual valve: rich crema without electricity.",
			"- Soothing colourways: forest green and sand, matching Japanese taste.",
			"**Open questions**:",
			"- Is the Japanese camping market already saturated?",
			"- Is it easy to clean? Japanese customers are said to be very particular.",
			"- Makuake needs a local entity or agent. How do we solve the trust problem?",
		),
	},
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

// DemoScenarios returns the built-in demo briefs.
func DemoScenarios() []DemoScenario {
	out := make([]DemoScenario, len(demoScenarios))
	copy(out, demoScenarios)
	return out
}

func findScenario(id string) (DemoScenario, bool) {
	for _, s := range demoScenarios {
		if s.ID == id {
			return s, true
		}
	}
	return DemoScenario{}, false
}
