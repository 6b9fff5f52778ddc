package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"gwi.com/globallaunch-advisor/internal/chart"
)

const chartTemplates = `
{{define "swot"}}
<div style="margin: 20px 0; font-family: sans-serif;">
    <h3 style="margin: 0 0 10px 0; color: #1e293b; font-size: 16px;">{{.Title}}</h3>
    <div style="display: grid; grid-template-columns: 1fr 1fr; gap: 10px;">
    {{- range .Quadrants}}
        <div style="background-color: {{.Style.Background}}; padding: 15px; border-radius: 8px; border: 1px solid {{.Style.Border}};">
            <h4 style="color: {{.Style.Text}}; margin: 0 0 10px 0; font-size: 14px; font-weight: bold; text-transform: uppercase;">{{.Title}}</h4>
            {{- if .Missing}}
            <div style="font-size: 12px; color: #94a3b8; font-style: italic;">Needs more data</div>
            {{- end}}
            <ul style="margin: 0; padding-left: 20px; color: #334155; font-size: 13px; line-height: 1.5;">
            {{- range .Items}}
                <li style="margin-bottom: 4px;">{{.}}</li>
            {{- end}}
            </ul>
        </div>
    {{- end}}
    </div>
</div>
{{end}}

{{define "assessment"}}
{{- $d := .Data -}}
<div style="margin: 20px 0; border: 1px solid #e2e8f0; border-radius: 8px; overflow: hidden; background: white;">
    <div style="padding: 15px; background: #f8fafc; border-bottom: 1px solid #e2e8f0; display: flex; justify-content: space-between; align-items: center;">
        <div>
            <h3 style="margin: 0; font-size: 16px;">{{.Title}}</h3>
            <div style="font-size: 12px; color: #64748b;">Data completeness: {{num $d.Completeness.Score}}%{{with $d.Completeness.Status}} ({{.}}){{end}}</div>
        </div>
        <div style="padding: 4px 10px; border-radius: 20px; color: white; background: {{decisionColor $d.Decision.Result}}; font-weight: bold; font-size: 12px;">
            {{$d.Decision.Result}}
        </div>
    </div>
    {{- if or $d.Completeness.AcquiredFields $d.Completeness.MissingFields}}
    <div style="padding: 10px 15px; font-size: 12px; color: #475569; border-bottom: 1px solid #e2e8f0;">
        {{- with $d.Completeness.AcquiredFields}}
        <div><b>Acquired:</b> {{range $i, $f := .}}{{if $i}}, {{end}}{{$f}}{{end}}</div>
        {{- end}}
        {{- with $d.Completeness.MissingFields}}
        <div style="color: #b91c1c;"><b>Missing:</b> {{range $i, $f := .}}{{if $i}}, {{end}}{{$f}}{{end}}</div>
        {{- end}}
    </div>
    {{- end}}
    <table style="width: 100%; border-collapse: collapse;">
        <thead style="background: #f1f5f9; font-size: 12px; color: #64748b; text-transform: uppercase;">
            <tr>
                <th style="padding: 8px; text-align: left;">Dimension</th>
                <th style="padding: 8px; text-align: center;">Score</th>
                <th style="padding: 8px; text-align: left;">Rationale</th>
            </tr>
        </thead>
        <tbody>
        {{- range $d.ScoringTable}}
        {{- $b := scoreBadge .Score}}
            <tr style="border-bottom: 1px solid #f1f5f9;">
                <td style="padding: 10px;">
                    <div style="font-weight: 500;">{{.Category}}</div>
                    <div style="font-size: 10px; color: #94a3b8;">Weight {{percent .Weight}}%</div>
                </td>
                <td style="padding: 10px; text-align: center;">
                    <span style="background: {{$b.Background}}; color: {{$b.Foreground}}; padding: 2px 6px; border-radius: 4px; font-size: 12px; font-weight: bold;">{{num .Score}}/10</span>
                </td>
                <td style="padding: 10px; font-size: 12px; color: #475569;">{{.Rationale}}</td>
            </tr>
        {{- end}}
        </tbody>
    </table>
    {{- with $d.Risks}}
    <div style="padding: 15px; border-top: 1px solid #e2e8f0;">
        <h4 style="margin: 0 0 8px 0; font-size: 13px; color: #1e293b;">Risk radar</h4>
        {{- range .}}
        {{- $b := levelBadge .Level}}
        <div style="padding: 6px 0; border-bottom: 1px dashed #f1f5f9; font-size: 12px; color: #475569;">
            <span style="background: {{$b.Background}}; color: {{$b.Foreground}}; padding: 1px 6px; border-radius: 4px; font-weight: bold;">{{.Level}}</span>
            <b>{{.Type}}</b>{{with .Probability}} (probability {{.}}){{end}}: {{.Description}}
            {{- with .Mitigation}}<div style="color: #64748b;">Mitigation: {{.}}</div>{{end}}
        </div>
        {{- end}}
    </div>
    {{- end}}
    {{- with $d.StrategicQuestions}}
    <div style="padding: 15px; border-top: 1px solid #e2e8f0; font-size: 12px; color: #475569;">
        <b>Strategic questions:</b>
        <ol style="margin: 6px 0 0 0; padding-left: 20px;">
        {{- range .}}
            <li>{{.}}</li>
        {{- end}}
        </ol>
    </div>
    {{- end}}
    <div style="padding: 15px; background: #f8fafc; font-size: 12px; color: #475569; border-top: 1px solid #e2e8f0;">
        <b>💡 Recommendation:</b> {{$d.Decision.Summary}}
    </div>
</div>
{{end}}

{{define "radar"}}
{{- $r := .Data -}}
<div style="margin: 20px 0; padding: 20px; background: white; border: 1px solid #e2e8f0; border-radius: 12px;">
    <div style="display: flex; justify-content: space-between; align-items: center; border-bottom: 1px solid #f1f5f9; padding-bottom: 10px;">
        <h3 style="margin: 0; color: #1e293b; font-size: 16px;">{{.Title}}</h3>
        <div style="text-align: right;">
            <span style="font-size: 12px; color: #64748b; display: block;">Overall score</span>
            <span style="font-size: 20px; font-weight: bold; color: #2563eb;">{{num $r.Overall}}</span>
        </div>
    </div>
    <svg width="{{num $r.Size}}" height="{{num $r.Size}}" viewBox="0 0 {{num $r.Size}} {{num $r.Size}}" style="background: white; margin: 0 auto; display: block;">
        <circle cx="{{num $r.Center}}" cy="{{num $r.Center}}" r="{{num $r.Radius}}" fill="none" stroke="#e2e8f0" stroke-dasharray="4 2"></circle>
        <circle cx="{{num $r.Center}}" cy="{{num $r.Center}}" r="{{num $r.InnerRadius}}" fill="none" stroke="#e2e8f0" stroke-dasharray="4 2"></circle>
        <polygon points="{{$r.Outline}}" fill="#f8fafc" stroke="#e2e8f0" stroke-width="1"></polygon>
        <polygon points="{{$r.Values}}" fill="rgba(59, 130, 246, 0.2)" stroke="#3b82f6" stroke-width="2"></polygon>
        {{- range $r.Labels}}
        <text x="{{.X}}" y="{{.Y}}" text-anchor="middle" dominant-baseline="middle" font-size="10" fill="#64748b" font-family="sans-serif">{{.Text}}</text>
        {{- end}}
    </svg>
    <div style="margin-top: 15px; font-size: 12px; color: #475569;">
    {{- range $r.Dimensions}}
        <div style="display: flex; justify-content: space-between; padding: 4px 0; border-bottom: 1px dashed #f1f5f9;"><span>{{.Label}}</span><b>{{num .Value}}</b></div>
    {{- end}}
    </div>
</div>
{{end}}
`

var chartFuncs = template.FuncMap{
	"decisionColor": decisionColor,
	"scoreBadge":    scoreBadge,
	"levelBadge":    levelBadge,
	"num":           formatNumber,
	"percent": func(weight float64) string {
		return strconv.FormatFloat(weight*100, 'f', 0, 64)
	},
}

var charts = template.Must(template.New("charts").Funcs(chartFuncs).Parse(chartTemplates))

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var defaultTitles = map[chart.Type]string{
	chart.TypeSWOT:       "SWOT Strategic Position",
	chart.TypeAssessment: "HEFM Investment Assessment",
	chart.TypeRadar:      "HEFM-Pro 7-Dimension Radar",
}

type swotQuadrant struct {
	Title   string
	Items   []string
	Style   quadrantStyle
	Missing bool
}

type swotView struct {
	Title     string
	Quadrants []swotQuadrant
}

func newSwotView(title string, d *chart.SwotData) swotView {
	var missing chart.SwotMissing
	if d.MissingData != nil {
		missing = *d.MissingData
	}
	return swotView{
		Title: title,
		Quadrants: []swotQuadrant{
			{Title: "Strengths", Items: d.Strengths, Style: strengthsStyle, Missing: missing.S},
			{Title: "Weaknesses", Items: d.Weaknesses, Style: weaknessesStyle, Missing: missing.W},
			{Title: "Opportunities", Items: d.Opportunities, Style: opportunitiesStyle, Missing: missing.O},
			{Title: "Threats", Items: d.Threats, Style: threatsStyle, Missing: missing.T},
		},
	}
}

// renderChart renders p as an HTML fragment with every text field escaped.
func renderChart(p *chart.Payload) (template.HTML, error) {
	if p == nil || p.Data == nil {
		return "", nil
	}

	title := p.Title
	if title == "" {
		title = defaultTitles[p.Type]
	}

	var (
		name string
		view any
	)
	switch d := p.Data.(type) {
	case *chart.SwotData:
		name, view = "swot", newSwotView(title, d)
	case *chart.AssessmentData:
		name, view = "assessment", struct {
			Title string
			Data  *chart.AssessmentData
		}{title, d}
	case *chart.RadarData:
		name, view = "radar", struct {
			Title string
			Data  radarView
		}{title, newRadarView(d)}
	default:
		return "", nil
	}

	var buf bytes.Buffer
	if err := charts.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("failed to render %s chart: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
