// Package export renders a session as a standalone HTML report.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gwi.com/globallaunch-advisor/internal/chart"
	"gwi.com/globallaunch-advisor/internal/store"
)

const (
	reportHeading = "GlobalLaunch AI - Assessment Report"
	fallbackTitle = "GlobalLaunch AI Report"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; color: #334155; }
        .message { margin-bottom: 24px; border-bottom: 1px solid #f1f5f9; padding-bottom: 24px; }
        .role { font-weight: bold; margin-bottom: 8px; font-size: 14px; text-transform: uppercase; color: #64748b; }
        .content { white-space: pre-wrap; }
        .attachments { font-size: 12px; color: #64748b; margin-bottom: 8px; }
        .user { color: #2563eb; }
        .model { color: #7c3aed; }
        h1 { border-bottom: 2px solid #e2e8f0; padding-bottom: 10px; margin-bottom: 30px; }
    </style>
</head>
<body>
    <h1>{{.Heading}}</h1>
    <div style="margin-bottom: 20px; color: #64748b; font-size: 14px;">
        Generated: {{.GeneratedAt}}<br/>
        Mode: {{.Mode}}
    </div>
{{range .Messages}}
    <div class="message">
        <div class="role {{.Class}}">{{.Label}}</div>
        {{- with .Attachments}}
        <div class="attachments">{{range .}}📎 {{.}} {{end}}</div>
        {{- end}}
        <div class="content">{{.Content}}</div>
    </div>
{{end}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

type messageView struct {
	Class       string
	Label       string
	Attachments []string
	Content     template.HTML
}

type pageView struct {
	Title       string
	Heading     string
	GeneratedAt string
	Mode        string
	Messages    []messageView
}

// Render produces a self-contained HTML document for sess.
func Render(sess store.Session, generatedAt time.Time) ([]byte, error) {
	title := sess.Title
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}

	view := pageView{
		Title:       title,
		Heading:     reportHeading,
		GeneratedAt: generatedAt.Format(time.DateTime),
		Mode:        modeLabel(sess.Mode),
		Messages:    make([]messageView, 0, len(sess.Messages)),
	}
	for _, msg := range sess.Messages {
		content, err := messageContent(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to render message %s: %w", msg.ID, err)
		}
		mv := messageView{
			Class:   roleClass(msg.Role),
			Label:   roleLabel(msg.Role),
			Content: content,
		}
		for _, att := range msg.Attachments {
			mv.Attachments = append(mv.Attachments, att.Name)
		}
		view.Messages = append(view.Messages, mv)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// messageContent escapes the text, keeps line breaks, and puts the chart at
// its placeholder or after the text.
func messageContent(msg store.Message) (template.HTML, error) {
	body := strings.ReplaceAll(template.HTMLEscapeString(msg.Text), "\n", "<br/>")
	if msg.Chart == nil {
		return template.HTML(body), nil
	}

	fragment, err := renderChart(msg.Chart)
	if err != nil {
		return "", err
	}
	if before, after, found := chart.Split(body); found {
		return template.HTML(before + string(fragment) + after), nil
	}
	return template.HTML(body + `<div style="margin-top: 20px;">` + string(fragment) + `</div>`), nil
}

// Filename is the download name for a report generated at t.
func Filename(product string, t time.Time) string {
	product = strings.TrimSpace(product)
	if product == "" {
		product = "GlobalLaunch"
	}
	product = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '"':
			return '_'
		}
		return r
	}, product)
	return fmt.Sprintf("%s_Report_%s.html", product, t.UTC().Format(time.DateOnly))
}
