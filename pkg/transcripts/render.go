package transcripts

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var archiveTemplate = template.Must(template.New("transcript").Funcs(template.FuncMap{
	"stamp": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Meta.PanelName}} - {{.Meta.ChannelName}}</title>
<style>
body { background: #36393f; color: #dcddde; font-family: sans-serif; margin: 0; }
header { background: #2f3136; padding: 16px 24px; }
header h1 { font-size: 18px; margin: 0; }
header p { color: #72767d; font-size: 12px; margin: 4px 0 0; }
.message { padding: 8px 24px; }
.message .author { color: #fff; font-weight: 600; }
.message .time { color: #72767d; font-size: 11px; margin-left: 8px; }
.message .content { margin: 2px 0 0; white-space: pre-wrap; }
.message .attachment { color: #00b0f4; display: block; font-size: 12px; }
footer { color: #72767d; font-size: 11px; padding: 16px 24px; }
</style>
</head>
<body>
<header>
<h1>{{.Meta.PanelName}} - #{{.Meta.ChannelName}}</h1>
<p>Ticket {{.Meta.ChannelID}} &middot; {{len .Messages}} messages &middot; generated by {{.Meta.GeneratedBy}} at {{stamp .Meta.GeneratedAt}}</p>
</header>
{{range .Messages}}<div class="message">
<span class="author">{{.AuthorName}}</span><span class="time">{{stamp .Timestamp}}</span>
<p class="content">{{.Content}}</p>
{{range .Attachments}}<a class="attachment" href="{{.}}">{{.}}</a>
{{end}}</div>
{{end}}<footer>{{.Meta.PanelName}} Ticket Transcript Exported</footer>
</body>
</html>
`))

// Render renders the archive for the given messages. Messages are expected
// oldest first.
func Render(meta *Metadata, messages []*Message) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := archiveTemplate.Execute(buf, struct {
		Meta     *Metadata
		Messages []*Message
	}{
		Meta:     meta,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("error rendering transcript: %w", err)
	}
	return buf.Bytes(), nil
}
