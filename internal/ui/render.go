package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/dhamma-widget/internal/model/chat"
)

// Styles groups the lipgloss styles used by the widget.
type Styles struct {
	UserSender lipgloss.Style
	BotSender  lipgloss.Style
	Failure    lipgloss.Style
	Header     lipgloss.Style
	Button     lipgloss.Style
	Input      lipgloss.Style
}

// DefaultStyles returns the widget palette.
func DefaultStyles() Styles {
	return Styles{
		UserSender: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DCFFF")),
		BotSender:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0AF68")),
		Failure:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1B26")).
			Background(lipgloss.Color("#E0AF68")).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1B26")).
			Background(lipgloss.Color("#9ECE6A")).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#565F89")).
			Padding(0, 1),
	}
}

// Renderer turns transcript entries into terminal text. Message text is not
// escaped: markup or escape sequences in it reach the terminal as-is.
type Renderer struct {
	styles   Styles
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer. When markdown is true, bot replies are
// rendered with glamour wrapped at width.
func NewRenderer(styles Styles, markdown bool, width int) *Renderer {
	r := &Renderer{styles: styles}
	if markdown {
		if width < 20 {
			width = 20
		}
		// A failed glamour setup falls back to raw text.
		r.markdown, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
	}
	return r
}

// Message renders one entry as "<sender>: <text>" with the sender in bold.
func (r *Renderer) Message(msg chat.Message) string {
	sender := r.styles.BotSender
	if msg.Role == chat.RoleUser {
		sender = r.styles.UserSender
	}

	text := msg.Text
	switch {
	case msg.Failed:
		text = r.styles.Failure.Render(text)
	case msg.Role == chat.RoleBot:
		text = r.safeRenderMarkdown(text)
	}
	return sender.Render(msg.Sender+":") + " " + text
}

// Transcript renders every entry on its own line in order.
func (r *Renderer) Transcript(messages []chat.Message) string {
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Message(msg))
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery.
func (r *Renderer) safeRenderMarkdown(content string) (result string) {
	if r.markdown == nil || content == "" {
		return content
	}
	defer func() {
		if rec := recover(); rec != nil {
			result = content
		}
	}()

	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// PlainLine formats an entry for line mode.
func PlainLine(msg chat.Message) string {
	return msg.Sender + ": " + msg.Text
}
