package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/dhamma-widget/internal/model/chat"
	chatService "github.com/zhouzirui/dhamma-widget/internal/service/chat"
	"github.com/zhouzirui/dhamma-widget/internal/widget"
)

const (
	title       = "Dhamma Chatbot"
	buttonLabel = "Send"
	placeholder = "พิมพ์ข้อความ แล้วกด Enter"
)

// transcriptChangedMsg is delivered whenever a message is appended from any goroutine.
type transcriptChangedMsg struct{}

// Options configures the TUI.
type Options struct {
	Markdown bool
}

// Model is the Bubble Tea model of the widget: a transcript viewport, an
// input field and a send button.
type Model struct {
	ctx        context.Context
	controller *widget.Controller
	transcript *chatService.Service
	opts       Options

	styles   Styles
	renderer *Renderer
	input    textinput.Model
	viewport viewport.Model

	width  int
	height int
	ready  bool

	// hit box of the send button, in screen cells
	buttonRow    int
	buttonStartX int
	buttonEndX   int
}

// NewModel builds the TUI model around an existing controller and transcript.
func NewModel(ctx context.Context, controller *widget.Controller, transcript *chatService.Service, opts Options) Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	input.Focus()

	styles := DefaultStyles()
	return Model{
		ctx:        ctx,
		controller: controller,
		transcript: transcript,
		opts:       opts,
		styles:     styles,
		renderer:   NewRenderer(styles, opts.Markdown, 80),
		input:      input,
		buttonRow:  -1,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case transcriptChangedMsg:
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		if m.onButton(msg) {
			m.send()
			return m, nil
		}
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.send()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			if m.ready {
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send hands the input field to the controller; the transcript refresh for
// the user entry happens synchronously, the reply arrives as transcriptChangedMsg.
func (m *Model) send() {
	if m.controller.SendMessage(m.ctx, &m.input) {
		m.refresh()
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderer.Transcript(m.transcript.LoadTranscript(m.ctx)))
	m.viewport.GotoBottom()
}

func (m *Model) resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height

	buttonWidth := lipgloss.Width(m.styles.Button.Render(buttonLabel))
	frame := m.styles.Input.GetHorizontalFrameSize()
	inputWidth := width - buttonWidth - frame - 1 - lipgloss.Width(m.input.Prompt)
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.Width = inputWidth

	// header (1) + input box (1 line plus vertical frame)
	inputHeight := 1 + m.styles.Input.GetVerticalFrameSize()
	vpHeight := height - 1 - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}

	if m.opts.Markdown {
		m.renderer = NewRenderer(m.styles, true, width-4)
	}

	inputBoxWidth := lipgloss.Width(m.styles.Input.Render(m.input.View()))
	m.buttonRow = 1 + vpHeight + m.styles.Input.GetBorderTopSize()
	m.buttonStartX = inputBoxWidth + 1
	m.buttonEndX = m.buttonStartX + buttonWidth

	m.refresh()
}

func (m Model) onButton(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	return msg.Y == m.buttonRow && msg.X >= m.buttonStartX && msg.X < m.buttonEndX
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render(title)
	inputBox := m.styles.Input.Render(m.input.View())
	button := lipgloss.Place(
		lipgloss.Width(m.styles.Button.Render(buttonLabel)),
		lipgloss.Height(inputBox),
		lipgloss.Left,
		lipgloss.Center,
		m.styles.Button.Render(buttonLabel),
	)
	inputRow := lipgloss.JoinHorizontal(lipgloss.Top, inputBox, " ", button)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), inputRow)
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, controller *widget.Controller, transcript *chatService.Service, opts Options) error {
	model := NewModel(ctx, controller, transcript, opts)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	transcript.Subscribe(func(chat.Message) {
		// Send blocks until the event loop receives; never call it from inside Update.
		go program.Send(transcriptChangedMsg{})
	})

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
