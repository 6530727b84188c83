// Package tui 提供基于 bubbletea 的终端聊天界面。
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nlook/sparkcoach/internal/agent"
	"github.com/nlook/sparkcoach/internal/ui"
)

type ChatUI struct{}

func (u *ChatUI) Run(ctx context.Context, backend ui.CoachBackend, opts ui.ChatOptions) error {
	threadID := opts.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}
	m := newChatModel(ctx, backend, threadID)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type startResultMsg struct {
	res agent.StartResult
	err error
}

type submitResultMsg struct {
	res agent.SubmitResult
	err error
}

type streamTickMsg struct{}
type cancelMsg struct{}

type transcriptEntry struct {
	role    string
	content string
}

type chatModel struct {
	ctx      context.Context
	backend  ui.CoachBackend
	threadID string

	transcript []transcriptEntry
	phase      string

	width  int
	height int

	viewport   viewport.Model
	input      textinput.Model
	spinner    spinner.Model
	thinking   bool
	done       bool
	followTail bool

	// 最新一条教练消息的打字机效果
	streaming  bool
	streamIdx  int
	streamPos  int
	streamFull string

	renderer *glamour.TermRenderer
}

func newChatModel(ctx context.Context, backend ui.CoachBackend, threadID string) chatModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	ti := textinput.New()
	ti.Placeholder = "Type a message and press Enter"
	ti.Prompt = ""
	ti.Focus()

	vp := viewport.New(0, 0)
	vp.SetContent("")

	return chatModel{
		ctx:        ctx,
		backend:    backend,
		threadID:   threadID,
		viewport:   vp,
		input:      ti,
		spinner:    s,
		thinking:   true,
		followTail: true,
		streamIdx:  -1,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.startSession(), waitCancel(m.ctx))
}

func waitCancel(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return cancelMsg{}
	}
}

func (m chatModel) startSession() tea.Cmd {
	return func() tea.Msg {
		res, err := m.backend.Start(m.ctx, m.threadID)
		return startResultMsg{res: res, err: err}
	}
}

func (m chatModel) submit(text string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.backend.Submit(m.ctx, m.threadID, text)
		return submitResultMsg{res: res, err: err}
	}
}

func streamTick() tea.Cmd {
	return tea.Tick(45*time.Millisecond, func(time.Time) tea.Msg { return streamTickMsg{} })
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cancelMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputHeight := 3
		footerHeight := 1
		chatHeight := m.height - inputHeight - footerHeight
		if chatHeight < 1 {
			chatHeight = 1
		}

		m.viewport.Width = m.width
		m.viewport.Height = chatHeight
		m.input.Width = max(10, m.width-4)

		m.resetMarkdownRenderer()
		m.updateViewportContent(m.renderChat())
		return m, nil

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case startResultMsg:
		m.thinking = false
		if msg.err != nil {
			m.appendCoach(fmt.Sprintf("Something went wrong: %v", msg.err))
			m.updateViewportContent(m.renderChat())
			return m, nil
		}
		m.phase = msg.res.Phase
		m.appendCoach(msg.res.Greeting)
		m.startStreamingLast()
		m.updateViewportContent(m.renderChat())
		if m.streaming {
			return m, streamTick()
		}
		return m, nil

	case submitResultMsg:
		m.thinking = false
		if msg.err != nil {
			m.appendCoach(fmt.Sprintf("Something went wrong: %v", msg.err))
			m.updateViewportContent(m.renderChat())
			return m, nil
		}
		m.phase = msg.res.Phase
		m.appendCoach(msg.res.Response)
		if msg.res.Phase == agent.PhaseCompleted {
			m.done = true
		}
		m.startStreamingLast()
		m.updateViewportContent(m.renderChat())
		if m.streaming {
			return m, streamTick()
		}
		return m, nil

	case streamTickMsg:
		if !m.streaming {
			return m, nil
		}
		m.streamPos = min(len(m.streamFull), m.streamPos+32)
		m.transcript[m.streamIdx].content = m.streamFull[:m.streamPos]
		m.updateViewportContent(m.renderChat())
		if m.streamPos >= len(m.streamFull) {
			m.streaming = false
			m.transcript[m.streamIdx].content = m.streamFull
			return m, nil
		}
		return m, streamTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "pgup", "pageup":
			m.viewport.PageUp()
			m.followTail = false
			return m, nil
		case "pgdown", "pagedown":
			m.viewport.PageDown()
			if m.viewport.AtBottom() {
				m.followTail = true
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		if msg.String() == "enter" && !m.thinking && !m.done {
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, cmd
			}
			switch strings.ToLower(text) {
			case "exit", "quit":
				return m, tea.Quit
			}

			m.transcript = append(m.transcript, transcriptEntry{role: "user", content: text})
			m.followTail = true
			m.updateViewportContent(m.renderChat())

			m.input.SetValue("")
			m.thinking = true
			return m, tea.Batch(cmd, m.submit(text))
		}

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("SparkCoach")
	chat := m.viewport.View()
	inputLine := m.inputView()
	footer := m.footerView()
	return lipgloss.JoinVertical(lipgloss.Left, header, chat, inputLine, footer)
}

func (m chatModel) footerView() string {
	left := "Enter send | PgUp/PgDn scroll | Ctrl+C quit"
	right := ""
	if m.thinking {
		right = m.spinner.View() + " Thinking..."
	} else if m.done {
		right = "Session complete"
	}
	style := lipgloss.NewStyle().Width(m.width).Padding(0, 1)
	gap := lipgloss.NewStyle().Width(max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)).Render("")
	return style.Render(lipgloss.JoinHorizontal(lipgloss.Left, left, gap, right))
}

func (m chatModel) inputView() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(max(1, m.input.Width+2)).
		Render(m.input.View())
}

func (m *chatModel) appendCoach(content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	m.transcript = append(m.transcript, transcriptEntry{role: "coach", content: content})
}

func (m *chatModel) startStreamingLast() {
	m.streaming = false
	if len(m.transcript) == 0 {
		return
	}
	idx := len(m.transcript) - 1
	if m.transcript[idx].role != "coach" {
		return
	}
	m.streaming = true
	m.streamIdx = idx
	m.streamFull = m.transcript[idx].content
	m.streamPos = min(len(m.streamFull), 32)
	m.transcript[idx].content = m.streamFull[:m.streamPos]
	m.followTail = true
}

func (m *chatModel) resetMarkdownRenderer() {
	if m.width <= 0 {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.contentWidth()),
	)
	if err == nil {
		m.renderer = r
	}
}

func (m chatModel) contentWidth() int {
	if m.width <= 0 {
		return 72
	}
	return max(20, m.width-8)
}

func (m chatModel) renderChat() string {
	var b strings.Builder
	for _, entry := range m.transcript {
		var line string
		if entry.role == "user" {
			line = m.renderUser(entry.content)
		} else {
			line = m.renderCoach(entry.content)
		}
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m chatModel) renderCoach(content string) string {
	md := content
	if m.renderer != nil && strings.TrimSpace(md) != "" {
		if rendered, err := m.renderer.Render(md); err == nil {
			md = strings.TrimRight(rendered, "\n")
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		MaxWidth(max(20, m.width-4)).
		Render(md)
}

func (m chatModel) renderUser(content string) string {
	bubble := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(0, 1).
		MaxWidth(max(20, m.width-4)).
		Render(content)
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(bubble)
}

func (m *chatModel) updateViewportContent(content string) {
	oldYOffset := m.viewport.YOffset
	m.viewport.SetContent(content)
	if m.followTail {
		m.viewport.GotoBottom()
		return
	}
	m.viewport.SetYOffset(oldYOffset)
}
