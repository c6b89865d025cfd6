// Package tui is the terminal chat client: a transcript, an input line, and a
// spinner while the bot is thinking.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"askychat/internal/chat"
	"askychat/internal/session"
)

type (
	incomingMsg     struct{ text string }
	settledMsg      struct{}
	disconnectedMsg struct{}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	sess       *session.Session
	input      textinput.Model
	spin       spinner.Model
	transcript []string
	thinking   bool
	closed     bool
	width      int
}

func newModel(sess *session.Session) model {
	in := textinput.New()
	in.Placeholder = "Type a message"
	in.Prompt = "You> "
	in.Focus()
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return model{sess: sess, input: in, spin: s}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - len(m.input.Prompt) - 2; w > 0 {
			m.input.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			draft := m.input.Value()
			if strings.TrimSpace(draft) == "" {
				return m, nil
			}
			_, isCommand := chat.ParseCommand(draft)
			if err := m.sess.Submit(draft); err != nil {
				// Busy: keep the draft, the user can retry once the bot
				// settles.
				return m, nil
			}
			m.input.SetValue("")
			if isCommand {
				m.thinking = true
			}
			return m, nil
		}

	case incomingMsg:
		m.transcript = append(m.transcript, msg.text)
		return m, nil

	case settledMsg:
		m.thinking = false
		return m, nil

	case disconnectedMsg:
		m.closed = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("askychat — "+m.sess.Identity()) + "\n\n")
	for _, line := range m.transcript {
		if strings.HasPrefix(line, chat.BotIdentity+": ") {
			b.WriteString(botStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.thinking {
		b.WriteString(m.spin.View() + statusStyle.Render("waiting for "+chat.BotIdentity) + "\n")
	}
	if m.closed {
		b.WriteString(statusStyle.Render("Connection closed.") + "\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

// Run drives the TUI until quit or disconnect. Incoming messages and
// dispatcher settlement arrive through program sends, so the update loop
// stays single-threaded.
func Run(sess *session.Session, disp *session.Dispatcher, done <-chan struct{}) error {
	p := tea.NewProgram(newModel(sess))
	sess.OnMessage(func(text string) { p.Send(incomingMsg{text: text}) })
	disp.OnSettle(func() { p.Send(settledMsg{}) })
	go func() {
		<-done
		p.Send(disconnectedMsg{})
	}()
	_, err := p.Run()
	return err
}
