package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/console"
	"github.com/abhisek/pytutor/internal/progression"
	"github.com/abhisek/pytutor/internal/screen"
	"github.com/abhisek/pytutor/internal/ui/components"
	"github.com/abhisek/pytutor/internal/ui/layout"
	"github.com/abhisek/pytutor/internal/ui/theme"
)

const dispatchTimeout = 30 * time.Second

// Engine is the part of the progression engine the chat needs.
type Engine interface {
	Dispatch(ctx context.Context, userID string, a progression.Action) (*progression.Outcome, error)
	Progress(ctx context.Context, userID string) (*progression.ProgressView, error)
}

type speaker int

const (
	fromBot speaker = iota
	fromUser
)

type tone int

const (
	plain tone = iota
	correct
	incorrect
)

// entry is one transcript message. A toned entry renders its first line
// as answer feedback.
type entry struct {
	from speaker
	text string
	tone tone
}

// ChatScreen is the conversation with the tutor.
type ChatScreen struct {
	engine     Engine
	userID     string
	interp     console.Interpreter
	input      components.TextInput
	transcript []entry
	busy       bool
	progress   *progression.ProgressView
}

var (
	_ screen.Screen          = (*ChatScreen)(nil)
	_ screen.KeyHintProvider = (*ChatScreen)(nil)
	_ screen.StatusProvider  = (*ChatScreen)(nil)
)

// New creates a chat for userID backed by engine.
func New(engine Engine, userID string) *ChatScreen {
	return &ChatScreen{
		engine:     engine,
		userID:     userID,
		input:      components.NewTextInput("Type a command or an option number...", 200),
		transcript: []entry{{from: fromBot, text: console.WelcomeText}},
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(c.input.Init(), c.loadStatus())
}

func (c *ChatScreen) Title() string {
	if q := c.interp.Pending(); q != nil {
		if q.AnswerWith == progression.ActionSubmitTestAnswer {
			return "Diagnostic test"
		}
		return "Practice"
	}
	return "Chat"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "/help", Description: "Commands"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Status returns the header summary, zero until progress has loaded.
func (c *ChatScreen) Status() layout.Status {
	if c.progress == nil {
		return layout.Status{}
	}
	return layout.Status{
		Level:      c.progress.Level,
		XP:         c.progress.XP,
		StreakDays: c.progress.StreakDays,
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return c, c.submit()
		}

	case outcomeMsg:
		c.handleOutcome(msg)
		return c, nil

	case statusMsg:
		if msg.Progress != nil {
			c.progress = msg.Progress
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) submit() tea.Cmd {
	line := c.input.Value()
	if line == "" || c.busy {
		return nil
	}
	c.input.Reset()
	c.say(fromUser, line)

	reply := c.interp.Interpret(line)
	if reply.Action == nil {
		c.say(fromBot, reply.Text)
		return nil
	}

	c.busy = true
	c.input.SetDisabled(true)
	return c.dispatch(*reply.Action)
}

func (c *ChatScreen) dispatch(a progression.Action) tea.Cmd {
	engine, userID := c.engine, c.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		out, err := engine.Dispatch(ctx, userID, a)
		if err != nil {
			return outcomeMsg{Err: err}
		}
		p, err := engine.Progress(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("Failed to refresh progress")
		}
		return outcomeMsg{Outcome: out, Progress: p}
	}
}

func (c *ChatScreen) loadStatus() tea.Cmd {
	engine, userID := c.engine, c.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		p, err := engine.Progress(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("Failed to load progress")
		}
		return statusMsg{Progress: p}
	}
}

func (c *ChatScreen) handleOutcome(msg outcomeMsg) {
	c.busy = false
	c.input.SetDisabled(false)

	if msg.Err != nil {
		c.say(fromBot, progression.UserMessage(msg.Err))
		return
	}

	c.interp.Observe(msg.Outcome)
	if msg.Progress != nil {
		c.progress = msg.Progress
	}

	out := msg.Outcome
	e := entry{from: fromBot, text: out.Text}
	if out.Share != nil && out.Share.Card != "" {
		e.text = out.Share.Card + "\n\n" + e.text
	}
	if out.Feedback != nil {
		e.tone = incorrect
		if out.Feedback.Correct {
			e.tone = correct
		}
	}
	c.transcript = append(c.transcript, e)
}

func (c *ChatScreen) say(from speaker, text string) {
	c.transcript = append(c.transcript, entry{from: from, text: text})
}

func (c *ChatScreen) View(width, height int) string {
	footer := []string{c.input.View()}
	if c.progress != nil && c.progress.Started {
		footer = append([]string{components.NewXPBar(c.progress.XP, c.progress.NextLevelXP, min(width-4, 60)).View()}, footer...)
	}
	if c.busy {
		footer = append([]string{theme.Pending.Render("PyTutor is thinking…")}, footer...)
	}

	bottom := lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(footer, "\n"))
	logHeight := max(height-lipgloss.Height(bottom)-1, 0)

	return c.renderTranscript(width, logHeight) + "\n\n" + bottom
}

// renderTranscript renders the newest entries that fit in height lines.
func (c *ChatScreen) renderTranscript(width, height int) string {
	wrap := lipgloss.NewStyle().Width(max(width-4, 10)).PaddingLeft(2)

	var lines []string
	for _, e := range c.transcript {
		prefix := theme.BotPrefix.Render("PyTutor")
		if e.from == fromUser {
			prefix = theme.UserPrefix.Render("You")
		}
		block := wrap.Render(prefix + "\n" + renderText(e))
		lines = append(lines, strings.Split(block, "\n")...)
		lines = append(lines, "")
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

func renderText(e entry) string {
	if e.tone == plain {
		return theme.Body.Render(e.text)
	}
	first, rest, _ := strings.Cut(e.text, "\n")
	style := theme.Correct
	if e.tone == incorrect {
		style = theme.Incorrect
	}
	if rest == "" {
		return style.Render(first)
	}
	return style.Render(first) + "\n" + theme.Body.Render(rest)
}
