// Package share renders a shareable progress card.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// ErrEmptyUser is returned when a snapshot carries no user id.
var ErrEmptyUser = errors.New("share: snapshot has no user")

// Snapshot is the progress shown on a card.
type Snapshot struct {
	UserID           string
	Level            int
	CompletedLessons int
	StreakDays       int
}

// Artifact is a rendered card together with the caption posted next to it.
type Artifact struct {
	Card    string
	Caption string
}

// Caption returns the text accompanying a card for s.
func Caption(s Snapshot) string {
	return fmt.Sprintf("I'm level %d in my Python course!\nLessons completed: %d\nDays in a row: %d\n\nJoin me!",
		s.Level, s.CompletedLessons, s.StreakDays)
}

var (
	cardBorder = lipgloss.Color("#334155")
	cardTitle  = lipgloss.Color("#8B5CF6")
	cardValue  = lipgloss.Color("#14B8A6")
	cardLabel  = lipgloss.Color("#94A3B8")
)

// CardRenderer draws the card as a bordered terminal panel.
type CardRenderer struct {
	// Width is the inner width of the card. Zero means 32.
	Width int
}

// Render builds the card for s.
func (r CardRenderer) Render(ctx context.Context, s Snapshot) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if strings.TrimSpace(s.UserID) == "" {
		return Artifact{}, ErrEmptyUser
	}

	width := r.Width
	if width <= 0 {
		width = 32
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(cardTitle).Render("Python progress")
	row := func(label string, value int) string {
		l := lipgloss.NewStyle().Foreground(cardLabel).Width(width - 6).Render(label)
		v := lipgloss.NewStyle().Bold(true).Foreground(cardValue).Render(fmt.Sprintf("%d", value))
		return lipgloss.JoinHorizontal(lipgloss.Top, l, v)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		row("Level", s.Level),
		row("Lessons completed", s.CompletedLessons),
		row("Days in a row", s.StreakDays),
	)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cardBorder).
		Padding(1, 2).
		Width(width).
		Render(body)

	return Artifact{Card: card, Caption: Caption(s)}, nil
}
