package share

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCard(t *testing.T) {
	snap := Snapshot{UserID: "42", Level: 3, CompletedLessons: 2, StreakDays: 5}

	art, err := CardRenderer{}.Render(context.Background(), snap)
	require.NoError(t, err)

	assert.Contains(t, art.Card, "Python progress")
	assert.Contains(t, art.Card, "Lessons completed")
	assert.Contains(t, art.Card, "Days in a row")
	assert.Equal(t, Caption(snap), art.Caption)
	assert.Contains(t, art.Caption, "level 3")
	assert.Contains(t, art.Caption, "Lessons completed: 2")
	assert.Contains(t, art.Caption, "Days in a row: 5")
}

func TestRenderRejectsEmptyUser(t *testing.T) {
	_, err := CardRenderer{}.Render(context.Background(), Snapshot{Level: 1})
	assert.ErrorIs(t, err, ErrEmptyUser)
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CardRenderer{}.Render(ctx, Snapshot{UserID: "1"})
	assert.ErrorIs(t, err, context.Canceled)
}
