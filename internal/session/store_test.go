package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pytutor/internal/content"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func storeImplementations(t *testing.T) map[string]Store {
	rs, _ := newTestRedisStore(t, time.Hour)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  rs,
	}
}

func TestStore_DiagnosticRoundTrip(t *testing.T) {
	for name, s := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetDiagnostic(ctx, "u1")
			require.ErrorIs(t, err, ErrNoSession)

			d := NewDiagnostic("u1", []int{4, 8}, t0)
			require.NoError(t, d.Begin())
			_, err = d.RecordAnswer(content.Question{ID: 4, Category: content.CategoryLoops, Options: []string{"a", "b"}}, 0)
			require.NoError(t, err)
			require.NoError(t, s.PutDiagnostic(ctx, d))

			got, err := s.GetDiagnostic(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, d.ID, got.ID)
			assert.Equal(t, DiagnosticAnsweringQuestions, got.Phase)
			assert.Equal(t, []int{4, 8}, got.QuestionIDs)
			assert.Equal(t, 1, got.Cursor)
			assert.Equal(t, 1, got.Scores[content.CategoryLoops].Correct)
			assert.True(t, got.StartedAt.Equal(t0))

			require.NoError(t, s.DeleteDiagnostic(ctx, "u1"))
			_, err = s.GetDiagnostic(ctx, "u1")
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestStore_PracticeRoundTrip(t *testing.T) {
	for name, s := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetPractice(ctx, "u1")
			require.ErrorIs(t, err, ErrNoSession)

			p := NewPractice("u1", 3, 5, t0)
			require.NoError(t, p.Begin())
			require.NoError(t, p.RecordAnswer(true))
			require.NoError(t, s.PutPractice(ctx, p))

			got, err := s.GetPractice(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, *p, *got)

			require.NoError(t, s.DeletePractice(ctx, "u1"))
			_, err = s.GetPractice(ctx, "u1")
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestStore_KindsAndUsersAreIsolated(t *testing.T) {
	for name, s := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.PutPractice(ctx, NewPractice("alice", 1, 5, t0)))

			_, err := s.GetDiagnostic(ctx, "alice")
			assert.ErrorIs(t, err, ErrNoSession)
			_, err = s.GetPractice(ctx, "bob")
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.PutPractice(ctx, NewPractice("u1", 1, 5, t0)))

	got, err := s.GetPractice(ctx, "u1")
	require.NoError(t, err)
	got.Correct = 5

	again, err := s.GetPractice(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Correct)
}

func TestRedisStore_Expires(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, s.PutPractice(ctx, NewPractice("u1", 1, 5, t0)))

	assert.True(t, mr.Exists("pytutor:session:practice:u1"))
	mr.FastForward(2 * time.Minute)

	_, err := s.GetPractice(ctx, "u1")
	assert.True(t, errors.Is(err, ErrNoSession))
}
