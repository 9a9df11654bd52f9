package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "stepbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	p, err := s.Record(ctx, DailyPost{
		Day:       "2026-10-16",
		Ref:       "97-S2-Q1",
		Label:     "STEP 2 1997, Question 1",
		URL:       "https://img.test/97-S2-Q1.png",
		ChannelID: "42",
		PostedAt:  at,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, err := s.Get(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "97-S2-Q1", got.Ref)
	assert.Equal(t, "42", got.ChannelID)
	assert.True(t, at.Equal(got.PostedAt))

	posted, err := s.Posted(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.True(t, posted)

	posted, err = s.Posted(ctx, "2026-10-17")
	require.NoError(t, err)
	assert.False(t, posted)

	_, err = s.Get(ctx, "2026-10-17")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecord_DuplicateDay(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, DailyPost{Day: "2026-10-16", Ref: "97-S2-Q1", Label: "a", URL: "u1"})
	require.NoError(t, err)

	_, err = s.Record(ctx, DailyPost{Day: "2026-10-16", Ref: "05-S3-Q2", Label: "b", URL: "u2"})
	assert.ErrorIs(t, err, ErrAlreadyPosted)

	got, err := s.Get(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, "97-S2-Q1", got.Ref)
}

// Конфликт не по дню (тот же id) — обычная ошибка, а не ErrAlreadyPosted.
func TestRecord_OtherConstraint(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.Record(ctx, DailyPost{Day: "2026-10-16", Ref: "97-S2-Q1", Label: "a", URL: "u1"})
	require.NoError(t, err)

	_, err = s.Record(ctx, DailyPost{ID: p.ID, Day: "2026-10-17", Ref: "05-S3-Q2", Label: "b", URL: "u2"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyPosted)
}

func TestRecent_Order(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, day := range []string{"2026-10-14", "2026-10-16", "2026-10-15"} {
		_, err := s.Record(ctx, DailyPost{Day: day, Ref: "Spec-S1-Q1", Label: "l", URL: "u"})
		require.NoError(t, err)
	}

	posts, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "2026-10-16", posts[0].Day)
	assert.Equal(t, "2026-10-15", posts[1].Day)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepbot.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, DailyPost{Day: "2026-10-16", Ref: "r", Label: "l", URL: "u"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	posted, err := s.Posted(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.True(t, posted)
}
