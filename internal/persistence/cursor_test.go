package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	c := &domain.Cursor{CreatedAt: time.Date(2024, 5, 6, 8, 0, 0, 123, time.UTC), ID: "plan-1"}

	decoded, err := DecodeCursor(EncodeCursor(c))
	require.NoError(t, err)
	require.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	require.Equal(t, "plan-1", decoded.ID)
}

func TestDecodeCursorEdgeCases(t *testing.T) {
	c, err := DecodeCursor("  ")
	require.NoError(t, err)
	require.Nil(t, c)
	require.Empty(t, EncodeCursor(nil))

	_, err = DecodeCursor("%%%")
	require.Error(t, err)

	_, err = DecodeCursor("bm8tc2VwYXJhdG9y")
	require.Error(t, err)
}

func TestBefore(t *testing.T) {
	at := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	c := &domain.Cursor{CreatedAt: at, ID: "m"}

	require.True(t, Before(nil, at, "z"))
	require.True(t, Before(c, at.Add(-time.Second), "z"))
	require.True(t, Before(c, at, "a"))
	require.False(t, Before(c, at, "m"))
	require.False(t, Before(c, at.Add(time.Second), "a"))
}
