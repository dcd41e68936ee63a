package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryResolvedEvent(t *testing.T) {
	at := time.Date(2025, time.January, 9, 15, 4, 5, 0, time.UTC)
	a := NewQueryResolvedEvent(at)
	b := NewQueryResolvedEvent(at)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "2025-01-09T15:04:05Z", a.ResolvedAt)
}

func TestFormatLine(t *testing.T) {
	ev := QueryResolvedEvent{
		ID:         "abc",
		CinemaID:   3,
		CinemaName: "Cine Centro",
		Intent:     "movie_showtimes",
		Movies:     []string{"Duna", "Moana 2"},
		Days:       []string{"2025-01-11"},
		Blocks:     2,
		ResolvedAt: "2025-01-09T15:04:05Z",
	}
	assert.Equal(t,
		"[2025-01-09T15:04:05Z] Query answered | id=abc | cinema_id=3 | cinema=\"Cine Centro\" | intent=movie_showtimes | movies=[Duna,Moana 2] | unmatched=[] | days=[2025-01-11] | blocks=2\n",
		FormatLine(ev))

	ev.NotFound = true
	assert.Contains(t, FormatLine(ev), "Query not found")
}

func TestConsumerHandle_AppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := NewConsumer("", dir, nil)

	for _, id := range []string{"one", "two"} {
		body, err := json.Marshal(QueryResolvedEvent{ID: id, Intent: "now_showing"})
		require.NoError(t, err)
		require.NoError(t, c.Handle(body))
	}

	data, err := os.ReadFile(filepath.Join(dir, QueryLogFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "id=one")
	assert.Contains(t, lines[1], "id=two")
}

func TestConsumerHandle_RejectsGarbage(t *testing.T) {
	c := NewConsumer("", t.TempDir(), nil)
	assert.Error(t, c.Handle([]byte("not json")))
}
