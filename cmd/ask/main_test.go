package main

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/showtime-assistant/internal/app"
	"github.com/iliyamo/showtime-assistant/internal/config"
	"github.com/iliyamo/showtime-assistant/internal/database"
	"github.com/iliyamo/showtime-assistant/internal/utils"
)

func sqliteOpener(t *testing.T) opener {
	t.Helper()
	return func(ctx context.Context) (*app.App, error) {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		if err := database.Migrate(ctx, db); err != nil {
			return nil, err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO cinemas (id, name, schedule_url) VALUES (3, 'Cine Praia', 'https://cine.example/praia')`); err != nil {
			return nil, err
		}
		cfg := config.Config{TimeZone: "America/Sao_Paulo", FallbackURL: "https://cine.example"}
		return app.Build(ctx, cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
}

func TestToken(t *testing.T) {
	var out bytes.Buffer
	err := newRootCommand(&out, nil).Run(context.Background(),
		[]string{"ask", "token", "--operator", "ana", "--secret", "s3cret", "--ttl", "1h"})
	require.NoError(t, err)

	claims, err := utils.ParseOperatorToken("s3cret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	err := newRootCommand(io.Discard, nil).Run(context.Background(), []string{"ask", "token", "--operator", "ana"})
	assert.Error(t, err)
}

func TestResolve_CinemaInfo(t *testing.T) {
	var out bytes.Buffer
	err := newRootCommand(&out, sqliteOpener(t)).Run(context.Background(),
		[]string{"ask", "resolve", "--cinema", "3", "--intent", "cinema_info"})
	require.NoError(t, err)
	assert.Equal(t, "Cinema: Cine Praia\nProgramação: https://cine.example/praia\n", out.String())
}

func TestResolve_UnknownCinema(t *testing.T) {
	var out bytes.Buffer
	err := newRootCommand(&out, sqliteOpener(t)).Run(context.Background(),
		[]string{"ask", "resolve", "--cinema-name", "odeon", "--intent", "now_showing"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Não consegui identificar o cinema.")
}

func TestQuestion_NeedsText(t *testing.T) {
	err := newRootCommand(io.Discard, sqliteOpener(t)).Run(context.Background(), []string{"ask", "question", "-c", "3"})
	assert.Error(t, err)
}
