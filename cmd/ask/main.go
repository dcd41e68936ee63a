// Command ask is the operator CLI: it answers questions against the live
// database, mints admin tokens and applies the schema.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/urfave/cli/v3"

	"github.com/iliyamo/showtime-assistant/internal/app"
	"github.com/iliyamo/showtime-assistant/internal/config"
	"github.com/iliyamo/showtime-assistant/internal/database"
	"github.com/iliyamo/showtime-assistant/internal/intent"
	"github.com/iliyamo/showtime-assistant/internal/service"
	"github.com/iliyamo/showtime-assistant/internal/utils"
)

func main() {
	if err := newRootCommand(os.Stdout, openApp).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ask:", err)
		os.Exit(1)
	}
}

// opener builds the App; tests replace it.
type opener func(ctx context.Context) (*app.App, error)

func openApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	if cfg.LogFormat == "json" {
		cfg.LogFormat = "text"
	}
	return app.Open(ctx, cfg, cfg.NewLogger(os.Stderr))
}

func newRootCommand(out io.Writer, open opener) *cli.Command {
	cinemaFlags := []cli.Flag{
		&cli.Int64Flag{Name: "cinema", Aliases: []string{"c"}, Usage: "cinema id"},
		&cli.StringFlag{Name: "cinema-name", Usage: "cinema name, fuzzy matched"},
	}

	return &cli.Command{
		Name:  "ask",
		Usage: "query the showtime assistant from a terminal",
		Commands: []*cli.Command{
			{
				Name:      "question",
				Usage:     "classify a free-text question and answer it",
				ArgsUsage: "<question...>",
				Flags:     cinemaFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					q := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
					if q == "" {
						return fmt.Errorf("a question is required")
					}
					a, err := open(ctx)
					if err != nil {
						return err
					}
					defer func() { _ = a.Close() }()

					resp, err := a.Assistant.Ask(ctx, cmd.Int64("cinema"), cmd.String("cinema-name"), q)
					if err != nil {
						fmt.Fprintln(out, a.Assistant.Reply(err).String())
						return err
					}
					fmt.Fprintln(out, resp.Text())
					return nil
				},
			},
			{
				Name:  "resolve",
				Usage: "answer already classified fields, skipping the language model",
				Flags: append(cinemaFlags,
					&cli.StringFlag{Name: "intent", Value: intent.KindShowtimes.String()},
					&cli.StringFlag{Name: "time", Usage: "hoje, amanhã, sexta, 20/01, ..."},
					&cli.StringFlag{Name: "movie", Usage: "one or more names separated by commas"},
					&cli.StringFlag{Name: "status"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cls := intent.FromFields(cmd.String("intent"), cmd.String("time"), cmd.String("movie"), cmd.String("status"))
					a, err := open(ctx)
					if err != nil {
						return err
					}
					defer func() { _ = a.Close() }()

					resp, err := a.Assistant.Resolve(ctx, service.RequestFrom(cmd.Int64("cinema"), cmd.String("cinema-name"), cls))
					if err != nil {
						fmt.Fprintln(out, a.Assistant.Reply(err).String())
						return err
					}
					fmt.Fprintln(out, resp.Text())
					return nil
				},
			},
			{
				Name:  "token",
				Usage: "mint an operator token for the admin routes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "operator", Aliases: []string{"o"}, Required: true},
					&cli.DurationFlag{Name: "ttl", Value: 12 * time.Hour, Sources: cli.EnvVars("OPERATOR_TOKEN_TTL")},
					&cli.StringFlag{Name: "secret", Sources: cli.EnvVars("JWT_SECRET"), Usage: "signing secret"},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					tok, err := utils.NewOperatorToken(cmd.String("secret"), cmd.String("operator"), cmd.Duration("ttl"), time.Now())
					if err != nil {
						return err
					}
					fmt.Fprintln(out, tok.Token)
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "create the tables the assistant reads",
				Action: func(ctx context.Context, _ *cli.Command) error {
					a, err := open(ctx)
					if err != nil {
						return err
					}
					defer func() { _ = a.Close() }()
					if err := database.Migrate(ctx, a.DB); err != nil {
						return err
					}
					fmt.Fprintln(out, "schema applied")
					return nil
				},
			},
		},
	}
}
