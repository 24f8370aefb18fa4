package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/client"
	"github.com/yndnr/respkv/internal/resp"
)

// REPLCommand returns the repl command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Start an interactive session",
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	cl, err := connect(c)
	if err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()

	s := GetSettings(c)
	history := repl.NewHistory(s.HistoryFile)
	if err := history.Load(); err != nil {
		PrintError("load history: %v", err)
	}

	r := repl.New(
		func(ctx context.Context, args []string) (resp.Token, error) {
			reply, err := do(ctx, cl, args)
			if err == nil || !errors.Is(err, client.ErrConnection) || ctx.Err() != nil {
				return reply, err
			}
			// Idle connections are dropped by the server; redial once.
			fresh, derr := connect(c)
			if derr != nil {
				return resp.Token{}, err
			}
			_ = cl.Close()
			cl = fresh
			return do(ctx, cl, args)
		},
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(history),
		repl.WithPrompt(s.Server+"> "),
		repl.WithFormatter(output.NewFormatter(s.Output)),
	)

	runErr := r.Run(c.Context)
	if err := history.Save(); err != nil {
		PrintError("save history: %v", err)
	}
	return runErr
}
