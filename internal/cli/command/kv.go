package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/client"
	"github.com/yndnr/respkv/internal/resp"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check that the server answers",
		Action: func(c *cli.Context) error { return send(c, "PING") },
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Echo a message",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("echo takes exactly one MESSAGE")
			}
			return send(c, "ECHO", c.Args().First())
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("get takes exactly one KEY")
			}
			return send(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key, optionally expiring after --px milliseconds",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "px",
				Usage: "time to live in `MS`",
				Value: -1,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("set takes KEY and VALUE")
			}
			args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
			if c.IsSet("px") {
				px := c.Int64("px")
				if px < 0 {
					return fmt.Errorf("--px must not be negative")
				}
				args = append(args, "PX", strconv.FormatInt(px, 10))
			}
			return send(c, args...)
		},
	}
}

// RawCommand returns the raw command.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Send arguments as one command line and print the reply",
		ArgsUsage: "ARGS...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("raw needs at least one argument")
			}
			return send(c, c.Args().Slice()...)
		},
	}
}

// ErrReplyError is returned after printing an error reply, so callers can
// exit non-zero without repeating the message.
var ErrReplyError = errors.New("server returned an error reply")

// send runs one command and prints its reply.
func send(c *cli.Context, args ...string) error {
	cl, err := connect(c)
	if err != nil {
		return err
	}
	defer cl.Close()

	reply, err := do(c.Context, cl, args)
	if err != nil {
		return err
	}
	if err := printResult(c, reply); err != nil {
		return err
	}
	if client.AsError(reply) != nil {
		return ErrReplyError
	}
	return nil
}

func do(ctx context.Context, cl *client.Client, args []string) (resp.Token, error) {
	reply, err := cl.Do(ctx, args...)
	if err != nil {
		return resp.Token{}, fmt.Errorf("request failed: %w", err)
	}
	return reply, nil
}
