package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/resp"
)

// Executor sends one command line and returns the reply.
type Executor func(ctx context.Context, args []string) (resp.Token, error)

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithPrompt sets the prompt text.
func WithPrompt(p string) Option {
	return func(r *REPL) { r.prompt = p }
}

// WithFormatter sets how replies are printed.
func WithFormatter(f output.Formatter) Option {
	return func(r *REPL) { r.formatter = f }
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	formatter output.Formatter
	completer *Completer
	history   *History
}

// New creates a new REPL instance.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "respkv> ",
		exec:      exec,
		formatter: &output.RawFormatter{},
		completer: NewCompleter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Run reads lines until EOF, exit or ctx ends.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "!") {
			recalled, ok := r.recall(line)
			if !ok {
				fmt.Fprintf(r.output, "(error) no history entry %s\n", line)
				continue
			}
			fmt.Fprintln(r.output, recalled)
			line = recalled
		}

		r.history.Add(line)

		if quit := r.execute(ctx, line); quit {
			return nil
		}
	}
}

func (r *REPL) recall(line string) (string, bool) {
	if line == "!!" {
		s := r.history.Get(0)
		return s, s != ""
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return "", false
	}
	return r.history.At(n)
}

// execute runs one line and reports whether the REPL should stop.
func (r *REPL) execute(ctx context.Context, line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true
	case "help":
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}
		fmt.Fprintln(r.output, strings.Join(r.completer.Complete(prefix), " "))
		return false
	case "history":
		for i, e := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
		}
		return false
	}

	reply, err := r.exec(ctx, args)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}
	if err := r.formatter.Format(r.output, reply); err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
	}
	return false
}
