package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
)

const prompt = "recipai> "

// runShell reads commands from in until EOF or exit. Generated recipes and the
// shopping list live for the whole session.
func runShell(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	a.interactive = true
	defer func() { a.interactive = false }()

	fmt.Fprintln(out, `Type "help" for commands, "exit" to quit.`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		args, err := shellquote.Split(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		cmd := newRootCommand(a, in, out)
		cmd.SetArgs(args)
		if err := cmd.ExecuteContext(ctx); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
