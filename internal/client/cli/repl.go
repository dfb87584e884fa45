package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	AddWallet(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const helpText = "Available commands: addwallet, (l)ist, show [id], delete [id], lock, exit"

// runREPL reads commands from reader and dispatches them to a until end of
// input, context cancellation, or one of lock, exit, quit. Prompts and
// messages go to out. Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(out, "nodevault> ")
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)

		case "addwallet":
			cmdErr = a.AddWallet(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "show":
			cmdErr = a.Show(ctx, arg)

		case "delete":
			cmdErr = a.Delete(ctx, arg)

		case "lock", "exit", "quit":
			fmt.Fprintln(out, "Vault locked. Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", describe(cmdErr))
		}
	}
}
