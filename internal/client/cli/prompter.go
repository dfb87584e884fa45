package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/nodevault/internal/common"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

// terminalPrompter asks for the master password on the terminal. An empty
// entry or end of input cancels the gate.
type terminalPrompter struct {
	out io.Writer
}

func (p *terminalPrompter) ask(ctx context.Context, prompt string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := getPassword(p.out, prompt)
	if errors.Is(err, io.EOF) {
		return nil, common.ErrCancelled
	}
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, common.ErrCancelled
	}
	return pw, nil
}

func (p *terminalPrompter) Enrollment(ctx context.Context, minLength int) ([]byte, []byte, error) {
	fmt.Fprintf(p.out, "Create a master password (at least %d characters, empty to quit).\n", minLength)

	pw, err := p.ask(ctx, "New master password: ")
	if err != nil {
		return nil, nil, err
	}
	confirm, err := p.ask(ctx, "Confirm master password: ")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, nil, err
	}
	return pw, confirm, nil
}

func (p *terminalPrompter) Login(ctx context.Context) ([]byte, error) {
	return p.ask(ctx, "Master password (empty to quit): ")
}

func (p *terminalPrompter) Notify(_ context.Context, msg string) {
	fmt.Fprintln(p.out, msg)
}
