// Package shell is the interactive MathLamp loop: one line is one program,
// and every line runs against the same session Environment.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agenthands/mathlamp/pkg/session"
)

const (
	DefaultPrompt = ">"
	DefaultBanner = "Welcome to the MathLamp interactive shell. Press CTRL+C to close the shell"
)

type Shell struct {
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	session *session.Session

	Prompt string
	Banner string
}

// New builds a shell reading from in. Printed values go to the session's
// writer; prompts go to out and error reports to errOut.
func New(in io.Reader, out, errOut io.Writer, s *session.Session) *Shell {
	return &Shell{
		in:      bufio.NewReader(in),
		out:     out,
		errOut:  errOut,
		session: s,
		Prompt:  DefaultPrompt,
		Banner:  DefaultBanner,
	}
}

// Run loops until the input is exhausted. Errors from a line are reported and
// the loop continues; only a read failure ends it with an error.
func (sh *Shell) Run() error {
	if sh.Banner != "" {
		fmt.Fprintln(sh.out, sh.Banner)
	}

	for {
		fmt.Fprint(sh.out, sh.Prompt)

		line, err := sh.in.ReadString('\n')
		if line != "" {
			sh.eval(line)
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(sh.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("shell: read input: %w", err)
		}
	}
}

func (sh *Shell) eval(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if err := sh.session.Run([]byte(line)); err != nil {
		fmt.Fprintf(sh.errOut, "Error: %v\n", err)
	}
}
