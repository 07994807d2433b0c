// SPDX-License-Identifier: MPL-2.0

package conf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/reptor/reptor/internal/config"
	"github.com/reptor/reptor/internal/plugin"
)

// ErrAborted is returned when the user aborts the interactive prompt.
var ErrAborted = errors.New("configuration aborted")

type (
	// Prompter reads answers from the user.
	Prompter interface {
		Prompt(prompt string) (string, error)
		PasswordPrompt(prompt string) (string, error)
		Close() error
	}

	// lineReader is the Prompter used when stdin is not a terminal.
	lineReader struct {
		in  *bufio.Reader
		out io.Writer
	}
)

// newPrompter uses a line editor on an interactive terminal and plain line
// reads otherwise, so answers can be piped in.
var newPrompter = func(env *plugin.Env) Prompter {
	if f, ok := env.Stdin.(*os.File); ok && f == os.Stdin && isatty.IsTerminal(f.Fd()) && liner.TerminalSupported() {
		l := liner.NewLiner()
		l.SetCtrlCAborts(true)
		return l
	}
	return &lineReader{in: bufio.NewReader(env.Stdin), out: env.Stdout}
}

func (r *lineReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *lineReader) PasswordPrompt(prompt string) (string, error) {
	return r.Prompt(prompt)
}

func (r *lineReader) Close() error { return nil }

// interactive asks for each connection setting, keeping the current value on
// an empty answer, and persists the result.
func (m *Module) interactive(ctx context.Context) (err error) {
	cfg := m.env.Config
	p := newPrompter(m.env)
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ask := func(prompt, current string) (string, error) {
		label := prompt + ": "
		if current != "" {
			label = fmt.Sprintf("%s [%s]: ", prompt, current)
		}
		answer, err := p.Prompt(label)
		if err != nil {
			return "", promptError(err)
		}
		return valueOr(strings.TrimSpace(answer), current), nil
	}

	server, err := ask("Server", cfg.GetString(config.KeyServer))
	if err != nil {
		return err
	}
	token, err := p.PasswordPrompt("API Token (empty keeps the current one): ")
	if err != nil {
		return promptError(err)
	}
	project, err := ask("Project ID (empty writes globally)", cfg.GetString(config.KeyProjectID))
	if err != nil {
		return err
	}
	insecure, err := p.Prompt("Ignore certificate errors? [y/N]: ")
	if err != nil {
		return promptError(err)
	}

	values := map[string]any{
		config.KeyServer:    server,
		config.KeyProjectID: project,
		config.KeyInsecure:  isYes(insecure),
	}
	if token = strings.TrimSpace(token); token != "" {
		values[config.KeyToken] = token
	}

	if err := cfg.Persist(ctx, values); err != nil {
		return err
	}
	m.env.Console.Success("Configuration written to %s", cfg.ConfigFile())
	return nil
}

func promptError(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return ErrAborted
	}
	return fmt.Errorf("read answer: %w", err)
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
