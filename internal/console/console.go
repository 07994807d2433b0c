// SPDX-License-Identifier: MPL-2.0

package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Console prints user-facing messages. Unlike the logger it is not filtered
// by level: everything written through a Console reaches the user.
type Console struct {
	out io.Writer
}

// New creates a Console writing to w. A nil writer means os.Stdout.
func New(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

// Writer returns the underlying writer.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Print writes an unstyled line.
func (c *Console) Print(format string, args ...any) {
	fmt.Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Display writes an informational line.
func (c *Console) Display(format string, args ...any) {
	c.styled(DisplayStyle, format, args...)
}

// Success writes a line reporting a positive outcome.
func (c *Console) Success(format string, args ...any) {
	c.styled(SuccessStyle, format, args...)
}

// Fail writes a line reporting a failure. It does not stop execution; modules
// return an error for that.
func (c *Console) Fail(format string, args ...any) {
	c.styled(ErrorStyle, format, args...)
}

// Highlight writes a line that should stand out.
func (c *Console) Highlight(format string, args ...any) {
	c.styled(WarningStyle, format, args...)
}

func (c *Console) styled(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}
