// SPDX-License-Identifier: MPL-2.0

package console

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// MarkdownStyle picks the glamour style for w: "notty" unless w is a
// terminal, in which case glamour detects the background.
func MarkdownStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "auto"
	}
	return "notty"
}

// Markdown renders md for the console's writer and prints it.
func (c *Console) Markdown(md string) error {
	out, err := glamour.Render(md, MarkdownStyle(c.out))
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.out, out)
	return err
}
