// Package report turns engine events into output: terminal lines, broker
// messages, or both.
package report

import (
	"fmt"
	"io"

	"github.com/15Galan/h4-hash-cracker/internal/models"
)

const clearLine = "\r\x1b[2K"

// Console writes one status line per hash. With progress enabled it also
// shows the current attempt on a single line that is overwritten in place.
type Console struct {
	w        io.Writer
	progress bool
	dirty    bool
}

func NewConsole(w io.Writer, progress bool) *Console {
	return &Console{w: w, progress: progress}
}

func (c *Console) Attempt(hash, word, algorithm string) {
	if !c.progress {
		return
	}

	fmt.Fprintf(c.w, "%s : %s\t(%s)\r", hash, word, algorithm)
	c.dirty = true
}

func (c *Console) Outcome(o models.Outcome) {
	if c.dirty {
		io.WriteString(c.w, clearLine)
		c.dirty = false
	}

	io.WriteString(c.w, StatusLine(o)+"\n")
}

// StatusLine formats the final line for a hash.
func StatusLine(o models.Outcome) string {
	if o.Found {
		return fmt.Sprintf("%s : %s\t(%s)", o.Hash, o.Word, o.Algorithm)
	}

	return fmt.Sprintf("%s * not found", o.Hash)
}
