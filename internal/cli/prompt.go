package cli

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/mrlokans/librarium/internal/entities"
)

// promptLine prints the prompt and reads one trimmed line. The second
// return value is false when input is exhausted.
func (c *Console) promptLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) promptInt(prompt string) (int, bool) {
	for {
		line, ok := c.promptLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a whole number.")
			continue
		}
		return n, true
	}
}

// promptDate reads a YYYY-MM-DD date; an empty line means today.
func (c *Console) promptDate(prompt string) (time.Time, bool) {
	for {
		line, ok := c.promptLine(prompt)
		if !ok {
			return time.Time{}, false
		}
		if line == "" {
			return entities.DateOnly(c.now()), true
		}
		d, err := entities.ParseDate(line)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a date as YYYY-MM-DD, or leave empty for today.")
			continue
		}
		return d, true
	}
}

// terminalPassword reads a password with echo disabled. Falls back to a
// plain line read when stdin is not a terminal (tests, pipes).
func terminalPassword(c *Console, prompt string) (string, bool) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return c.promptLine(prompt)
	}
	fmt.Fprint(c.out, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}
