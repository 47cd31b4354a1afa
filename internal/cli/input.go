// Package cli holds small terminal helpers for the demo binary.
package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// Secret returns the value of envVar when it is set, and otherwise prompts
// on the terminal with echo disabled. A newline is printed after the read to
// keep the UI tidy.
func Secret(w io.Writer, prompt, envVar string) (string, error) {
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return "", err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
