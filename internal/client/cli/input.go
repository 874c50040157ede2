package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const maxPromptAttempts = 3

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptLine writes "label: " to w and returns the next trimmed line. A final
// line without a newline is still returned.
func promptLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptRequired re-asks until the answer is non-blank.
func promptRequired(r *bufio.Reader, w io.Writer, label string) (string, error) {
	for range maxPromptAttempts {
		v, err := promptLine(r, w, label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintf(w, "%s cannot be empty\n", label)
	}
	return "", fmt.Errorf("%s is required", strings.ToLower(label))
}

// confirm asks a yes/no question; anything but y or yes, including EOF,
// counts as no.
func confirm(r *bufio.Reader, w io.Writer, question string) (bool, error) {
	v, err := promptLine(r, w, question+" [y/N]")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readSecret reads a line from the terminal without echo. Callers wipe the
// returned slice.
func readSecret(w io.Writer, label string) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", label)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
