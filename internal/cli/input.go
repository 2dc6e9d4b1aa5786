package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func GetSimpleText(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprintln(out, prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GetPassword reads a password without echoing it. The returned bytes must
// be wiped by the caller once the password has been used.
func GetPassword(out io.Writer) ([]byte, error) {
	fmt.Fprintln(out, "-Enter password")
	return readPassword()
}
