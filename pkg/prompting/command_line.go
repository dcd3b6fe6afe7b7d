// Package prompting implements line-oriented operator prompting for the
// interactive remove flow. Unlike the credential prompting this is adapted
// from, every prompt here is plain text (a glob pattern, an integer
// priority, a one-letter decision), so there is no echo-suppression concern
// and no need for a password-masking dependency.
package prompting

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Prompt prints message to standard output and reads a single line of
// response from reader, with surrounding whitespace trimmed.
func Prompt(reader *bufio.Reader, message string) (string, error) {
	fmt.Print(message)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "unable to read response")
	}
	return strings.TrimSpace(line), nil
}
