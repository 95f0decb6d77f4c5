// ABOUTME: Interactive confirmation prompt shared by destructive commands.
// ABOUTME: Reads one line and matches it against the accepted answers.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// confirm writes prompt to out and reports whether the next line read from
// in matches one of accept (case-insensitive). EOF counts as "no".
func confirm(in io.Reader, out io.Writer, prompt string, accept ...string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer != "" && slices.Contains(accept, answer), nil
}
