package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type InputUtils struct {
	// In defaults to os.Stdin.
	In io.Reader
	// Out defaults to os.Stdout.
	Out io.Writer
}

// AskConfirmation asks user for yes/no confirmation
func (i *InputUtils) AskConfirmation(message string, force bool) bool {
	if force {
		return true
	}

	in, out := i.In, i.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "%s (y/N): ", message)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
