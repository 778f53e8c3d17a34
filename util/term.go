package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadMessage reads a message typed at a prompt when stdin is a terminal,
// or everything piped into stdin otherwise.
func ReadMessage(prompt string) ([]byte, error) {
	if !StdinIsTerminal() {
		return io.ReadAll(os.Stdin)
	}
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
