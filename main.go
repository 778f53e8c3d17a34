package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const (
	ConfigFilename = "veil.yaml"
)

func main() {

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		help()
		return
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		help()
		os.Exit(2)
	}
	if err := cmd(os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func help() {
	line := `Usage: veil <command> [arguments]

The following commands are supported:
	hide		hide a message or a file inside an image
	reveal		extract hidden data from an image
	capacity	show how much an image can hold
	check		tell whether an image carries hidden data
	serve		run the local HTTP API
	genconfig	write the default configuration to a file

Run 'veil <command> --help' for the arguments of a command.
`

	fmt.Printf("%s", line)
}
