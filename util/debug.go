package util

import (
	"log"
	"os"
)

var (
	// set VEIL_DEBUG to any value to get developer tracing on stderr
	DebugMode = os.Getenv("VEIL_DEBUG") != ""
)

func DebugPrintln(args ...any) {
	if DebugMode {
		log.Println(args...)
	}
}

func DebugPrintf(format string, args ...any) {
	if DebugMode {
		log.Printf(format, args...)
	}
}
