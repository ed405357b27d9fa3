package main

import (
	"os"
	"strconv"
)

// detectTerminalWidth returns the width of the terminal on stdout, then
// $COLUMNS, or 0 when neither is known.
func detectTerminalWidth() int {
	if n := ttyWidth(os.Stdout); n > 0 {
		return n
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 0
}
