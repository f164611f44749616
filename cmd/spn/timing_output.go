package main

import (
	"fmt"
	"io"

	"spin/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || len(timer.Report().Phases) == 0 {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
