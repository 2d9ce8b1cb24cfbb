// Wiegandd decodes Wiegand access-control readers attached to Linux GPIO
// lines, logging every frame and optionally forwarding it over a serial
// port. A simulate command replays synthesized frames through an
// in-process decoder for testing without hardware.
//
// Usage:
//
//	wiegandd run --config wiegandd.yaml
//	wiegandd simulate --bits 26 --frames 10
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
