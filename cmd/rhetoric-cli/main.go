// Command rhetoric-cli runs the upload-and-analyze flow from a terminal.
//
// Usage:
//
//	./rhetoric-cli analyze speech.mp4
//	./rhetoric-cli analyze speech.mp4 --output json
//	./rhetoric-cli config
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error
		os.Exit(1)
	}
}
