// The gameclock command runs a demo clock session from the terminal. It
// exists to exercise the library end to end: a frame loop driving the
// clock, optional live monitoring, and optional session recording.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gameclock",
	Short: "gameclock drives a game time and simulation clock session.",
	Long: `gameclock drives a game time and simulation clock session: a ` +
		`calendar-aware, speed-adjustable clock with fixed-rate ticks and ` +
		`a discrete-event scheduler. Defaults can be placed in a .env file.`,
}

// The .env file must load before the flag defaults in run.go are
// computed. A missing file is fine; built-in defaults apply.
func init() {
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
