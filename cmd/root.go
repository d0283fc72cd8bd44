package cmd

import (
	"fmt"
	"log"
	"os"

	"PosFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "posfm_server",
	Short: "PosFM is a premium music catalog and streaming service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting PosFM server...")
		// server.Start now handles its own port and logging for startup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
