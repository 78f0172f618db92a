package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "transitions",
	Short: "Hierarchical state machine runner",
	Long:  `Loads a YAML machine definition with nested states and drives it interactively or over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("file", "machine.yaml", "Path to the machine definition")
}
