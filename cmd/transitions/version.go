package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alvion/transitions"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("transitions version %s\n", transitions.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
