package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alvion/transitions"
	"github.com/alvion/transitions/internal/logging"
	"github.com/alvion/transitions/internal/presentation/tui"
	"github.com/alvion/transitions/pkg/adapters/yamlspec"
	"github.com/alvion/transitions/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the machine interactively",
	Long:  `Loads the machine definition and fires triggers read from stdin, rendering the state tree after each step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open definition: %w", err)
		}
		defer f.Close()

		machine, err := yamlspec.Load(f, nil,
			transitions.WithLogger(logging.New(slog.LevelWarn)))
		if err != nil {
			return fmt.Errorf("failed to build machine: %w", err)
		}

		fmt.Println(tui.RenderTree(machine.States(), machine.Current().Name()))
		fmt.Println("Type a trigger name to fire it, or 'quit' to exit.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			trigger := strings.TrimSpace(scanner.Text())
			switch trigger {
			case "":
				continue
			case "quit", "exit":
				return nil
			}

			fired, err := machine.Fire(trigger)
			if err != nil {
				var invalid *domain.InvalidTriggerError
				if errors.As(err, &invalid) {
					fmt.Println(invalid.Error())
					continue
				}
				return err
			}
			if !fired {
				fmt.Println("no transition fired (guards rejected)")
			}
			fmt.Println(tui.RenderTree(machine.States(), machine.Current().Name()))
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
