package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, err := newClient()

	if err != nil {
		return err
	}

	text := strings.Join(args, " ")

	todo, err := client.Create(cmd.Context(), text, false)

	if err != nil {
		return err
	}

	ok("added " + todo.ID)

	return nil
}
