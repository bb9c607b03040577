package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all todos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := newClient()

	if err != nil {
		return err
	}

	todos, err := client.FetchAll(cmd.Context())

	if err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Println(mutedStyle.Render("Nothing to do."))
		return nil
	}

	for _, todo := range todos {
		box := mutedStyle.Render(boxUnchecked)
		text := todo.Text

		if todo.Completed {
			box = successStyle.Render(boxChecked)
			text = doneStyle.Render(text)
		}

		fmt.Printf("%s %s  %s\n", box, text, mutedStyle.Render(todo.ID))
	}

	return nil
}
