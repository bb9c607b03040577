package main

import (
	"strings"

	"github.com/spf13/cobra"

	"todoapp/internal/core/model/request"
)

var editCmd = &cobra.Command{
	Use:   "edit <id> <text>...",
	Short: "Replace a todo's text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	client, err := newClient()

	if err != nil {
		return err
	}

	id := args[0]
	text := strings.Join(args[1:], " ")

	updated, err := client.Update(cmd.Context(), id, request.UpdateTodoRequest{Text: &text})

	if err != nil {
		return err
	}

	ok("updated " + updated.ID)

	return nil
}
