package main

import (
	"errors"

	"github.com/spf13/cobra"

	"todoapp/internal/core/model/request"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	client, err := newClient()

	if err != nil {
		return err
	}

	id := args[0]

	todos, err := client.FetchAll(cmd.Context())

	if err != nil {
		return err
	}

	for _, todo := range todos {
		if todo.ID != id {
			continue
		}

		next := !todo.Completed

		updated, err := client.Update(cmd.Context(), id, request.UpdateTodoRequest{Completed: &next})

		if err != nil {
			return err
		}

		if updated.Completed {
			ok("done: " + updated.Text)
		} else {
			ok("pending: " + updated.Text)
		}

		return nil
	}

	fail("todo " + id + " not found")

	return errors.New("todo not found")
}
