package main

import (
	"errors"

	"github.com/spf13/cobra"

	"todoapp/pkg/apiclient"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	client, err := newClient()

	if err != nil {
		return err
	}

	id := args[0]

	if err := client.Delete(cmd.Context(), id); err != nil {
		var notFound *apiclient.NotFoundError

		if errors.As(err, &notFound) {
			fail(notFound.Error())
			return err
		}

		return err
	}

	ok("deleted " + id)

	return nil
}
