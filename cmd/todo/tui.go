package main

import (
	"context"

	"github.com/spf13/cobra"

	"todoapp/internal/optimistic"
	"todoapp/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive list",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	client, err := newClient()

	if err != nil {
		return err
	}

	store := optimistic.NewStore(client)
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), apiTimeout)
	defer cancel()

	if err := store.Refresh(ctx); err != nil {
		return err
	}

	return tui.Run(store)
}
