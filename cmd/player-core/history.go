package main

import (
	"context"
	"fmt"

	"player-core/internal/app"
	"player-core/pkg/kv"
	"player-core/pkg/store"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the play history, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, func(ctx context.Context, s kv.Store) error {
			printHistory(cmd.OutOrStdout(), store.NewHistory(s).List(ctx))
			return nil
		})
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <song-id>",
	Short: "Remove a song from the play history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withStorage(cmd, func(ctx context.Context, s kv.Store) error {
			list, err := store.NewHistory(s).Remove(ctx, store.Entry{ID: id})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d songs left in history\n", len(list))
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the play history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, func(ctx context.Context, s kv.Store) error {
			_, err := store.NewHistory(s).Clear(ctx)
			return err
		})
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func withStorage(cmd *cobra.Command, fn func(ctx context.Context, s kv.Store) error) error {
	backend, err := app.OpenStorage(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()
	return fn(ctx, backend)
}
