package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"player-core/pkg/kv"
	"player-core/pkg/store"

	"github.com/spf13/cobra"
)

var clearUserID bool

var modeCmd = &cobra.Command{
	Use:       "mode [list-loop|order|random|loop]",
	Short:     "Show or set the play mode",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"list-loop", "order", "random", "loop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, func(ctx context.Context, s kv.Store) error {
			return runMode(ctx, cmd.OutOrStdout(), newSettings(s), args)
		})
	},
}

var volumeCmd = &cobra.Command{
	Use:   "volume [0-1]",
	Short: "Show or set the stored volume",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, func(ctx context.Context, s kv.Store) error {
			return runVolume(ctx, cmd.OutOrStdout(), newSettings(s), args)
		})
	},
}

var userCmd = &cobra.Command{
	Use:   "user [uid]",
	Short: "Show or set the NetEase user id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd, func(ctx context.Context, s kv.Store) error {
			return runUser(ctx, cmd.OutOrStdout(), newSettings(s), args, clearUserID)
		})
	},
}

func init() {
	userCmd.Flags().BoolVar(&clearUserID, "clear", false, "Remove the stored user id")
	rootCmd.AddCommand(modeCmd, volumeCmd, userCmd)
}

func newSettings(s kv.Store) *store.Settings {
	return store.NewSettings(s, store.PlayMode(cfg.Player.PlayMode), cfg.Player.Volume)
}

func parseMode(s string) (store.PlayMode, error) {
	for m := store.ModeListLoop; m <= store.ModeLoop; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && store.PlayMode(n).Valid() {
		return store.PlayMode(n), nil
	}
	return 0, fmt.Errorf("unknown play mode %q", s)
}

func runMode(ctx context.Context, w io.Writer, settings *store.Settings, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(w, settings.Mode(ctx))
		return nil
	}
	mode, err := parseMode(args[0])
	if err != nil {
		return err
	}
	mode, err = settings.SetMode(ctx, mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, mode)
	return nil
}

func runVolume(ctx context.Context, w io.Writer, settings *store.Settings, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(w, "%.2f\n", settings.Volume(ctx))
		return nil
	}
	volume, err := strconv.ParseFloat(args[0], 64)
	if err != nil || volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0 and 1, got %q", args[0])
	}
	if _, err := settings.SetVolume(ctx, volume); err != nil {
		return err
	}
	fmt.Fprintf(w, "%.2f\n", volume)
	return nil
}

func runUser(ctx context.Context, w io.Writer, settings *store.Settings, args []string, clearID bool) error {
	switch {
	case clearID:
		_, err := settings.SetUserID(ctx, nil)
		return err
	case len(args) == 1:
		uid, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := settings.SetUserID(ctx, &uid); err != nil {
			return err
		}
		fmt.Fprintln(w, uid)
	default:
		uid := settings.UserID(ctx)
		if uid == nil {
			fmt.Fprintln(w, "No user id stored")
			return nil
		}
		fmt.Fprintln(w, *uid)
	}
	return nil
}
