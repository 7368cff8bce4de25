package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"player-core/internal/app"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the lyric sync daemon",
	Long: `Run the lyric sync daemon in the foreground.

The daemon will:
- Poll playerctl for the current track every check_interval
- Resolve the track on NetEase and fetch its lyrics (NetEase, then LRCLib)
- Broadcast the current lyric line over the unix socket
- Record play history and persist the player volume`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// commandContext 非守护命令使用的带超时上下文
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.API.Timeout*3)
}
