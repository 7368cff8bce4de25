package main

import (
	"fmt"
	"os"

	"player-core/internal/app"
	"player-core/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "player-core",
	Short: "NetEase music player core: lyric sync daemon, play history and API browser",
	Long: `player-core watches the active MPRIS player through playerctl, resolves the
current track on NetEase Cloud Music and broadcasts the lyric line at the
current position over a unix socket.

Run without a subcommand to start the daemon. The other subcommands browse
the NetEase API and manage the stored play history and player settings.`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.SetupLogger(logLevel)
		if configPath != "" {
			cfg = config.LoadFrom(configPath)
		} else {
			cfg = config.Load()
		}
	},
	RunE: runDaemon,
}

// Execute 由 main.main 调用
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/player-core/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
