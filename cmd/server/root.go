package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roulette",
	Short: "Anonymous video chat matchmaker",
	Long: `Roulette pairs anonymous visitors two by two and relays the WebRTC
handshake between them over a WebSocket.

Configuration comes from config/config.<CONFIG_ENV>.yaml, ROULETTE_* environment
variables and the flags below, each overriding the previous.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cmd.Flags())
	},
}

func init() {
	rootCmd.Flags().String("config", "", "path to a YAML config file")
	rootCmd.Flags().String("mode", "release", "gin mode: debug, release or test")
	rootCmd.Flags().Int("port", 8080, "HTTP listen port")
	rootCmd.Flags().String("log-level", "info", "zerolog level")
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("roulette exited")
		os.Exit(1)
	}
}
