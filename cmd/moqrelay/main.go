package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	relaycmd "github.com/shiguredo-webrtc-build/moqt-build/internal/cmd/relay"
	cfgpkg "github.com/shiguredo-webrtc-build/moqt-build/internal/config"
	logpkg "github.com/shiguredo-webrtc-build/moqt-build/pkg/log"
)

const version = "0.1.0"

func main() {
	level := os.Getenv("MOQ_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(&logpkg.ConsoleOutput{}),
	)

	rootCmd := &cobra.Command{
		Use:   "moqrelay",
		Short: "moqrelay CLI",
		Long:  "moqrelay is an in-memory publish/subscribe relay for live-media object tracks.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("moqrelay %s (session version 0x%08x)\n", version, cfgpkg.DefaultVersion)
		},
	}
	rootCmd.AddCommand(versionCmd)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an in-process publisher/relay/subscriber demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			groups, _ := cmd.Flags().GetInt("groups")
			objects, _ := cmd.Flags().GetInt("objects")
			logLevel, _ := cmd.Flags().GetString("log-level")

			cfg := cfgpkg.Default()
			if configPath != "" {
				loaded, err := cfgpkg.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			cfgpkg.FromEnv(&cfg)
			cfg.Normalize()

			if logLevel != "" {
				if lvl, err := logpkg.ParseLevel(logLevel); err == nil {
					logger.SetLevel(lvl)
				}
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return relaycmd.RunDemo(ctx, relaycmd.DemoOptions{
				Config:          cfg,
				Groups:          groups,
				ObjectsPerGroup: objects,
				Logger:          logger,
			})
		},
	}
	demoCmd.Flags().String("config", "", "Path to a JSON or YAML config file")
	demoCmd.Flags().Int("groups", 4, "Number of groups to publish")
	demoCmd.Flags().Int("objects", 3, "Objects per group")
	demoCmd.Flags().String("log-level", os.Getenv("MOQ_LOG_LEVEL"), "Log level: debug|info|warn|error")
	rootCmd.AddCommand(demoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
