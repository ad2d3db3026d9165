package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avelis/frontdesk/internal/bridge"
	"github.com/avelis/frontdesk/internal/bridge/discord"
	"github.com/avelis/frontdesk/internal/bridge/slack"
	"github.com/avelis/frontdesk/internal/config"
)

func newBridgeCmd() *cobra.Command {
	var (
		configPath string
		platform   string
	)

	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Run the support desk over a chat platform",
		Long:  "Connects to Slack or Discord and answers support conversations there.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(cmd, configPath, platform)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Frontdesk config file")
	cmd.Flags().StringVarP(&platform, "platform", "P", "slack", "chat platform: slack or discord")
	return cmd
}

func runBridge(cmd *cobra.Command, configPath, platform string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	adapter, err := buildAdapter(cfg, platform)
	if err != nil {
		return err
	}

	mgr, sweeper, err := buildManager(cfg)
	if err != nil {
		return err
	}

	daemon, err := bridge.NewDaemon(bridge.DaemonOpts{
		Adapter: adapter,
		Chat:    mgr,
		Out:     cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	go sweeper.Run(ctx)

	return daemon.Run(ctx)
}

// buildAdapter constructs the platform adapter, preferring env tokens
// over config file entries.
func buildAdapter(cfg *config.Config, platform string) (bridge.Adapter, error) {
	switch platform {
	case "slack":
		appToken := cfg.Slack.AppToken
		if appToken == "" {
			appToken = os.Getenv("SLACK_APP_TOKEN")
		}
		botToken := cfg.Slack.BotToken
		if botToken == "" {
			botToken = os.Getenv("SLACK_BOT_TOKEN")
		}
		return slack.New(slack.AdapterOpts{
			AppToken:  appToken,
			BotToken:  botToken,
			ChannelID: cfg.Slack.Channel,
		})

	case "discord":
		token := cfg.Discord.Token
		if token == "" {
			token = os.Getenv("DISCORD_BOT_TOKEN")
		}
		return discord.New(discord.AdapterOpts{
			BotToken:  token,
			ChannelID: cfg.Discord.Channel,
		})
	}
	return nil, fmt.Errorf("unknown platform %q (want slack or discord)", platform)
}
