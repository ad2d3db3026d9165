package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avelis/frontdesk/internal/session"
)

func newChatCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the support desk from the terminal",
		Long:  "A local REPL against the dialogue engine using an in-memory session. Useful for trying flows without a server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Frontdesk config file")
	return cmd
}

func runChat(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	mgr, err := session.NewManager(session.ManagerOpts{
		Store:  session.NewMemoryStore(nil),
		Engine: engine,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Frontdesk support chat. Type a message, or /quit to exit, /new to start over.")

	const key = "local"
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "/quit", "/exit":
			return nil
		case "/new":
			if err := mgr.Reset(key); err != nil {
				return err
			}
			fmt.Fprintln(out, "New conversation started.")
			continue
		}

		reply, err := mgr.Turn(cmd.Context(), key, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}
}
