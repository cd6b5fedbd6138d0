// Package cli implements chatctl, a command line client of the chat backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/xiaot623/chatbridge/internal/app"
	"github.com/xiaot623/chatbridge/internal/config"
	"github.com/xiaot623/chatbridge/internal/principal"
	"github.com/xiaot623/chatbridge/internal/session"
)

var (
	version = "dev"
	commit  = "unknown"
)

// env is what every command runs against once the root has logged in.
type env struct {
	app    *app.App
	login  session.Result
	format string
	out    io.Writer
}

func (e *env) principal() principal.Principal {
	return e.app.Current().Principal
}

// NewRootCommand builds chatctl. opts replaces pieces of the wiring, which
// tests use to swap in a fake backend.
func NewRootCommand(opts app.Options) *cobra.Command {
	var (
		configPath string
		backendURL string
		authMode   string
		verbose    bool
	)
	e := &env{}

	root := &cobra.Command{
		Use:   "chatctl",
		Short: "Talk to the chat backend from the terminal",
		Long: `chatctl logs in and calls the chat backend procedures.

Every command logs in first (the stub login by default, or the browser
redirect flow with --auth redirect) and acts on behalf of that principal.

Quick Start:
  chatctl login                         # Show who you are
  chatctl chats create "Trip planning"  # Start a chat
  chatctl chats list                    # List your chats
  chatctl chat "hello"                  # Ask the model`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsLogin(cmd) {
				return nil
			}
			if !verbose {
				log.SetOutput(io.Discard)
			}

			switch e.format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", e.format)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if backendURL != "" {
				cfg.BackendURL = backendURL
			}
			if authMode != "" {
				cfg.AuthMode = authMode
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.New(ctx, cfg, opts)
			if err != nil {
				return err
			}

			result, err := a.Login(ctx)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			e.app = a
			e.login = result
			e.out = cmd.OutOrStdout()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend URL (tcp://host:port or ws://host:port/rpc)")
	root.PersistentFlags().StringVar(&authMode, "auth", "", "Login mode: stub or redirect")
	root.PersistentFlags().StringVarP(&e.format, "output", "o", formatText, "Output format: text, json or yaml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newLoginCommand(e),
		newChatCommand(e),
		newChatsCommand(e),
		newUserNameCommand(e),
		newPromptCommand(e),
	)
	return root
}

// requireLogin fails commands that need a principal when the login did not
// succeed.
func (e *env) requireLogin() error {
	if !e.app.Current().LoggedIn {
		reason := e.login.Reason
		if reason == "" {
			reason = string(e.login.Outcome)
		}
		return fmt.Errorf("not logged in: %s", reason)
	}
	return nil
}

// skipsLogin reports whether cmd is one of cobra's own helper commands.
func skipsLogin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return true
		}
	}
	return false
}

// Execute runs chatctl with the process arguments.
func Execute() {
	if err := NewRootCommand(app.Options{Open: openBrowser}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
