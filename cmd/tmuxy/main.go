// Package main implements tmuxy, a browser and terminal client for tmux.
// It mirrors a tmux session into connected viewers and routes their mouse,
// wheel, touch, and keyboard interactions back as tmux commands or a
// locally simulated copy mode.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/flplima/tmuxy/internal/config"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode   bool
	sessionName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tmuxy",
		Short: "Browser client for tmux",
		Long: `tmuxy - A browser client for tmux

Serves a web page that mirrors a tmux session. Scrollback browsing,
text selection, and touch momentum run client-side; clicks and wheel
events for mouse-aware applications are forwarded as SGR sequences.`,
		Example: `  # Serve the "main" session on the default port
  tmuxy

  # Serve a specific session
  tmuxy --session work --port 9000

  # Attach from the terminal instead of a browser
  tmuxy attach

  # Edit configuration
  tmuxy config edit`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&sessionName, "session", "", "tmux session to mirror (default from config)")

	rootCmd.Flags().String("host", "", "Host to bind the web server to")
	rootCmd.Flags().Int("port", 0, "Port to listen on")
	rootCmd.Flags().Int("max-connections", 0, "Maximum concurrent browser connections")

	attachCmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach from the terminal",
		Long: `Attach to the mirrored session from the terminal

Renders the session's panes in place and drives the same interaction
engine as the browser client: wheel scrolling enters copy mode, drags
select text, and mouse-aware applications receive forwarded events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tmuxy configuration",
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)
	rootCmd.AddCommand(attachCmd, configCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Ensure config file exists (create default if needed)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	defaultCfg := config.DefaultConfig()

	var sb strings.Builder
	sb.WriteString("# tmuxy configuration file\n")
	sb.WriteString("# Scroll and momentum values tune the client feel.\n")
	sb.WriteString("# Keybindings map copy-mode actions to arrays of keys.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n\n")

	data, err := toml.Marshal(defaultCfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: tmuxy config edit")
	return nil
}
