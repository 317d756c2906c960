package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vlquery/vlq/internal/logsql"
	"github.com/vlquery/vlq/internal/prefs"
	"github.com/vlquery/vlq/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var baseURL string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/vlq/config.yml)")
	flag.StringVar(&baseURL, "base-url", "", "override backend base URL")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("vlq-tui - Log Explorer\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig) error {
	client, err := logsql.New(cfg.BaseURL, logsql.WithTimeout(cfg.QueryTimeout))
	if err != nil {
		return fmt.Errorf("cannot configure backend client for %s: %w", cfg.BaseURL, err)
	}

	prefsPath := prefs.DefaultPath()
	p, err := prefs.Load(prefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load preferences: %v (using defaults)\n", err)
	}

	explorer := tui.New(client, client.BaseURL(), p, prefsPath)

	program := tea.NewProgram(explorer, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
