package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vlquery/vlq/internal/gateway"
	"github.com/vlquery/vlq/internal/logsql"
	"github.com/vlquery/vlq/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type cmdServe struct {
	cmd    *cobra.Command
	global *cmdGlobal

	flagAddr string
}

func (c *cmdServe) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "serve"
	cmd.Short = "Run the HTTP gateway in front of the backend"
	cmd.Long = `Run a small HTTP gateway exposing POST /api/query, GET /api/kinds and
GET /api/health. The gateway forwards queries to the configured backend and
returns the same envelopes the query command prints.`
	cmd.RunE = c.Run

	cmd.Flags().StringVar(&c.flagAddr, "addr", "", "Listen address (defaults to api-addr from config)")

	c.cmd = cmd
	return cmd
}

func (c *cmdServe) Run(cmd *cobra.Command, _ []string) error {
	cfg := c.global.cfg
	addr := c.flagAddr
	if addr == "" {
		addr = cfg.APIAddr
	}

	logger, cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	client, err := logsql.New(cfg.BaseURL, logsql.WithTimeout(cfg.QueryTimeout))
	if err != nil {
		return err
	}

	server := gateway.NewServer(addr, client.BaseURL(), client, logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}
	defer server.Stop()

	printServeBanner(cfg, addr, client.BaseURL())

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now — not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return probeBackend(gctx, client, logger)
	})

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("gateway exited with error")
	}

	signal.Stop(sigCh)
	return nil
}

// probeInterval paces the backend reachability checks.
const probeInterval = 30 * time.Second

// probeBackend periodically checks that the backend answers, so upstream
// outages show up in the runtime log before anyone issues a query. The
// tenants listing is the cheapest call that exercises the full path.
func probeBackend(ctx context.Context, client *logsql.Client, logger *logrus.Logger) error {
	probe := func() {
		res := client.Tenants(ctx, model.QueryRequest{})
		if ctx.Err() != nil {
			return
		}
		if res.OK() {
			logger.WithField("backend", client.BaseURL()).Debug("backend reachable")
			return
		}
		logger.WithFields(logrus.Fields{
			"backend": client.BaseURL(),
			"error":   res.Err,
		}).Warn("backend unreachable")
	}

	probe()
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			probe()
		}
	}
}

// configureRuntimeLogger sends gateway logs to a state file so the terminal
// stays free for the banner and shutdown messages.
func configureRuntimeLogger() (*logrus.Logger, func()) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	home, err := os.UserHomeDir()
	if err != nil {
		logger.SetOutput(os.Stderr)
		return logger, func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "vlq")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.SetOutput(os.Stderr)
		return logger, func() {}
	}

	logPath := filepath.Join(logDir, "vlq.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.SetOutput(os.Stderr)
		return logger, func() {}
	}

	logger.SetOutput(f)
	return logger, func() {
		_ = f.Close()
	}
}

func printServeBanner(cfg appConfig, addr, backend string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")

	logo := cyan.Bold(true).Render(`
    ╦  ╦╦  ╔═╗
    ╚╗╔╝║  ║ ║
     ╚╝ ╩═╝╚═╩╗`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(addr)))
	lines = append(lines, fmt.Sprintf("    %s  Backend        %s", check, cyan.Render(backend)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Runtime"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Query timeout  %s", check, dim.Render(cfg.QueryTimeout.String())))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render("defaults (no config file)")))
	}
	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, dim.Render("    Press Ctrl+C to stop"))
	lines = append(lines, "")

	for _, line := range lines {
		fmt.Println(line)
	}
}
