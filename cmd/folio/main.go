package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/folio/internal/config"
	"github.com/mmcdole/folio/internal/gateway"
	"github.com/mmcdole/folio/internal/library"
	"github.com/mmcdole/folio/internal/log"
	"github.com/mmcdole/folio/internal/session"
	"github.com/mmcdole/folio/internal/tui"
	"github.com/mmcdole/folio/internal/viewer"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "folio",
		Short: "Terminal client for a personal document library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
		SilenceUsage: true,
	}

	root.AddCommand(newListCmd(), newUploadCmd(), newRmCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired components shared by the TUI and the headless
// subcommands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	gateway   *gateway.Client
	store     *library.Store
	snapshot  *library.Snapshot
	syncer    *session.Syncer
}

func (a *app) close() {
	if a.snapshot != nil {
		a.snapshot.Close()
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// setup loads config (running the first-run flow if needed) and wires the
// component graph.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := log.Open(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
		logCloser = nil
	}
	slog.SetDefault(logger)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return nil, err
		}
	}

	client := gateway.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	snapshot, err := library.OpenSnapshot(config.CachePath(), cfg.Server.URL)
	if err != nil {
		logger.Warn("snapshot unavailable, running without offline cache", "error", err)
		snapshot = nil
	}

	store := library.NewStore(client, snapshot, logger)
	store.Restore()

	syncer := session.NewSyncer(client, store, cfg.Reader.QuietPeriod, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		gateway:   client,
		store:     store,
		snapshot:  snapshot,
		syncer:    syncer,
	}, nil
}

func runTUI() error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("starting folio", "version", Version)

	launcher := viewer.NewLauncher(a.cfg.Reader.ViewerCommand, a.logger)
	model := tui.NewModel(a.store, a.gateway, a.syncer, launcher, a.logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	// Any reading position still pending goes out before exit.
	a.syncer.Close()

	a.logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the server URL and token on first run. The token
// is read without echo.
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Folio!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter your library server URL (e.g., http://localhost:8001/api): ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	serverURL := strings.TrimSpace(input)
	if serverURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}

	fmt.Print("Access token: ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	cfg.Server.URL = serverURL
	cfg.Server.Token = strings.TrimSpace(string(tokenBytes))

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}
