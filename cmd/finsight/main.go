package main

import (
	"fmt"
	"os"
	"time"

	"finsight/cmd/finsight/chat"
	"finsight/internal/api"
	"finsight/internal/config"
	"finsight/internal/logging"
	"finsight/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool
	apiURL  string
	timeout time.Duration

	cfg    *config.Config
	store  *session.Store
	client *api.Client
	logger *zap.Logger

	// runID correlates all log lines of one invocation.
	runID = uuid.NewString()
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "FinSight - your financial assistant in the terminal",
	Long: `FinSight is a terminal client for the FinSight financial assistant.

It offers an AI chat tuned for beginners and veterans, per-asset chats,
a portfolio tracker with risk analysis, and an aggregated news digest.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		if cmd.Flags().Changed("timeout") {
			cfg.API.Timeout = timeout.String()
		}
		if verbose {
			cfg.Logging.Debug = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to resolve config dir: %w", err)
		}
		if err := logging.Initialize(dir, cfg.Logging.Debug, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logger = logging.Get(logging.CategoryBoot)
		logger.Info("starting",
			zap.String("run_id", runID),
			zap.String("command", cmd.Name()),
			zap.String("base_url", cfg.API.BaseURL))

		store = session.NewStore(session.DefaultPath(dir))
		client = api.New(cfg.API.BaseURL, store,
			api.WithTimeout(cfg.GetTimeout()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// runInteractive starts the TUI.
func runInteractive() error {
	if !store.Authenticated() {
		fmt.Println("You are not logged in. Run \"finsight login\" first.")
		return nil
	}

	p := tea.NewProgram(
		chat.New(client, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "override the API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "API request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(trackerCmd)
	rootCmd.AddCommand(recommendCmd)
}

func main() {
	// Local overrides for development; missing file is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
