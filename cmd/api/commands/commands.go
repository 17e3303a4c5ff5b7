package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savingsboard/core/internal/adapters/repository"
	"github.com/savingsboard/core/internal/application/services"
	"github.com/savingsboard/core/internal/infrastructure/config"
	"github.com/savingsboard/core/internal/infrastructure/database"
	"github.com/savingsboard/core/internal/infrastructure/logger"
	"github.com/savingsboard/core/internal/infrastructure/metrics"
	"github.com/savingsboard/core/internal/infrastructure/server"
	"github.com/savingsboard/core/internal/ports"
)

// Build information, set with -ldflags
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewRootCommand assembles the savingsboard command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "savingsboard",
		Short:         "200 deposits savings challenge",
		Long:          `SavingsBoard tracks the 200 deposits challenge: tick off each value from 1 to 200 as you save it until you reach the 20,000 goal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewBoardCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the board web server",
		Long:  "Start the web server with the board page, the JSON API, health checks and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewBoardCommand creates the board command with subcommands
func NewBoardCommand() *cobra.Command {
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect and change the board from the terminal",
	}

	boardCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the board summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, func(env *boardEnv) error {
				board, err := env.board.Snapshot()
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), env.presenter.View(board), env.presenter.Labels())
				return nil
			})
		},
	})

	boardCmd.AddCommand(&cobra.Command{
		Use:   "toggle <value>...",
		Short: "Toggle one or more deposits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]int, 0, len(args))
			for _, arg := range args {
				v, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid deposit value %q", arg)
				}
				values = append(values, v)
			}

			return withBoard(cmd, func(env *boardEnv) error {
				for _, v := range values {
					if _, err := env.board.Toggle(cmd.Context(), v); err != nil {
						return fmt.Errorf("toggle %d: %w", v, err)
					}
				}
				board, err := env.board.Snapshot()
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), env.presenter.View(board), env.presenter.Labels())
				return nil
			})
		},
	})

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every deposit after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			return withBoard(cmd, func(env *boardEnv) error {
				var confirmer ports.Confirmer = &promptConfirmer{
					in:    cmd.InOrStdin(),
					out:   cmd.OutOrStdout(),
					label: env.presenter.Labels().Confirm,
				}
				if yes {
					confirmer = ports.ConfirmFunc(func(context.Context, string) (bool, error) {
						return true, nil
					})
				}

				done, err := env.board.Reset(cmd.Context(), confirmer)
				if err != nil {
					return err
				}
				if !done {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Board reset")
				return nil
			})
		},
	}
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	boardCmd.AddCommand(resetCmd)

	return boardCmd
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the kv_store schema for the sqlite and postgres storage drivers (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				changed, err := mg.Up()
				if err != nil {
					return err
				}
				reportMigration(cmd.OutOrStdout(), "up", changed)
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				changed, err := mg.Down()
				if err != nil {
					return err
				}
				reportMigration(cmd.OutOrStdout(), "down", changed)
				return nil
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				version, dirty, err := mg.Version()
				if err != nil {
					return fmt.Errorf("failed to get migration version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print SavingsBoard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "SavingsBoard %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	storage, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	presenter, err := services.NewPresenter(cfg.Board.Locale, cfg.Board.CurrencySymbol)
	if err != nil {
		return err
	}

	appMetrics := metrics.New()
	board := services.NewBoardService(
		repository.NewStateRepository(storage.Store, cfg.Storage.Key),
		appLogger,
		appMetrics,
		cfg.Storage.Timeout,
	)

	srv, err := server.New(cfg, board, presenter, storage, appMetrics, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	appLogger.Infow("Starting SavingsBoard",
		"address", cfg.Server.GetAddr(),
		"environment", cfg.App.Environment,
		"storage", storage.Driver,
	)

	go board.Initialize(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type boardEnv struct {
	board     *services.BoardService
	presenter *services.Presenter
}

// withBoard opens the configured storage, restores the board and runs fn
func withBoard(cmd *cobra.Command, fn func(env *boardEnv) error) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries the board summary
	if cfg.Logger.Output == "stdout" {
		cfg.Logger.Output = "stderr"
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	storage, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	presenter, err := services.NewPresenter(cfg.Board.Locale, cfg.Board.CurrencySymbol)
	if err != nil {
		return err
	}

	board := services.NewBoardService(
		repository.NewStateRepository(storage.Store, cfg.Storage.Key),
		appLogger,
		nil,
		cfg.Storage.Timeout,
	)
	board.Initialize(ctx)

	return fn(&boardEnv{board: board, presenter: presenter})
}

func withMigrator(fn func(mg *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch cfg.Storage.Driver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}

	db, err := database.New(cfg.Storage.Driver, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	mg, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}

func reportMigration(w io.Writer, direction string, changed bool) {
	if !changed {
		fmt.Fprintln(w, "No migrations to run")
		return
	}
	fmt.Fprintf(w, "Migration %s completed successfully\n", direction)
}

func printSummary(w io.Writer, view ports.BoardView, labels services.Labels) {
	fmt.Fprintln(w, view.Title)
	fmt.Fprintln(w, view.GoalLabel)
	fmt.Fprintf(w, "%s: %s\n", labels.Progress, view.TotalLabel)
	fmt.Fprintf(w, "%s | %s\n", view.CountLabel, view.GoalPercentLabel)

	values := make([]string, 0, len(view.Selected))
	for _, v := range view.Selected {
		values = append(values, strconv.Itoa(v))
	}
	if len(values) == 0 {
		values = append(values, "-")
	}
	fmt.Fprintf(w, "[%s]\n", strings.Join(values, " "))
}

// promptConfirmer asks on the terminal and accepts y/yes (or s/sim)
type promptConfirmer struct {
	in    io.Reader
	out   io.Writer
	label string
}

func (p *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.label != "" {
		prompt = p.label
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "sim":
		return true, nil
	default:
		return false, nil
	}
}
