package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nest/internal/app"
	"github.com/MrSnakeDoc/nest/internal/config"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/sources/homepage"
	"github.com/MrSnakeDoc/nest/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ nest: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nest",
		Short:         "Personal bookmark dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// setup loads the config and builds the logger every command shares.
func setup(ctx context.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	log.Debug("config loaded", logger.String("config", fmt.Sprintf("%+v", cfg.Redacted())))
	return cfg, log, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func newImportCommand() *cobra.Command {
	var (
		email  string
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a Homepage bookmarks.yaml or services.yaml for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			res, err := app.Import(ctx, cfg, log, email, file, homepage.Format(format))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"imported %d bookmarks (%d duplicates skipped), %d new folders, %d existing folders reused\n",
				res.BookmarksInserted, res.Duplicates, res.FoldersCreated, res.FoldersReused)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the account receiving the bookmarks")
	cmd.Flags().StringVar(&file, "file", "", "Path to the Homepage YAML file")
	cmd.Flags().StringVar(&format, "format", string(homepage.FormatBookmarks), "File format: bookmarks or services")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
