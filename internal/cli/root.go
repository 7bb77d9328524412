package cli

import (
	"context"
	"fmt"

	"github.com/PizzaHomicide/kagami/internal/config"
	"github.com/PizzaHomicide/kagami/internal/log"
	"github.com/PizzaHomicide/kagami/internal/version"
	"github.com/spf13/cobra"
)

// app holds what the flags and the persistent pre-run produce
type app struct {
	cfgFile     string
	catalogPath string
	episodeID   string
	quality     string

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "kagami",
		Short: "Watch a series in mpv, driven from the terminal",
		Long: `Kagami plays the episodes of a catalog in mpv and turns the terminal into the remote: play/pause, ` +
			`seeking, press-and-hold fast seek, skip buttons for recaps, intros and outros, quality and speed menus.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE:          a.runPlay,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default: OS config directory)")
	rootCmd.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "episode catalog (default: from config, else the built-in sample)")
	rootCmd.Flags().StringVarP(&a.episodeID, "episode", "e", "", "episode id to start with (default: the first episode)")
	rootCmd.Flags().StringVarP(&a.quality, "quality", "q", "", "quality to start with, e.g. 720p (default: from config)")

	rootCmd.AddCommand(a.newEpisodesCmd(), newVersionCmd())
	return rootCmd, a
}

// init loads the config and sets up logging
func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	logger, err := log.New(log.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}
	a.logger = logger
	log.SetDefaultLogger(logger)

	log.Info("Starting up Kagami", "version", version.GetVersion(), "build_time", version.GetBuildTime())
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		a.logger.Close()
	}
}

// catalogFile is the catalog to use: the flag wins over the config.  Empty means the built-in sample.
func (a *app) catalogFile() string {
	if a.catalogPath != "" {
		return a.catalogPath
	}
	return a.cfg.Catalog.Path
}

// Execute runs the command line.  ctx is cancelled on interrupt.
func Execute(ctx context.Context, args []string) error {
	rootCmd, a := newRootCmd()
	defer a.close()

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
