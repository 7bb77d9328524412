package cli

import (
	"fmt"

	"github.com/PizzaHomicide/kagami/internal/catalog"
	"github.com/PizzaHomicide/kagami/internal/log"
	"github.com/PizzaHomicide/kagami/internal/ui/tui"
	"github.com/spf13/cobra"
)

func (a *app) runPlay(cmd *cobra.Command, args []string) error {
	opts, err := a.tuiOptions()
	if err != nil {
		return err
	}

	if err := tui.Run(cmd.Context(), opts); err != nil {
		log.Error("Unhandled error while running TUI", "error", err)
		return fmt.Errorf("failed to run player: %w", err)
	}

	log.Info("Kagami shutting down.  Goodbye!")
	return nil
}

// tuiOptions resolves the catalog and flags into what the player needs.  Nothing is started.
func (a *app) tuiOptions() (tui.Options, error) {
	path := a.catalogFile()
	series, err := catalog.Load(path)
	if err != nil {
		return tui.Options{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	if a.episodeID != "" {
		if _, err := catalog.Find(series, a.episodeID); err != nil {
			return tui.Options{}, fmt.Errorf("failed to start playback: %w", err)
		}
	}

	opts := tui.Options{
		Series:      series,
		EpisodeID:   a.episodeID,
		Player:      PlayerOptions(a.cfg),
		Playback:    PlaybackOptions(a.cfg),
		CatalogPath: path,
		Watch:       a.cfg.Catalog.Watch,
	}
	if a.quality != "" {
		opts.Playback.PreferredQuality = a.quality
	}
	return opts, nil
}
